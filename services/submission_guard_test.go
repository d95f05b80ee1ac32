package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionGuard(t *testing.T) {
	g := NewSubmissionGuard()

	release, ok := g.Acquire("staff-1")
	require.True(t, ok)

	_, ok = g.Acquire("staff-1")
	assert.False(t, ok, "second submission while the first is in flight")

	other, ok := g.Acquire("staff-2")
	require.True(t, ok)
	other()

	release()
	release()
	again, ok := g.Acquire("staff-1")
	require.True(t, ok)
	again()
}
