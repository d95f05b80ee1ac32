package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewPrice_CoercesGarbageToZero(t *testing.T) {
	p := PreviewPrice(map[string]interface{}{
		"basePrice":     "1000",
		"gstRate":       12.0,
		"stayDuration":  "2",
		"advanceAmount": "abc",
	})
	require.Len(t, p.Rooms, 1)
	assert.Equal(t, "2240", p.TotalPrice.String())
	assert.Equal(t, "0", p.AdvanceAmount.String())
	assert.Equal(t, "2240", p.RemainingAmount.String())

	empty := PreviewPrice(map[string]interface{}{})
	assert.True(t, empty.TotalPrice.IsZero())
}

func TestPreviewPrice_RoomsFromJSON(t *testing.T) {
	var form map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"basePrice": 1000, "gstRate": 12, "stayDuration": 1, "advanceAmount": 500,
		"rooms": [{"basePrice": 2000}, {}]
	}`), &form))

	p := PreviewPrice(form)
	require.Len(t, p.Rooms, 2)
	assert.Equal(t, "2240", p.Rooms[0].TotalPrice.String())
	assert.Equal(t, "500", p.Rooms[0].AdvanceAmount.String())
	assert.Equal(t, "1120", p.Rooms[1].TotalPrice.String())
	assert.True(t, p.Rooms[1].AdvanceAmount.IsZero())
	assert.Equal(t, "3360", p.TotalPrice.String())
	assert.Equal(t, "2860", p.RemainingAmount.String())
}

func TestPreviewPrice_NonFiniteInputIsZero(t *testing.T) {
	var p PricePreview
	require.NotPanics(t, func() {
		p = PreviewPrice(map[string]interface{}{
			"basePrice":     "NaN",
			"gstRate":       12,
			"stayDuration":  1,
			"advanceAmount": "-Inf",
		})
	})
	assert.True(t, p.TotalPrice.IsZero())
	assert.True(t, p.AdvanceAmount.IsZero())
}
