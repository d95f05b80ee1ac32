package events

import (
	"context"
	"sync"
)

const subscriberBuffer = 64

type memSub struct {
	ch     chan ChangeEvent
	filter map[string]bool
}

// MemoryFeed is a single-process broker. Slow subscribers lose events instead of blocking writers.
type MemoryFeed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*memSub
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subs: make(map[int]*memSub)}
}

func (f *MemoryFeed) Publish(ctx context.Context, ev ChangeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if !wants(s.filter, ev.Collection) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
}

func (f *MemoryFeed) Subscribe(ctx context.Context, collections ...string) (<-chan ChangeEvent, func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	s := &memSub{ch: make(chan ChangeEvent, subscriberBuffer), filter: toFilter(collections)}
	f.subs[id] = s
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			close(s.ch)
			f.mu.Unlock()
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return s.ch, cancel
}

// Subscribers reports the number of open subscriptions.
func (f *MemoryFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
