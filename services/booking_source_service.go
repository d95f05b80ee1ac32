package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"hotel-frontdesk/events"
	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
)

// BookingSourceService owns the shared list of booking platforms. The list is append-only and
// unique ignoring case. The cache lives on the instance and is dropped whenever a
// bookingSources change event arrives.
type BookingSourceService struct {
	Store  store.Store
	Feed   events.Feed
	Logger *logrus.Logger

	mu    sync.RWMutex
	cache []string
}

func NewBookingSourceService(st store.Store, feed events.Feed, logger *logrus.Logger) *BookingSourceService {
	return &BookingSourceService{Store: st, Feed: feed, Logger: logger}
}

// loadOrSeed must run inside a transaction so the seed and later appends are serialized.
func loadOrSeed(ctx context.Context, tx store.Store) (*models.BookingSourcesConfig, error) {
	cfg, err := tx.GetBookingSources(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	cfg = &models.BookingSourcesConfig{
		ID:      models.BookingSourcesConfigID,
		Sources: append([]string(nil), models.DefaultBookingSources...),
	}
	if err := tx.SaveBookingSources(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Sources returns the list, seeding the defaults the first time it is ever read.
func (s *BookingSourceService) Sources(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	if s.cache != nil {
		out := append([]string(nil), s.cache...)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	var sources []string
	err := s.Store.WithTx(ctx, func(tx store.Store) error {
		cfg, err := loadOrSeed(ctx, tx)
		if err != nil {
			return err
		}
		sources = append([]string(nil), cfg.Sources...)
		return nil
	})
	if err != nil {
		return nil, persistErr("load booking sources", err)
	}

	s.mu.Lock()
	s.cache = append([]string(nil), sources...)
	s.mu.Unlock()
	return sources, nil
}

// AddSource appends a trimmed, case-insensitively new name and persists the whole list.
func (s *BookingSourceService) AddSource(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "booking source name is required")
	}

	var sources []string
	err := s.Store.WithTx(ctx, func(tx store.Store) error {
		cfg, err := loadOrSeed(ctx, tx)
		if err != nil {
			return err
		}
		for _, existing := range cfg.Sources {
			if strings.EqualFold(existing, name) {
				return conflict("Booking source '%s' already exists", existing)
			}
		}
		cfg.Sources = append(cfg.Sources, name)
		if err := tx.SaveBookingSources(ctx, cfg); err != nil {
			return err
		}
		sources = append([]string(nil), cfg.Sources...)
		return nil
	})
	if err != nil {
		return nil, persistErr("add booking source", err)
	}

	s.mu.Lock()
	s.cache = append([]string(nil), sources...)
	s.mu.Unlock()

	s.Logger.WithField("source", name).Info("Booking source added")
	s.Feed.Publish(ctx, events.NewEvent(events.CollectionBookingSources, events.OpUpdate, models.BookingSourcesConfigID))
	return sources, nil
}

// IsRegistered reports whether name is on the list, ignoring case and surrounding spaces.
func (s *BookingSourceService) IsRegistered(ctx context.Context, name string) (bool, error) {
	sources, err := s.Sources(ctx)
	if err != nil {
		return false, err
	}
	name = strings.TrimSpace(name)
	for _, src := range sources {
		if strings.EqualFold(src, name) {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate drops the cached list so the next read goes to the store.
func (s *BookingSourceService) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// Watch invalidates the cache on every bookingSources event until ctx ends.
func (s *BookingSourceService) Watch(ctx context.Context) {
	ch, cancel := s.Feed.Subscribe(ctx, events.CollectionBookingSources)
	go func() {
		defer cancel()
		for range ch {
			s.Invalidate()
		}
	}()
}
