package services

import (
	"context"
	"errors"
	"strings"

	"hotel-frontdesk/events"
	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
)

type SettingsService struct {
	Store store.Store
	Feed  events.Feed
}

func NewSettingsService(st store.Store, feed events.Feed) *SettingsService {
	return &SettingsService{Store: st, Feed: feed}
}

// Get returns the invoice header, or an empty one before anything was saved.
func (s *SettingsService) Get(ctx context.Context) (*models.HotelSetting, error) {
	h, err := s.Store.GetHotelSetting(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return &models.HotelSetting{}, nil
	}
	if err != nil {
		return nil, persistErr("get hotel settings", err)
	}
	return h, nil
}

func (s *SettingsService) Save(ctx context.Context, in models.HotelSetting) (*models.HotelSetting, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.GSTIN = strings.ToUpper(strings.TrimSpace(in.GSTIN))
	in.PAN = strings.ToUpper(strings.TrimSpace(in.PAN))
	if in.Name == "" {
		return nil, invalid("name", "Hotel name is required")
	}
	if in.GSTIN != "" && !gstinPattern.MatchString(in.GSTIN) {
		return nil, invalid("gstin", "GSTIN is not valid")
	}
	if err := s.Store.SaveHotelSetting(ctx, &in); err != nil {
		return nil, persistErr("save hotel settings", err)
	}
	s.Feed.Publish(ctx, events.NewEvent(events.CollectionSettings, events.OpUpdate, in.ID))
	return &in, nil
}
