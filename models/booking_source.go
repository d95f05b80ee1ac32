package models

import (
	"time"

	"gorm.io/datatypes"
)

// BookingSourcesConfigID is the primary key of the single shared sources row.
const BookingSourcesConfigID uint = 1

type BookingSourcesConfig struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	Sources   datatypes.JSONSlice[string] `gorm:"column:sources" json:"sources"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

// DefaultBookingSources seeds the shared list the first time it is read.
var DefaultBookingSources = []string{
	"Walk-In",
	"Phone",
	"MakeMyTrip",
	"Goibibo",
	"Booking.com",
	"Agoda",
	"Airbnb",
}
