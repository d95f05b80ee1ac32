package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RoomType string

const (
	RoomTypeAC    RoomType = "AC"
	RoomTypeNonAC RoomType = "Non-AC"
)

func (t RoomType) IsValid() bool {
	return t == RoomTypeAC || t == RoomTypeNonAC
}

type RoomStatus string

const (
	RoomAvailable RoomStatus = "Available"
	RoomBooked    RoomStatus = "Booked"
)

type Room struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoomNumber string     `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Type       RoomType   `json:"type" gorm:"column:type;size:16"`
	Status     RoomStatus `json:"status" gorm:"column:status;size:16;default:Available"`
	Floor      string     `json:"floor" gorm:"type:varchar(10)"`

	// default tariff offered when the room is picked on the booking form
	BasePrice   decimal.Decimal `json:"basePrice" gorm:"column:base_price;type:decimal(14,4)"`
	Description string          `json:"description" gorm:"type:text"`
}
