package models

import "time"

// HotelSetting feeds the printed invoice header.
type HotelSetting struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255" json:"name"`
	Address    string    `gorm:"type:text" json:"address"`
	Phone      string    `gorm:"size:50" json:"phone"`
	Email      string    `gorm:"size:150" json:"email"`
	Website    string    `gorm:"size:255" json:"website"`
	Logo       string    `gorm:"size:255" json:"logo"`
	GSTIN      string    `gorm:"column:gstin;size:32" json:"gstin"`
	PAN        string    `gorm:"column:pan;size:16" json:"pan"`
	HSNSACCode string    `gorm:"column:hsn_sac_code;size:32" json:"hsnSacCode"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
