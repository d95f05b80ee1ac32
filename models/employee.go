package models

import (
	"time"

	"gorm.io/datatypes"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "Active"
	EmployeeInactive EmployeeStatus = "Inactive"
)

type Employee struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name          string                      `gorm:"size:255" json:"name"`
	Role          string                      `gorm:"size:100" json:"role"`
	Phone         string                      `gorm:"size:32" json:"phone"`
	Status        EmployeeStatus              `gorm:"size:16;default:Active" json:"status"`
	AssignedRooms datatypes.JSONSlice[string] `gorm:"column:assigned_rooms" json:"assignedRooms"`
	JoiningDate   *time.Time                  `json:"joiningDate,omitempty"`
	IDProofType   string                      `gorm:"size:64" json:"idProofType"`
	IDNumber      string                      `gorm:"size:64" json:"idNumber"`
	Address       string                      `gorm:"type:text" json:"address"`
}
