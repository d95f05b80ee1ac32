package models

type RolePermission struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	RoleID     uint   `gorm:"not null;index:idx_role_permission,unique" json:"role_id"`
	Permission string `gorm:"size:150;not null;index:idx_role_permission,unique" json:"permission"`
}

const (
	PermBookingView       = "bookingManagement.view"
	PermBookingCreate     = "bookingManagement.create"
	PermBookingEdit       = "bookingManagement.edit"
	PermBookingCheckout   = "bookingManagement.checkout"
	PermBookingDelete     = "bookingManagement.delete"
	PermRoomView          = "roomManagement.view"
	PermRoomCreate        = "roomManagement.create"
	PermRoomEdit          = "roomManagement.edit"
	PermRoomDelete        = "roomManagement.delete"
	PermCustomerView      = "customerList.view"
	PermCustomerEdit      = "customerList.edit"
	PermCustomerDelete    = "customerList.delete"
	PermCustomerExport    = "customerList.export"
	PermEmployeeView      = "employeeDirectory.view"
	PermEmployeeEdit      = "employeeDirectory.edit"
	PermEmployeeDelete    = "employeeDirectory.delete"
	PermSettingsEdit      = "settings.edit"
	PermBookingSourceEdit = "bookingSources.edit"
)

// AllPermissions is granted to the owner role on seed.
var AllPermissions = []string{
	PermBookingView, PermBookingCreate, PermBookingEdit, PermBookingCheckout, PermBookingDelete,
	PermRoomView, PermRoomCreate, PermRoomEdit, PermRoomDelete,
	PermCustomerView, PermCustomerEdit, PermCustomerDelete, PermCustomerExport,
	PermEmployeeView, PermEmployeeEdit, PermEmployeeDelete,
	PermSettingsEdit, PermBookingSourceEdit,
}

// ReceptionistPermissions covers day-to-day desk work.
var ReceptionistPermissions = []string{
	PermBookingView, PermBookingCreate, PermBookingEdit, PermBookingCheckout,
	PermRoomView, PermCustomerView, PermCustomerExport, PermEmployeeView,
	PermBookingSourceEdit,
}
