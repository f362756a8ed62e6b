package repository

import (
	"time"

	"github.com/google/uuid"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID `gorm:"type:uuid;index;not null"`
	VehicleID          uuid.UUID `gorm:"type:uuid;index;not null"`
	LocationID         uuid.UUID `gorm:"type:uuid;not null"`
	Status             string    `gorm:"not null;size:20;index"`
	BookingDate        time.Time `gorm:"not null;index"`
	ReturnDate         time.Time `gorm:"not null;index"`
	TotalAmount        float64   `gorm:"not null;type:numeric(10,2)"`
	InsuranceOption    string    `gorm:"size:20"`
	SpecialRequests    string    `gorm:"size:500"`
	AdditionalDrivers  string    `gorm:"size:255"`
	AdminNotes         string    `gorm:"size:1000"`
	CancellationReason string    `gorm:"size:500"`
	Version            int64     `gorm:"not null;default:1"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// PaymentModel is the GORM model for the payments table. One row per booking.
type PaymentModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Amount          float64   `gorm:"not null;type:numeric(10,2)"`
	Status          string    `gorm:"not null;size:20"`
	PaymentIntentID string    `gorm:"not null;size:64"`
	RefundReason    string    `gorm:"size:500"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PaymentModel) TableName() string {
	return "payments"
}

// VehicleModel is the GORM model for the vehicles table.
type VehicleModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Make      string    `gorm:"not null;size:100"`
	Model     string    `gorm:"not null;size:100"`
	DailyRate float64   `gorm:"not null;type:numeric(10,2)"`
}

// TableName returns the table name for the GORM model.
func (VehicleModel) TableName() string {
	return "vehicles"
}

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"not null;size:255"`
	Email    string    `gorm:"uniqueIndex;not null;size:255"`
	Phone    string    `gorm:"size:30"`
	IsActive bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string {
	return "users"
}

// LocationModel is the GORM model for the locations table.
type LocationModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"not null;size:255"`
}

// TableName returns the table name for the GORM model.
func (LocationModel) TableName() string {
	return "locations"
}
