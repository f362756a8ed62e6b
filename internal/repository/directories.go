package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/driveloop/service-rental/internal/domain/booking"
	"github.com/driveloop/service-rental/pkg/domain"
)

// GormUserDirectory resolves renters from the users table.
type GormUserDirectory struct {
	db *gorm.DB
}

// NewGormUserDirectory creates a new GormUserDirectory.
func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{db: db}
}

// Find retrieves a renter by ID.
func (d *GormUserDirectory) Find(ctx context.Context, id uuid.UUID) (*bookingDomain.Renter, error) {
	var model UserModel
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", id.String())
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &bookingDomain.Renter{
		ID:       model.ID,
		FullName: model.FullName,
		Email:    model.Email,
		Phone:    model.Phone,
		IsActive: model.IsActive,
	}, nil
}

// GormVehicleCatalog resolves vehicles from the vehicles table.
type GormVehicleCatalog struct {
	db *gorm.DB
}

// NewGormVehicleCatalog creates a new GormVehicleCatalog.
func NewGormVehicleCatalog(db *gorm.DB) *GormVehicleCatalog {
	return &GormVehicleCatalog{db: db}
}

// Find retrieves a vehicle by ID.
func (c *GormVehicleCatalog) Find(ctx context.Context, id uuid.UUID) (*bookingDomain.Vehicle, error) {
	var model VehicleModel
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Vehicle", id.String())
		}
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	return &bookingDomain.Vehicle{
		ID:        model.ID,
		Make:      model.Make,
		Model:     model.Model,
		DailyRate: model.DailyRate,
	}, nil
}

// GormLocationDirectory checks pickup locations against the locations table.
type GormLocationDirectory struct {
	db *gorm.DB
}

// NewGormLocationDirectory creates a new GormLocationDirectory.
func NewGormLocationDirectory(db *gorm.DB) *GormLocationDirectory {
	return &GormLocationDirectory{db: db}
}

// Exists reports whether the location is known. A missing location is not an
// error.
func (d *GormLocationDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&LocationModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check location: %w", err)
	}
	return count > 0, nil
}
