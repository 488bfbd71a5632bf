package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"noise-sentinel/internal/model"
)

type StationRepository struct {
	db *gorm.DB
}

func NewStationRepository(db *gorm.DB) *StationRepository {
	return &StationRepository{db: db}
}

func (r *StationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PoliceStation, error) {
	var station model.PoliceStation
	if err := conn(ctx, r.db).Where("id = ?", id).First(&station).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *StationRepository) Create(ctx context.Context, station *model.PoliceStation) error {
	return translateError(conn(ctx, r.db).Create(station).Error)
}

type CourtRepository struct {
	db *gorm.DB
}

func NewCourtRepository(db *gorm.DB) *CourtRepository {
	return &CourtRepository{db: db}
}

func (r *CourtRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Court, error) {
	var court model.Court
	if err := conn(ctx, r.db).Where("id = ?", id).First(&court).Error; err != nil {
		return nil, err
	}
	return &court, nil
}

func (r *CourtRepository) Create(ctx context.Context, court *model.Court) error {
	return translateError(conn(ctx, r.db).Create(court).Error)
}

type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.IotDevice, error) {
	var device model.IotDevice
	if err := conn(ctx, r.db).Where("id = ?", id).First(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *DeviceRepository) Create(ctx context.Context, device *model.IotDevice) error {
	return translateError(conn(ctx, r.db).Create(device).Error)
}

func (r *DeviceRepository) MarkCalibrated(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := conn(ctx, r.db).
		Model(&model.IotDevice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_calibrated": true,
			"calibrated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type ViolationRepository struct {
	db *gorm.DB
}

func NewViolationRepository(db *gorm.DB) *ViolationRepository {
	return &ViolationRepository{db: db}
}

func (r *ViolationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Violation, error) {
	var violation model.Violation
	if err := conn(ctx, r.db).Where("id = ?", id).First(&violation).Error; err != nil {
		return nil, err
	}
	return &violation, nil
}

func (r *ViolationRepository) List(ctx context.Context) ([]model.Violation, error) {
	var violations []model.Violation
	if err := conn(ctx, r.db).Order("name ASC").Find(&violations).Error; err != nil {
		return nil, err
	}
	return violations, nil
}

func (r *ViolationRepository) Create(ctx context.Context, violation *model.Violation) error {
	return translateError(conn(ctx, r.db).Create(violation).Error)
}
