package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"noise-sentinel/internal/model"
)

type AccusedRepository struct {
	db *gorm.DB
}

func NewAccusedRepository(db *gorm.DB) *AccusedRepository {
	return &AccusedRepository{db: db}
}

func (r *AccusedRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Accused, error) {
	var accused model.Accused
	if err := conn(ctx, r.db).Where("id = ?", id).First(&accused).Error; err != nil {
		return nil, err
	}
	return &accused, nil
}

func (r *AccusedRepository) GetByCNIC(ctx context.Context, cnic string) (*model.Accused, error) {
	var accused model.Accused
	if err := conn(ctx, r.db).Where("cnic = ?", cnic).First(&accused).Error; err != nil {
		return nil, err
	}
	return &accused, nil
}

func (r *AccusedRepository) Create(ctx context.Context, accused *model.Accused) error {
	return translateError(conn(ctx, r.db).Create(accused).Error)
}

// UpdateContact overwrites the mutable contact columns of an existing accused row.
func (r *AccusedRepository) UpdateContact(ctx context.Context, id uuid.UUID, contact, address string) error {
	return conn(ctx, r.db).
		Model(&model.Accused{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"contact": contact,
			"address": address,
		}).Error
}

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := conn(ctx, r.db).Where("plate_number = ?", plate).First(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return translateError(conn(ctx, r.db).Create(vehicle).Error)
}

// SetOwner fills owner_id only while it is still unset. It reports whether the row changed.
func (r *VehicleRepository) SetOwner(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	result := conn(ctx, r.db).
		Model(&model.Vehicle{}).
		Where("id = ? AND owner_id IS NULL", id).
		Update("owner_id", ownerID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type ChangeLogRepository struct {
	db *gorm.DB
}

func NewChangeLogRepository(db *gorm.DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db}
}

func (r *ChangeLogRepository) Append(ctx context.Context, entry *model.EntityChangeLog) error {
	return conn(ctx, r.db).Create(entry).Error
}
