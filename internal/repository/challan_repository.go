package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"noise-sentinel/internal/model"
)

type ChallanRepository struct {
	db *gorm.DB
}

func NewChallanRepository(db *gorm.DB) *ChallanRepository {
	return &ChallanRepository{db: db}
}

func (r *ChallanRepository) Create(ctx context.Context, challan *model.Challan) error {
	return translateError(conn(ctx, r.db).Create(challan).Error)
}

func (r *ChallanRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Challan, error) {
	var challan model.Challan
	err := conn(ctx, r.db).
		Preload("Accused").
		Preload("Vehicle").
		Preload("Violation").
		Preload("EmissionReport").
		Where("id = ?", id).
		First(&challan).Error
	if err != nil {
		return nil, err
	}
	return &challan, nil
}

// LinkedChallanID returns the challan already referencing the report, nil when none.
func (r *ChallanRepository) LinkedChallanID(ctx context.Context, reportID uuid.UUID) (*uuid.UUID, error) {
	var ids []uuid.UUID
	err := conn(ctx, r.db).
		Model(&model.Challan{}).
		Where("emission_report_id = ?", reportID).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &ids[0], nil
}

func (r *ChallanRepository) ListByAccusedAndVehicle(ctx context.Context, accusedID, vehicleID uuid.UUID) ([]model.Challan, error) {
	var challans []model.Challan
	err := conn(ctx, r.db).
		Preload("Violation").
		Preload("Vehicle").
		Where("accused_id = ? AND vehicle_id = ?", accusedID, vehicleID).
		Order("issue_date_time ASC").
		Find(&challans).Error
	if err != nil {
		return nil, err
	}
	return challans, nil
}

func (r *ChallanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ChallanStatus) error {
	result := conn(ctx, r.db).
		Model(&model.Challan{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
