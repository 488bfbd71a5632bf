package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"noise-sentinel/internal/model"
)

type FirRepository struct {
	db *gorm.DB
}

func NewFirRepository(db *gorm.DB) *FirRepository {
	return &FirRepository{db: db}
}

func (r *FirRepository) Create(ctx context.Context, fir *model.Fir) error {
	return translateError(conn(ctx, r.db).Omit("Challan", "Station").Create(fir).Error)
}

func (r *FirRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Fir, error) {
	var fir model.Fir
	err := conn(ctx, r.db).
		Preload("Station").
		Preload("Challan").
		Preload("Challan.Accused").
		Preload("Challan.Violation").
		Preload("Challan.EmissionReport").
		Where("id = ?", id).
		First(&fir).Error
	if err != nil {
		return nil, err
	}
	return &fir, nil
}

// LinkedFirID returns the FIR already filed from the challan, nil when none.
func (r *FirRepository) LinkedFirID(ctx context.Context, challanID uuid.UUID) (*uuid.UUID, error) {
	var ids []uuid.UUID
	err := conn(ctx, r.db).
		Model(&model.Fir{}).
		Where("challan_id = ?", challanID).
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

func (r *FirRepository) ListByChallanIDs(ctx context.Context, challanIDs []uuid.UUID) ([]model.Fir, error) {
	if len(challanIDs) == 0 {
		return nil, nil
	}
	var firs []model.Fir
	if err := conn(ctx, r.db).Where("challan_id IN ?", challanIDs).Find(&firs).Error; err != nil {
		return nil, err
	}
	return firs, nil
}

func (r *FirRepository) UpdateInvestigation(ctx context.Context, id uuid.UUID, status model.FirStatus, report string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":               status,
		"investigation_report": report,
	})
}

func (r *FirRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.FirStatus) error {
	return r.update(ctx, id, map[string]interface{}{"status": status})
}

func (r *FirRepository) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := conn(ctx, r.db).Model(&model.Fir{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
