package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"noise-sentinel/internal/model"
)

// EmissionReportRepository only inserts and reads. Reports are never updated.
type EmissionReportRepository struct {
	db *gorm.DB
}

func NewEmissionReportRepository(db *gorm.DB) *EmissionReportRepository {
	return &EmissionReportRepository{db: db}
}

func (r *EmissionReportRepository) Create(ctx context.Context, report *model.EmissionReport) error {
	return conn(ctx, r.db).Create(report).Error
}

func (r *EmissionReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.EmissionReport, error) {
	var report model.EmissionReport
	if err := conn(ctx, r.db).Preload("Device").Where("id = ?", id).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
