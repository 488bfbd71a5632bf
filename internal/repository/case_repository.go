package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"noise-sentinel/internal/model"
)

type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Create(ctx context.Context, courtCase *model.Case) error {
	return translateError(conn(ctx, r.db).Omit("Fir", "Court", "Statements").Create(courtCase).Error)
}

func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Case, error) {
	var courtCase model.Case
	err := conn(ctx, r.db).
		Preload("Court").
		Preload("Fir").
		Preload("Fir.Challan").
		Preload("Fir.Challan.Accused").
		Preload("Fir.Challan.EmissionReport").
		Preload("Statements", func(db *gorm.DB) *gorm.DB {
			return db.Order("statement_date ASC")
		}).
		Where("id = ?", id).
		First(&courtCase).Error
	if err != nil {
		return nil, err
	}
	return &courtCase, nil
}

// LinkedCaseID returns the case already opened from the FIR, nil when none.
func (r *CaseRepository) LinkedCaseID(ctx context.Context, firID uuid.UUID) (*uuid.UUID, error) {
	var ids []uuid.UUID
	err := conn(ctx, r.db).
		Model(&model.Case{}).
		Where("fir_id = ?", firID).
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

func (r *CaseRepository) ListByFirIDs(ctx context.Context, firIDs []uuid.UUID) ([]model.Case, error) {
	if len(firIDs) == 0 {
		return nil, nil
	}
	var cases []model.Case
	if err := conn(ctx, r.db).Where("fir_id IN ?", firIDs).Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *CaseRepository) RecordVerdict(ctx context.Context, id uuid.UUID, verdict string, status model.CaseStatus, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"verdict":      verdict,
		"verdict_date": at,
		"case_status":  status,
	})
}

func (r *CaseRepository) Reschedule(ctx context.Context, id uuid.UUID, hearingDate time.Time, status model.CaseStatus) error {
	return r.update(ctx, id, map[string]interface{}{
		"hearing_date": hearingDate,
		"case_status":  status,
	})
}

func (r *CaseRepository) AddStatement(ctx context.Context, statement *model.CaseStatement) error {
	return conn(ctx, r.db).Create(statement).Error
}

func (r *CaseRepository) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := conn(ctx, r.db).Model(&model.Case{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
