package model

import (
	"time"

	"github.com/google/uuid"
)

// Violation is reference data. IsCognizable gates FIR filing.
type Violation struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name          string    `gorm:"type:varchar(128);not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	PenaltyAmount float64   `gorm:"type:numeric(12,2);not null" json:"penalty_amount"`
	IsCognizable  bool      `gorm:"not null;default:false" json:"is_cognizable"`
	SectionOfLaw  string    `gorm:"type:varchar(128)" json:"section_of_law"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Violation) TableName() string {
	return "violations"
}
