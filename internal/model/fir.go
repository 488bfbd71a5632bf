package model

import (
	"time"

	"github.com/google/uuid"
)

type FirStatus string

const (
	FirStatusRegistered         FirStatus = "Registered"
	FirStatusUnderInvestigation FirStatus = "Under Investigation"
	FirStatusForwarded          FirStatus = "Forwarded to Court"
	FirStatusClosed             FirStatus = "Closed"
)

// Fir is filed from exactly one challan (unique challan_id) whose violation is cognizable.
type Fir struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	FirNo               string    `gorm:"type:varchar(64);not null" json:"fir_no"`
	StationID           uuid.UUID `gorm:"type:uuid;not null" json:"station_id"`
	ChallanID           uuid.UUID `gorm:"type:uuid;not null" json:"challan_id"`
	FilingYear          int       `gorm:"not null" json:"filing_year"`
	Sequence            int       `gorm:"not null" json:"sequence"`
	DateFiled           time.Time `gorm:"not null" json:"date_filed"`
	Status              FirStatus `gorm:"type:varchar(32);not null;default:'Registered'" json:"status"`
	Description         string    `gorm:"type:text" json:"description"`
	InvestigationReport string    `gorm:"type:text" json:"investigation_report"`
	InformantID         uuid.UUID `gorm:"type:uuid;not null" json:"informant_id"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Challan *Challan       `gorm:"foreignKey:ChallanID" json:"challan,omitempty"`
	Station *PoliceStation `gorm:"foreignKey:StationID" json:"station,omitempty"`
}

func (Fir) TableName() string {
	return "firs"
}
