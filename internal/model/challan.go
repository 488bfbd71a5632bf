package model

import (
	"time"

	"github.com/google/uuid"
)

type ChallanStatus string

const (
	ChallanStatusUnpaid   ChallanStatus = "Unpaid"
	ChallanStatusPaid     ChallanStatus = "Paid"
	ChallanStatusDisputed ChallanStatus = "Disputed"
)

// Challan links at most once to an emission report (unique emission_report_id).
type Challan struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OfficerID        uuid.UUID     `gorm:"type:uuid;not null" json:"officer_id"`
	AccusedID        uuid.UUID     `gorm:"type:uuid;not null" json:"accused_id"`
	VehicleID        uuid.UUID     `gorm:"type:uuid;not null" json:"vehicle_id"`
	ViolationID      uuid.UUID     `gorm:"type:uuid;not null" json:"violation_id"`
	EmissionReportID *uuid.UUID    `gorm:"type:uuid" json:"emission_report_id"`
	PenaltyAmount    float64       `gorm:"type:numeric(12,2);not null" json:"penalty_amount"`
	IssueDateTime    time.Time     `gorm:"not null" json:"issue_date_time"`
	DueDateTime      time.Time     `gorm:"not null" json:"due_date_time"`
	Status           ChallanStatus `gorm:"type:varchar(16);not null;default:'Unpaid'" json:"status"`
	Location         string        `gorm:"type:text" json:"location"`
	EvidenceRef      *string       `gorm:"type:text" json:"evidence_ref"`
	DigitalSignature *string       `gorm:"type:varchar(64)" json:"digital_signature"`
	CreatedAt        time.Time     `gorm:"autoCreateTime" json:"created_at"`

	Accused        *Accused        `gorm:"foreignKey:AccusedID" json:"accused,omitempty"`
	Vehicle        *Vehicle        `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Violation      *Violation      `gorm:"foreignKey:ViolationID" json:"violation,omitempty"`
	EmissionReport *EmissionReport `gorm:"foreignKey:EmissionReportID" json:"emission_report,omitempty"`
}

func (Challan) TableName() string {
	return "challans"
}
