package model

import (
	"time"

	"github.com/google/uuid"
)

type CaseStatus string

const (
	CaseStatusPending   CaseStatus = "Pending"
	CaseStatusHearing   CaseStatus = "Hearing Scheduled"
	CaseStatusAdjourned CaseStatus = "Adjourned"
	CaseStatusConvicted CaseStatus = "Convicted"
	CaseStatusAcquitted CaseStatus = "Acquitted"
	CaseStatusDismissed CaseStatus = "Dismissed"
	CaseStatusClosed    CaseStatus = "Closed"
)

var caseStatuses = []CaseStatus{
	CaseStatusPending, CaseStatusHearing, CaseStatusAdjourned,
	CaseStatusConvicted, CaseStatusAcquitted, CaseStatusDismissed, CaseStatusClosed,
}

func (s CaseStatus) Valid() bool {
	for _, v := range caseStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Case is opened from exactly one FIR (unique fir_id).
type Case struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CaseNo      string     `gorm:"type:varchar(64);not null" json:"case_no"`
	FirID       uuid.UUID  `gorm:"type:uuid;not null" json:"fir_id"`
	CourtID     uuid.UUID  `gorm:"type:uuid;not null" json:"court_id"`
	JudgeID     uuid.UUID  `gorm:"type:uuid;not null" json:"judge_id"`
	CaseType    string     `gorm:"type:varchar(64);not null" json:"case_type"`
	CaseStatus  CaseStatus `gorm:"type:varchar(32);not null;default:'Pending'" json:"case_status"`
	FilingYear  int        `gorm:"not null" json:"filing_year"`
	Sequence    int        `gorm:"not null" json:"sequence"`
	HearingDate time.Time  `gorm:"not null" json:"hearing_date"`
	Verdict     *string    `gorm:"type:text" json:"verdict"`
	VerdictDate *time.Time `json:"verdict_date"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Fir        *Fir            `gorm:"foreignKey:FirID" json:"fir,omitempty"`
	Court      *Court          `gorm:"foreignKey:CourtID" json:"court,omitempty"`
	Statements []CaseStatement `gorm:"foreignKey:CaseID" json:"statements,omitempty"`
}

func (Case) TableName() string {
	return "cases"
}

type CaseStatement struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CaseID        uuid.UUID `gorm:"type:uuid;not null" json:"case_id"`
	StatementBy   uuid.UUID `gorm:"type:uuid;not null" json:"statement_by"`
	StatementText string    `gorm:"type:text;not null" json:"statement_text"`
	StatementDate time.Time `gorm:"not null" json:"statement_date"`
}

func (CaseStatement) TableName() string {
	return "case_statements"
}
