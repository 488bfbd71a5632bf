package model

import (
	"time"

	"github.com/google/uuid"
)

type VerificationResult struct {
	ReportID          uuid.UUID `json:"report_id"`
	IsAuthentic       bool      `json:"is_authentic"`
	ComputedSignature string    `json:"computed_signature"`
	StoredSignature   string    `json:"stored_signature"`
	Admissible        bool      `json:"admissible"`
}

type CaseDetails struct {
	Case     Case                `json:"case"`
	Evidence *VerificationResult `json:"evidence"`
}

type FirBrief struct {
	ID        uuid.UUID `json:"id"`
	FirNo     string    `json:"fir_no"`
	Status    FirStatus `json:"status"`
	DateFiled time.Time `json:"date_filed"`
}

type CaseBrief struct {
	ID          uuid.UUID  `json:"id"`
	CaseNo      string     `json:"case_no"`
	CaseType    string     `json:"case_type"`
	Status      CaseStatus `json:"status"`
	HearingDate time.Time  `json:"hearing_date"`
	Verdict     *string    `json:"verdict"`
	VerdictDate *time.Time `json:"verdict_date"`
}

type ChallanStatusRecord struct {
	ChallanID     uuid.UUID     `json:"challan_id"`
	Violation     string        `json:"violation"`
	PenaltyAmount float64       `json:"penalty_amount"`
	IssueDateTime time.Time     `json:"issue_date_time"`
	DueDateTime   time.Time     `json:"due_date_time"`
	Status        ChallanStatus `json:"status"`
	Fir           *FirBrief     `json:"fir"`
	Case          *CaseBrief    `json:"case"`
}

// CaseStatusSnapshot is the read-only view served to a verified member of the public.
type CaseStatusSnapshot struct {
	AccusedName string                `json:"accused_name"`
	CNIC        string                `json:"cnic"`
	PlateNumber string                `json:"plate_number"`
	Challans    []ChallanStatusRecord `json:"challans"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// OTPRecord is what the public access store keeps for a pending verification.
// Only the hash of the code is stored.
type OTPRecord struct {
	CodeHash  string    `json:"code_hash"`
	Email     string    `json:"email"`
	AccusedID uuid.UUID `json:"accused_id"`
	VehicleID uuid.UUID `json:"vehicle_id"`
	IssuedAt  time.Time `json:"issued_at"`
}

// AccessGrant is bound to an opaque bearer token after successful OTP verification.
type AccessGrant struct {
	AccusedID uuid.UUID `json:"accused_id"`
	VehicleID uuid.UUID `json:"vehicle_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type NotificationKind string

const (
	NotifyChallanIssued NotificationKind = "challan.issued"
	NotifyFirFiled      NotificationKind = "fir.filed"
	NotifyCaseCreated   NotificationKind = "case.created"
	NotifyVerdict       NotificationKind = "case.verdict"
	NotifyPublicOTP     NotificationKind = "public.otp"
)

type Notification struct {
	Kind       NotificationKind  `json:"kind"`
	Recipient  string            `json:"recipient"`
	Subject    string            `json:"subject"`
	Attributes map[string]string `json:"attributes"`
	OccurredAt time.Time         `json:"occurred_at"`
}
