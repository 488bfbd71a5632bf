package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"noise-sentinel/internal/model"
)

// Transactor runs fn in one database transaction. Stores called with the ctx passed to
// fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetRole(ctx context.Context, name model.Role) (*model.RoleRecord, error)
	Create(ctx context.Context, user *model.User) error
}

type StationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.PoliceStation, error)
	Create(ctx context.Context, station *model.PoliceStation) error
}

type CourtStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Court, error)
	Create(ctx context.Context, court *model.Court) error
}

type DeviceStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.IotDevice, error)
	Create(ctx context.Context, device *model.IotDevice) error
	MarkCalibrated(ctx context.Context, id uuid.UUID, at time.Time) error
}

type ViolationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Violation, error)
	List(ctx context.Context) ([]model.Violation, error)
	Create(ctx context.Context, violation *model.Violation) error
}

type AccusedStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Accused, error)
	GetByCNIC(ctx context.Context, cnic string) (*model.Accused, error)
	Create(ctx context.Context, accused *model.Accused) error
	UpdateContact(ctx context.Context, id uuid.UUID, contact, address string) error
}

type VehicleStore interface {
	GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error)
	Create(ctx context.Context, vehicle *model.Vehicle) error
	SetOwner(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
}

type ChangeLogStore interface {
	Append(ctx context.Context, entry *model.EntityChangeLog) error
}

type EmissionReportStore interface {
	Create(ctx context.Context, report *model.EmissionReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.EmissionReport, error)
}

type ChallanStore interface {
	Create(ctx context.Context, challan *model.Challan) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Challan, error)
	LinkedChallanID(ctx context.Context, reportID uuid.UUID) (*uuid.UUID, error)
	ListByAccusedAndVehicle(ctx context.Context, accusedID, vehicleID uuid.UUID) ([]model.Challan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ChallanStatus) error
}

type FirStore interface {
	Create(ctx context.Context, fir *model.Fir) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Fir, error)
	LinkedFirID(ctx context.Context, challanID uuid.UUID) (*uuid.UUID, error)
	ListByChallanIDs(ctx context.Context, challanIDs []uuid.UUID) ([]model.Fir, error)
	UpdateInvestigation(ctx context.Context, id uuid.UUID, status model.FirStatus, report string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.FirStatus) error
}

type CaseStore interface {
	Create(ctx context.Context, courtCase *model.Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Case, error)
	LinkedCaseID(ctx context.Context, firID uuid.UUID) (*uuid.UUID, error)
	ListByFirIDs(ctx context.Context, firIDs []uuid.UUID) ([]model.Case, error)
	RecordVerdict(ctx context.Context, id uuid.UUID, verdict string, status model.CaseStatus, at time.Time) error
	Reschedule(ctx context.Context, id uuid.UUID, hearingDate time.Time, status model.CaseStatus) error
	AddStatement(ctx context.Context, statement *model.CaseStatement) error
}

// SequenceStore allocates document sequence numbers. Next must be called inside the
// transaction that inserts the numbered document.
type SequenceStore interface {
	Next(ctx context.Context, scope model.DocumentScope) (int, error)
}

type Notifier interface {
	Notify(ctx context.Context, notification model.Notification) error
}

// EvidenceStore is content addressed: Put returns evidence.Ref of the stored bytes.
type EvidenceStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
}

// PublicAccessStore keeps pending OTPs and issued access grants. Getters return nil, nil
// when the key is absent or expired.
type PublicAccessStore interface {
	SaveOTP(ctx context.Context, key string, record model.OTPRecord, ttl time.Duration) error
	GetOTP(ctx context.Context, key string) (*model.OTPRecord, error)
	IncrementAttempts(ctx context.Context, key string, ttl time.Duration) (int, error)
	DeleteOTP(ctx context.Context, key string) error
	SaveGrant(ctx context.Context, tokenHash string, grant model.AccessGrant, ttl time.Duration) error
	GetGrant(ctx context.Context, tokenHash string) (*model.AccessGrant, error)
}

type TokenIssuer interface {
	Issue(principal model.Principal) (string, time.Time, error)
}
