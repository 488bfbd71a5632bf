package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"noise-sentinel/internal/model"
	"noise-sentinel/internal/numbering"
	"noise-sentinel/internal/repository"
)

type StationInput struct {
	Name        string
	StationCode string
	District    string
	City        string
	Province    string
}

type CourtInput struct {
	Name      string
	CourtType string
	City      string
	Province  string
}

type ViolationInput struct {
	Name          string
	Description   string
	PenaltyAmount float64
	IsCognizable  bool
	SectionOfLaw  string
}

type DeviceInput struct {
	DeviceCode string
	StationID  *uuid.UUID
}

// ReferenceService maintains the reference data the workflows read: stations, courts,
// violation types and IoT devices.
type ReferenceService struct {
	stations   StationStore
	courts     CourtStore
	violations ViolationStore
	devices    DeviceStore
	now        func() time.Time
}

func NewReferenceService(stations StationStore, courts CourtStore, violations ViolationStore, devices DeviceStore) *ReferenceService {
	return &ReferenceService{
		stations:   stations,
		courts:     courts,
		violations: violations,
		devices:    devices,
		now:        time.Now,
	}
}

func (s *ReferenceService) CreateStation(ctx context.Context, principal model.Principal, input StationInput) (*model.PoliceStation, error) {
	if !principal.Can(model.CapManageReference) {
		return nil, ErrPermissionDenied
	}
	name := strings.TrimSpace(input.Name)
	// Stored in the form FIR numbers render it, so uniqueness holds on the rendered code.
	code := numbering.StationCode(input.StationCode)
	if name == "" || code == "" {
		return nil, newError(ErrInvalidInput, "station name and a code with letters or digits are required")
	}
	station := &model.PoliceStation{
		Name:        name,
		StationCode: code,
		District:    strings.TrimSpace(input.District),
		City:        strings.TrimSpace(input.City),
		Province:    strings.TrimSpace(input.Province),
	}
	if err := s.stations.Create(ctx, station); err != nil {
		return nil, duplicate(err, "station code %s is taken", code)
	}
	return station, nil
}

func (s *ReferenceService) CreateCourt(ctx context.Context, principal model.Principal, input CourtInput) (*model.Court, error) {
	if !principal.Can(model.CapManageReference) {
		return nil, ErrPermissionDenied
	}
	court := &model.Court{
		Name:      strings.TrimSpace(input.Name),
		CourtType: strings.TrimSpace(input.CourtType),
		City:      strings.TrimSpace(input.City),
		Province:  strings.TrimSpace(input.Province),
	}
	if court.Name == "" || court.CourtType == "" || court.City == "" {
		return nil, newError(ErrInvalidInput, "court name, type and city are required")
	}
	if err := s.courts.Create(ctx, court); err != nil {
		return nil, err
	}
	return court, nil
}

func (s *ReferenceService) CreateViolation(ctx context.Context, principal model.Principal, input ViolationInput) (*model.Violation, error) {
	if !principal.Can(model.CapManageReference) {
		return nil, ErrPermissionDenied
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, newError(ErrInvalidInput, "violation name is required")
	}
	if input.PenaltyAmount < 0 {
		return nil, newError(ErrInvalidInput, "penalty amount must not be negative")
	}
	violation := &model.Violation{
		Name:          name,
		Description:   strings.TrimSpace(input.Description),
		PenaltyAmount: input.PenaltyAmount,
		IsCognizable:  input.IsCognizable,
		SectionOfLaw:  strings.TrimSpace(input.SectionOfLaw),
	}
	if err := s.violations.Create(ctx, violation); err != nil {
		return nil, duplicate(err, "violation %s already exists", name)
	}
	return violation, nil
}

func (s *ReferenceService) ListViolations(ctx context.Context, principal model.Principal) ([]model.Violation, error) {
	if !principal.Can(model.CapReadCaseMaterials) {
		return nil, ErrPermissionDenied
	}
	return s.violations.List(ctx)
}

// RegisterDevice adds a device as registered but not yet calibrated.
func (s *ReferenceService) RegisterDevice(ctx context.Context, principal model.Principal, input DeviceInput) (*model.IotDevice, error) {
	if !principal.Can(model.CapManageReference) {
		return nil, ErrPermissionDenied
	}
	code := strings.TrimSpace(input.DeviceCode)
	if code == "" {
		return nil, newError(ErrInvalidInput, "device code is required")
	}
	if input.StationID != nil {
		if _, err := s.stations.GetByID(ctx, *input.StationID); err != nil {
			return nil, notFound(err, "police station", *input.StationID)
		}
	}
	device := &model.IotDevice{
		DeviceCode:   code,
		StationID:    input.StationID,
		IsRegistered: true,
	}
	if err := s.devices.Create(ctx, device); err != nil {
		return nil, duplicate(err, "device %s is already registered", code)
	}
	return device, nil
}

func (s *ReferenceService) CalibrateDevice(ctx context.Context, principal model.Principal, deviceID uuid.UUID) (*model.IotDevice, error) {
	if !principal.Can(model.CapManageReference) {
		return nil, ErrPermissionDenied
	}
	at := s.now().UTC()
	if err := s.devices.MarkCalibrated(ctx, deviceID, at); err != nil {
		return nil, notFound(err, "device", deviceID)
	}
	device, err := s.devices.GetByID(ctx, deviceID)
	if err != nil {
		return nil, notFound(err, "device", deviceID)
	}
	return device, nil
}

func duplicate(err error, format string, args ...interface{}) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return newError(ErrConflict, format, args...)
	}
	return err
}
