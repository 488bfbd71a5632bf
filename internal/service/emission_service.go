package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"noise-sentinel/internal/integrity"
	"noise-sentinel/internal/model"
)

const maxSoundLevelDBa = 200

type RecordEmissionInput struct {
	DeviceID         uuid.UUID
	CO               *float64
	CO2              *float64
	HC               *float64
	NOx              *float64
	SoundLevelDBa    float64
	TestDateTime     time.Time
	MLClassification *string
}

type EmissionService struct {
	devices DeviceStore
	reports EmissionReportStore
	log     zerolog.Logger
	now     func() time.Time
}

func NewEmissionService(devices DeviceStore, reports EmissionReportStore, log zerolog.Logger) *EmissionService {
	return &EmissionService{
		devices: devices,
		reports: reports,
		log:     log,
		now:     time.Now,
	}
}

// Create stores a signed reading. Values are canonicalized first, so the stored row and the
// signature agree after the database round trip.
func (s *EmissionService) Create(ctx context.Context, principal model.Principal, input RecordEmissionInput) (*model.EmissionReport, error) {
	if !principal.Can(model.CapRecordEmission) {
		return nil, ErrPermissionDenied
	}
	if err := s.validateReading(input); err != nil {
		return nil, err
	}

	device, err := s.devices.GetByID(ctx, input.DeviceID)
	if err != nil {
		return nil, notFound(err, "device", input.DeviceID)
	}
	if !device.IsRegistered {
		return nil, newError(ErrInvalidInput, "device %s is not registered", device.DeviceCode)
	}
	if !device.IsCalibrated {
		return nil, newError(ErrInvalidInput, "device %s is not calibrated", device.DeviceCode)
	}

	creator := principal.UserID
	report := &model.EmissionReport{
		DeviceID:         device.ID,
		CO:               input.CO,
		CO2:              input.CO2,
		HC:               input.HC,
		NOx:              input.NOx,
		SoundLevelDBa:    input.SoundLevelDBa,
		TestDateTime:     input.TestDateTime,
		MLClassification: input.MLClassification,
		CreatedBy:        &creator,
	}
	reading := integrity.Canonicalize(report.Reading())
	report.CO = reading.CO
	report.CO2 = reading.CO2
	report.HC = reading.HC
	report.NOx = reading.NOx
	report.SoundLevelDBa = reading.SoundLevelDBa
	report.TestDateTime = reading.TestDateTime
	report.DigitalSignature = integrity.Generate(reading)

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	report.Device = device
	return report, nil
}

func (s *EmissionService) Get(ctx context.Context, principal model.Principal, reportID uuid.UUID) (*model.EmissionReport, error) {
	if !principal.Can(model.CapReadCaseMaterials) {
		return nil, ErrPermissionDenied
	}
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, notFound(err, "emission report", reportID)
	}
	return report, nil
}

// Verify recomputes the report's signature. It never modifies the report.
func (s *EmissionService) Verify(ctx context.Context, principal model.Principal, reportID uuid.UUID) (*model.VerificationResult, error) {
	report, err := s.Get(ctx, principal, reportID)
	if err != nil {
		return nil, err
	}
	result := verifyReport(report)
	if !result.IsAuthentic {
		s.log.Warn().Str("report_id", reportID.String()).Msg("emission report failed signature verification")
	}
	return result, nil
}

func (s *EmissionService) validateReading(input RecordEmissionInput) error {
	if input.DeviceID == uuid.Nil {
		return newError(ErrInvalidInput, "device id is required")
	}
	if input.SoundLevelDBa <= 0 || input.SoundLevelDBa > maxSoundLevelDBa {
		return newError(ErrInvalidInput, "sound level must be in (0, %d] dBA", maxSoundLevelDBa)
	}
	pollutants := map[string]*float64{"co": input.CO, "co2": input.CO2, "hc": input.HC, "nox": input.NOx}
	for name, value := range pollutants {
		if value != nil && *value < 0 {
			return newError(ErrInvalidInput, "%s must not be negative", name)
		}
	}
	if input.TestDateTime.IsZero() {
		return newError(ErrInvalidInput, "test date time is required")
	}
	if input.TestDateTime.After(s.now()) {
		return newError(ErrInvalidInput, "test date time is in the future")
	}
	return nil
}

func verifyReport(report *model.EmissionReport) *model.VerificationResult {
	v := integrity.Verify(report.Reading(), report.DigitalSignature)
	return &model.VerificationResult{
		ReportID:          report.ID,
		IsAuthentic:       v.IsAuthentic,
		ComputedSignature: v.ComputedSignature,
		StoredSignature:   v.StoredSignature,
		Admissible:        v.IsAuthentic,
	}
}
