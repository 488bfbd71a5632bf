package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"noise-sentinel/internal/evidence"
	"noise-sentinel/internal/model"
	"noise-sentinel/internal/repository"
)

type ChallanOptions struct {
	DueDays          int
	EvidenceMaxBytes int
	JPEGQuality      int
}

type IssueChallanInput struct {
	ViolationID      uuid.UUID
	EmissionReportID *uuid.UUID
	Accused          AccusedInput
	Vehicle          VehicleInput
	Location         string
	IssueDateTime    *time.Time
	Evidence         []byte
}

type ChallanService struct {
	tx         Transactor
	violations ViolationStore
	reports    EmissionReportStore
	challans   ChallanStore
	gate       *LinkageGate
	resolver   *EntityResolver
	evidence   EvidenceStore
	notifier   Notifier
	opts       ChallanOptions
	log        zerolog.Logger
	now        func() time.Time
}

func NewChallanService(
	tx Transactor,
	violations ViolationStore,
	reports EmissionReportStore,
	challans ChallanStore,
	gate *LinkageGate,
	resolver *EntityResolver,
	evidenceStore EvidenceStore,
	notifier Notifier,
	opts ChallanOptions,
	log zerolog.Logger,
) *ChallanService {
	if opts.DueDays <= 0 {
		opts.DueDays = 30
	}
	return &ChallanService{
		tx:         tx,
		violations: violations,
		reports:    reports,
		challans:   challans,
		gate:       gate,
		resolver:   resolver,
		evidence:   evidenceStore,
		notifier:   notifier,
		opts:       opts,
		log:        log,
		now:        time.Now,
	}
}

// Create issues a challan. Accused and vehicle resolution, the report gate and the insert
// share one transaction.
func (s *ChallanService) Create(ctx context.Context, principal model.Principal, input IssueChallanInput) (*model.Challan, error) {
	if !principal.Can(model.CapIssueChallan) {
		return nil, ErrPermissionDenied
	}

	violation, err := s.violations.GetByID(ctx, input.ViolationID)
	if err != nil {
		return nil, notFound(err, "violation", input.ViolationID)
	}

	var report *model.EmissionReport
	if input.EmissionReportID != nil {
		report, err = s.reports.GetByID(ctx, *input.EmissionReportID)
		if err != nil {
			return nil, notFound(err, "emission report", *input.EmissionReportID)
		}
		if err := s.gate.CheckChallanToReport(ctx, report.ID); err != nil {
			return nil, err
		}
	}

	upload, err := s.prepareEvidence(input.Evidence)
	if err != nil {
		return nil, err
	}

	issuedAt := s.now().UTC()
	if input.IssueDateTime != nil {
		issuedAt = input.IssueDateTime.UTC()
	}
	officer := principal.UserID

	var challan *model.Challan
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if report != nil {
			if err := s.gate.CheckChallanToReport(ctx, report.ID); err != nil {
				return err
			}
		}

		accused, err := s.resolver.ResolveAccused(ctx, input.Accused, &officer)
		if err != nil {
			return err
		}
		vehicle, err := s.resolver.ResolveVehicle(ctx, input.Vehicle, &accused.ID, &officer)
		if err != nil {
			return err
		}

		record := &model.Challan{
			OfficerID:     officer,
			AccusedID:     accused.ID,
			VehicleID:     vehicle.ID,
			ViolationID:   violation.ID,
			PenaltyAmount: violation.PenaltyAmount,
			IssueDateTime: issuedAt,
			DueDateTime:   issuedAt.AddDate(0, 0, s.opts.DueDays),
			Status:        model.ChallanStatusUnpaid,
			Location:      strings.TrimSpace(input.Location),
		}
		if upload != nil {
			record.EvidenceRef = &upload.ref
		}
		if report != nil {
			signature := report.DigitalSignature
			record.EmissionReportID = &report.ID
			record.DigitalSignature = &signature
		}
		if err := s.challans.Create(ctx, record); err != nil {
			if errors.Is(err, repository.ErrLinkTaken) && report != nil {
				return newError(ErrAlreadyLinked, "emission report %s is already linked to a challan", report.ID)
			}
			return err
		}
		// Written after the insert so a rejected challan leaves no blob behind.
		if upload != nil {
			if err := s.storeEvidence(ctx, upload); err != nil {
				return err
			}
		}

		record.Accused = accused
		record.Vehicle = vehicle
		record.Violation = violation
		record.EmissionReport = report
		challan = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("challan_id", challan.ID.String()).
		Str("cnic", challan.Accused.CNIC).
		Str("plate", challan.Vehicle.PlateNumber).
		Msg("challan issued")

	publish(ctx, s.notifier, s.log, model.Notification{
		Kind:      model.NotifyChallanIssued,
		Recipient: challan.Accused.Email,
		Subject:   fmt.Sprintf("Challan issued for %s", challan.Vehicle.PlateNumber),
		Attributes: map[string]string{
			"challan_id":     challan.ID.String(),
			"violation":      violation.Name,
			"penalty_amount": fmt.Sprintf("%.2f", challan.PenaltyAmount),
			"due_date":       challan.DueDateTime.Format("2006-01-02"),
		},
		OccurredAt: issuedAt,
	})
	return challan, nil
}

func (s *ChallanService) Get(ctx context.Context, principal model.Principal, challanID uuid.UUID) (*model.Challan, error) {
	if !principal.Can(model.CapReadCaseMaterials) {
		return nil, ErrPermissionDenied
	}
	challan, err := s.challans.GetByID(ctx, challanID)
	if err != nil {
		return nil, notFound(err, "challan", challanID)
	}
	return challan, nil
}

// UpdateStatus settles an unpaid challan as paid or disputed.
func (s *ChallanService) UpdateStatus(ctx context.Context, principal model.Principal, challanID uuid.UUID, status model.ChallanStatus) (*model.Challan, error) {
	if !principal.Can(model.CapUpdateChallan) {
		return nil, ErrPermissionDenied
	}
	if status != model.ChallanStatusPaid && status != model.ChallanStatusDisputed {
		return nil, newError(ErrInvalidInput, "status must be %s or %s", model.ChallanStatusPaid, model.ChallanStatusDisputed)
	}

	challan, err := s.challans.GetByID(ctx, challanID)
	if err != nil {
		return nil, notFound(err, "challan", challanID)
	}
	if challan.Status != model.ChallanStatusUnpaid {
		return nil, newError(ErrInvalidStatus, "challan %s is already %s", challanID, challan.Status)
	}
	if err := s.challans.UpdateStatus(ctx, challanID, status); err != nil {
		return nil, notFound(err, "challan", challanID)
	}
	challan.Status = status
	return challan, nil
}

// Evidence returns the stored evidence image of a challan.
func (s *ChallanService) Evidence(ctx context.Context, principal model.Principal, challanID uuid.UUID) ([]byte, error) {
	if !principal.Can(model.CapReadCaseMaterials) {
		return nil, ErrPermissionDenied
	}
	challan, err := s.challans.GetByID(ctx, challanID)
	if err != nil {
		return nil, notFound(err, "challan", challanID)
	}
	if challan.EvidenceRef == nil || s.evidence == nil {
		return nil, newError(ErrNotFound, "challan %s has no evidence", challanID)
	}
	data, err := s.evidence.Get(ctx, *challan.EvidenceRef)
	if err != nil {
		return nil, fmt.Errorf("load evidence %s: %w", *challan.EvidenceRef, err)
	}
	return data, nil
}

type evidenceUpload struct {
	payload     []byte
	contentType string
	ref         string
}

func (s *ChallanService) prepareEvidence(data []byte) (*evidenceUpload, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if s.opts.EvidenceMaxBytes > 0 && len(data) > s.opts.EvidenceMaxBytes {
		return nil, newError(ErrInvalidInput, "evidence image exceeds %d bytes", s.opts.EvidenceMaxBytes)
	}
	if s.evidence == nil {
		return nil, newError(ErrInvalidInput, "evidence uploads are not enabled")
	}
	payload, contentType := evidence.Recompress(data, s.opts.JPEGQuality)
	return &evidenceUpload{payload: payload, contentType: contentType, ref: evidence.Ref(payload)}, nil
}

func (s *ChallanService) storeEvidence(ctx context.Context, upload *evidenceUpload) error {
	ref, err := s.evidence.Put(ctx, upload.payload, upload.contentType)
	if err != nil {
		return fmt.Errorf("store evidence: %w", err)
	}
	if ref != upload.ref {
		return fmt.Errorf("store evidence: got reference %s, want %s", ref, upload.ref)
	}
	return nil
}
