package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"noise-sentinel/internal/model"
	"noise-sentinel/internal/numbering"
	"noise-sentinel/internal/repository"
)

// maxNumberAttempts bounds how often a creation is retried after its document number
// collided with a concurrent one.
const maxNumberAttempts = 3

type FileFirInput struct {
	ChallanID   uuid.UUID
	StationID   *uuid.UUID
	Description string
}

type FirService struct {
	tx        Transactor
	stations  StationStore
	firs      FirStore
	sequences SequenceStore
	gate      *LinkageGate
	notifier  Notifier
	log       zerolog.Logger
	now       func() time.Time
}

func NewFirService(
	tx Transactor,
	stations StationStore,
	firs FirStore,
	sequences SequenceStore,
	gate *LinkageGate,
	notifier Notifier,
	log zerolog.Logger,
) *FirService {
	return &FirService{
		tx:        tx,
		stations:  stations,
		firs:      firs,
		sequences: sequences,
		gate:      gate,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// Create files an FIR from a challan with a cognizable violation and numbers it
// FIR-{station}-{year}-{seq} within the filing station's code and year.
func (s *FirService) Create(ctx context.Context, principal model.Principal, input FileFirInput) (*model.Fir, error) {
	if !principal.Can(model.CapFileFir) {
		return nil, ErrPermissionDenied
	}

	stationID := input.StationID
	if stationID == nil {
		stationID = principal.StationID
	}
	if stationID == nil {
		return nil, newError(ErrInvalidInput, "station is required")
	}
	station, err := s.stations.GetByID(ctx, *stationID)
	if err != nil {
		return nil, notFound(err, "police station", *stationID)
	}

	var fir *model.Fir
	for attempt := 1; ; attempt++ {
		fir, err = s.create(ctx, principal, station, input)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrNumberTaken) || attempt >= maxNumberAttempts {
			if errors.Is(err, repository.ErrNumberTaken) {
				return nil, newError(ErrConflict, "could not allocate an FIR number for station %s", station.StationCode)
			}
			return nil, err
		}
		s.log.Warn().
			Err(err).
			Int("attempt", attempt).
			Str("station", station.StationCode).
			Msg("fir number collided, retrying")
	}

	s.log.Info().Str("fir_no", fir.FirNo).Str("challan_id", fir.ChallanID.String()).Msg("fir filed")

	recipient := ""
	if fir.Challan != nil && fir.Challan.Accused != nil {
		recipient = fir.Challan.Accused.Email
	}
	publish(ctx, s.notifier, s.log, model.Notification{
		Kind:      model.NotifyFirFiled,
		Recipient: recipient,
		Subject:   fmt.Sprintf("FIR %s registered", fir.FirNo),
		Attributes: map[string]string{
			"fir_id":     fir.ID.String(),
			"fir_no":     fir.FirNo,
			"challan_id": fir.ChallanID.String(),
			"station":    station.Name,
		},
		OccurredAt: fir.DateFiled,
	})
	return fir, nil
}

func (s *FirService) create(ctx context.Context, principal model.Principal, station *model.PoliceStation, input FileFirInput) (*model.Fir, error) {
	filedAt := s.now().UTC()
	year := filedAt.Year()

	var fir *model.Fir
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		challan, err := s.gate.CheckFirToChallan(ctx, input.ChallanID)
		if err != nil {
			return err
		}

		code := numbering.StationCode(station.StationCode)
		seq, err := s.sequences.Next(ctx, model.DocumentScope{Kind: model.DocumentFir, Code: code, Year: year})
		if err != nil {
			return err
		}

		record := &model.Fir{
			FirNo:       numbering.Format(numbering.PrefixFir, code, year, seq),
			StationID:   station.ID,
			ChallanID:   challan.ID,
			FilingYear:  year,
			Sequence:    seq,
			DateFiled:   filedAt,
			Status:      model.FirStatusRegistered,
			Description: strings.TrimSpace(input.Description),
			InformantID: principal.UserID,
		}
		if err := s.firs.Create(ctx, record); err != nil {
			if errors.Is(err, repository.ErrLinkTaken) {
				return newError(ErrAlreadyLinked, "challan %s is already linked to an FIR", challan.ID)
			}
			return err
		}

		record.Challan = challan
		record.Station = station
		fir = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fir, nil
}

func (s *FirService) Get(ctx context.Context, principal model.Principal, firID uuid.UUID) (*model.Fir, error) {
	if !principal.Can(model.CapReadCaseMaterials) {
		return nil, ErrPermissionDenied
	}
	fir, err := s.firs.GetByID(ctx, firID)
	if err != nil {
		return nil, notFound(err, "FIR", firID)
	}
	return fir, nil
}

var firTransitions = map[model.FirStatus][]model.FirStatus{
	model.FirStatusRegistered:         {model.FirStatusRegistered, model.FirStatusUnderInvestigation},
	model.FirStatusUnderInvestigation: {model.FirStatusUnderInvestigation, model.FirStatusClosed},
}

// UpdateInvestigation records the investigation report and moves the FIR along
// Registered -> Under Investigation -> Closed. Forwarding to court happens only when a
// case is opened.
func (s *FirService) UpdateInvestigation(ctx context.Context, principal model.Principal, firID uuid.UUID, status model.FirStatus, report string) (*model.Fir, error) {
	if !principal.Can(model.CapUpdateFir) {
		return nil, ErrPermissionDenied
	}

	fir, err := s.firs.GetByID(ctx, firID)
	if err != nil {
		return nil, notFound(err, "FIR", firID)
	}
	if !firTransitionAllowed(fir.Status, status) {
		return nil, newError(ErrInvalidStatus, "FIR %s cannot move from %s to %s", fir.FirNo, fir.Status, status)
	}

	report = strings.TrimSpace(report)
	if report == "" {
		report = fir.InvestigationReport
	}
	if err := s.firs.UpdateInvestigation(ctx, firID, status, report); err != nil {
		return nil, notFound(err, "FIR", firID)
	}
	fir.Status = status
	fir.InvestigationReport = report
	return fir, nil
}

func firTransitionAllowed(from, to model.FirStatus) bool {
	for _, next := range firTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
