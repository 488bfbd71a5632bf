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

type CaseOptions struct {
	HearingDefaultDays int
}

type OpenCaseInput struct {
	FirID       uuid.UUID
	CourtID     *uuid.UUID
	JudgeID     uuid.UUID
	CaseType    string
	HearingDate *time.Time
}

type CaseService struct {
	tx        Transactor
	courts    CourtStore
	users     UserStore
	firs      FirStore
	cases     CaseStore
	sequences SequenceStore
	gate      *LinkageGate
	notifier  Notifier
	opts      CaseOptions
	log       zerolog.Logger
	now       func() time.Time
}

func NewCaseService(
	tx Transactor,
	courts CourtStore,
	users UserStore,
	firs FirStore,
	cases CaseStore,
	sequences SequenceStore,
	gate *LinkageGate,
	notifier Notifier,
	opts CaseOptions,
	log zerolog.Logger,
) *CaseService {
	if opts.HearingDefaultDays <= 0 {
		opts.HearingDefaultDays = 30
	}
	return &CaseService{
		tx:        tx,
		courts:    courts,
		users:     users,
		firs:      firs,
		cases:     cases,
		sequences: sequences,
		gate:      gate,
		notifier:  notifier,
		opts:      opts,
		log:       log,
		now:       time.Now,
	}
}

// Create opens a case from an FIR, numbers it CASE-{courtType}-{city}-{year}-{seq} and
// forwards the FIR to court. Evidence that fails verification is logged and reported on
// the result but does not block filing.
func (s *CaseService) Create(ctx context.Context, principal model.Principal, input OpenCaseInput) (*model.CaseDetails, error) {
	if !principal.Can(model.CapCreateCase) {
		return nil, ErrPermissionDenied
	}

	courtID := input.CourtID
	if courtID == nil {
		courtID = principal.CourtID
	}
	if courtID == nil {
		return nil, newError(ErrInvalidInput, "court is required")
	}
	court, err := s.courts.GetByID(ctx, *courtID)
	if err != nil {
		return nil, notFound(err, "court", *courtID)
	}

	judge, err := s.users.GetByID(ctx, input.JudgeID)
	if err != nil {
		return nil, notFound(err, "judge", input.JudgeID)
	}
	if judge.RoleName() != model.RoleJudge || !judge.IsActive {
		return nil, newError(ErrInvalidInput, "user %s is not an active judge", judge.Username)
	}

	caseType := strings.TrimSpace(input.CaseType)
	if caseType == "" {
		return nil, newError(ErrInvalidInput, "case type is required")
	}

	now := s.now().UTC()
	hearing := now.AddDate(0, 0, s.opts.HearingDefaultDays)
	if input.HearingDate != nil {
		if !input.HearingDate.After(now) {
			return nil, newError(ErrInvalidInput, "hearing date must be in the future")
		}
		hearing = input.HearingDate.UTC()
	}

	var courtCase *model.Case
	for attempt := 1; ; attempt++ {
		courtCase, err = s.create(ctx, court, judge.ID, caseType, hearing, input.FirID)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrNumberTaken) || attempt >= maxNumberAttempts {
			if errors.Is(err, repository.ErrNumberTaken) {
				return nil, newError(ErrConflict, "could not allocate a case number for court %s", court.Name)
			}
			return nil, err
		}
		s.log.Warn().
			Err(err).
			Int("attempt", attempt).
			Str("court_id", court.ID.String()).
			Str("court_code", numbering.CourtCode(court.CourtType, court.City)).
			Msg("case number collided, retrying")
	}

	details := &model.CaseDetails{Case: *courtCase, Evidence: s.verifyEvidence(courtCase)}

	s.log.Info().Str("case_no", courtCase.CaseNo).Str("fir_id", courtCase.FirID.String()).Msg("case opened")

	publish(ctx, s.notifier, s.log, model.Notification{
		Kind:      model.NotifyCaseCreated,
		Recipient: accusedEmail(courtCase),
		Subject:   fmt.Sprintf("Case %s opened", courtCase.CaseNo),
		Attributes: map[string]string{
			"case_id":      courtCase.ID.String(),
			"case_no":      courtCase.CaseNo,
			"court":        court.Name,
			"hearing_date": courtCase.HearingDate.Format("2006-01-02"),
		},
		OccurredAt: now,
	})
	return details, nil
}

func (s *CaseService) create(ctx context.Context, court *model.Court, judgeID uuid.UUID, caseType string, hearing time.Time, firID uuid.UUID) (*model.Case, error) {
	year := s.now().UTC().Year()

	var courtCase *model.Case
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		fir, err := s.gate.CheckCaseToFir(ctx, firID)
		if err != nil {
			return err
		}

		code := numbering.CourtCode(court.CourtType, court.City)
		seq, err := s.sequences.Next(ctx, model.DocumentScope{Kind: model.DocumentCase, Code: code, Year: year})
		if err != nil {
			return err
		}

		record := &model.Case{
			CaseNo:      numbering.Format(numbering.PrefixCase, code, year, seq),
			FirID:       fir.ID,
			CourtID:     court.ID,
			JudgeID:     judgeID,
			CaseType:    caseType,
			CaseStatus:  model.CaseStatusPending,
			FilingYear:  year,
			Sequence:    seq,
			HearingDate: hearing,
		}
		if err := s.cases.Create(ctx, record); err != nil {
			if errors.Is(err, repository.ErrLinkTaken) {
				return newError(ErrAlreadyLinked, "FIR %s is already linked to a case", fir.FirNo)
			}
			return err
		}
		if err := s.firs.UpdateStatus(ctx, fir.ID, model.FirStatusForwarded); err != nil {
			return err
		}

		fir.Status = model.FirStatusForwarded
		record.Fir = fir
		record.Court = court
		courtCase = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return courtCase, nil
}

// Get returns the case with its statements and the verification result of the emission
// report behind it, if any.
func (s *CaseService) Get(ctx context.Context, principal model.Principal, caseID uuid.UUID) (*model.CaseDetails, error) {
	if !principal.Can(model.CapReadCaseMaterials) {
		return nil, ErrPermissionDenied
	}
	courtCase, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, notFound(err, "case", caseID)
	}
	return &model.CaseDetails{Case: *courtCase, Evidence: s.verifyEvidence(courtCase)}, nil
}

func (s *CaseService) AddStatement(ctx context.Context, principal model.Principal, caseID uuid.UUID, text string) (*model.CaseStatement, error) {
	if !principal.Can(model.CapAddStatement) {
		return nil, ErrPermissionDenied
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, newError(ErrInvalidInput, "statement text is required")
	}

	courtCase, err := s.loadForJudge(ctx, principal, caseID)
	if err != nil {
		return nil, err
	}

	statement := &model.CaseStatement{
		CaseID:        courtCase.ID,
		StatementBy:   principal.UserID,
		StatementText: text,
		StatementDate: s.now().UTC(),
	}
	if err := s.cases.AddStatement(ctx, statement); err != nil {
		return nil, err
	}
	return statement, nil
}

// RecordVerdict stores the verdict of the assigned judge. An explicit status wins;
// otherwise the status is inferred from the verdict text.
func (s *CaseService) RecordVerdict(ctx context.Context, principal model.Principal, caseID uuid.UUID, verdict string, status *model.CaseStatus) (*model.Case, error) {
	if !principal.Can(model.CapRecordVerdict) {
		return nil, ErrPermissionDenied
	}
	verdict = strings.TrimSpace(verdict)
	if verdict == "" {
		return nil, newError(ErrInvalidInput, "verdict is required")
	}

	outcome := InferStatus(verdict)
	if status != nil {
		if !verdictOutcomes[*status] {
			return nil, newError(ErrInvalidInput, "%q is not a verdict outcome", *status)
		}
		outcome = *status
	}

	courtCase, err := s.loadForJudge(ctx, principal, caseID)
	if err != nil {
		return nil, err
	}
	if courtCase.Verdict != nil {
		return nil, newError(ErrInvalidStatus, "case %s already has a verdict", courtCase.CaseNo)
	}

	decidedAt := s.now().UTC()
	if err := s.cases.RecordVerdict(ctx, courtCase.ID, verdict, outcome, decidedAt); err != nil {
		return nil, notFound(err, "case", caseID)
	}
	courtCase.Verdict = &verdict
	courtCase.VerdictDate = &decidedAt
	courtCase.CaseStatus = outcome

	publish(ctx, s.notifier, s.log, model.Notification{
		Kind:      model.NotifyVerdict,
		Recipient: accusedEmail(courtCase),
		Subject:   fmt.Sprintf("Verdict recorded in case %s", courtCase.CaseNo),
		Attributes: map[string]string{
			"case_id": courtCase.ID.String(),
			"case_no": courtCase.CaseNo,
			"status":  string(outcome),
		},
		OccurredAt: decidedAt,
	})
	return courtCase, nil
}

// Reschedule moves the next hearing. A first scheduling marks the case as scheduled, a
// later one as adjourned.
func (s *CaseService) Reschedule(ctx context.Context, principal model.Principal, caseID uuid.UUID, hearingDate time.Time) (*model.Case, error) {
	if !principal.Can(model.CapScheduleHearing) {
		return nil, ErrPermissionDenied
	}
	if !hearingDate.After(s.now()) {
		return nil, newError(ErrInvalidInput, "hearing date must be in the future")
	}

	courtCase, err := s.loadForJudge(ctx, principal, caseID)
	if err != nil {
		return nil, err
	}
	if courtCase.Verdict != nil {
		return nil, newError(ErrInvalidStatus, "case %s is already decided", courtCase.CaseNo)
	}

	status := model.CaseStatusHearing
	if courtCase.CaseStatus == model.CaseStatusHearing || courtCase.CaseStatus == model.CaseStatusAdjourned {
		status = model.CaseStatusAdjourned
	}
	hearingDate = hearingDate.UTC()
	if err := s.cases.Reschedule(ctx, courtCase.ID, hearingDate, status); err != nil {
		return nil, notFound(err, "case", caseID)
	}
	courtCase.HearingDate = hearingDate
	courtCase.CaseStatus = status
	return courtCase, nil
}

// loadForJudge loads the case and, for judges, requires the principal to be the assigned one.
func (s *CaseService) loadForJudge(ctx context.Context, principal model.Principal, caseID uuid.UUID) (*model.Case, error) {
	courtCase, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, notFound(err, "case", caseID)
	}
	if principal.IsJudge() && courtCase.JudgeID != principal.UserID {
		return nil, newError(ErrPermissionDenied, "case %s is assigned to another judge", courtCase.CaseNo)
	}
	return courtCase, nil
}

func (s *CaseService) verifyEvidence(courtCase *model.Case) *model.VerificationResult {
	if courtCase.Fir == nil || courtCase.Fir.Challan == nil || courtCase.Fir.Challan.EmissionReport == nil {
		return nil
	}
	result := verifyReport(courtCase.Fir.Challan.EmissionReport)
	if !result.IsAuthentic {
		s.log.Warn().
			Str("case_no", courtCase.CaseNo).
			Str("report_id", result.ReportID.String()).
			Msg("emission report evidence is inadmissible: signature mismatch")
	}
	return result
}

func accusedEmail(courtCase *model.Case) string {
	if courtCase.Fir == nil || courtCase.Fir.Challan == nil || courtCase.Fir.Challan.Accused == nil {
		return ""
	}
	return courtCase.Fir.Challan.Accused.Email
}
