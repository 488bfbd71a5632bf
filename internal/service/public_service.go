package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"noise-sentinel/internal/model"
)

const (
	otpDigits       = 6
	accessTokenSize = 32
)

type PublicOptions struct {
	OTPTTL      time.Duration
	TokenTTL    time.Duration
	MaxAttempts int
}

type AccessRequest struct {
	VehicleNo string
	CNIC      string
	Email     string
}

type AccessVerification struct {
	VehicleNo string
	CNIC      string
	OTP       string
}

type AccessToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PublicService lets a member of the public who knows a CNIC and plate pair, and can read
// mail at the address recorded for the accused, view the status of the matching challans.
type PublicService struct {
	accused  AccusedStore
	vehicles VehicleStore
	challans ChallanStore
	firs     FirStore
	cases    CaseStore
	store    PublicAccessStore
	notifier Notifier
	opts     PublicOptions
	log      zerolog.Logger
	now      func() time.Time
}

func NewPublicService(
	accused AccusedStore,
	vehicles VehicleStore,
	challans ChallanStore,
	firs FirStore,
	cases CaseStore,
	store PublicAccessStore,
	notifier Notifier,
	opts PublicOptions,
	log zerolog.Logger,
) *PublicService {
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = 15 * time.Minute
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	return &PublicService{
		accused:  accused,
		vehicles: vehicles,
		challans: challans,
		firs:     firs,
		cases:    cases,
		store:    store,
		notifier: notifier,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// RequestAccess sends a one-time code when the CNIC and plate share at least one challan
// and the email is the one recorded for the accused. It returns when the code expires.
func (s *PublicService) RequestAccess(ctx context.Context, req AccessRequest) (time.Time, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return time.Time{}, newError(ErrInvalidInput, "email is required")
	}
	key, accused, vehicle, err := s.lookup(ctx, req.CNIC, req.VehicleNo)
	if err != nil {
		return time.Time{}, err
	}
	// Answered exactly like an unknown pair.
	recorded := strings.TrimSpace(accused.Email)
	if recorded == "" || !strings.EqualFold(recorded, email) {
		return time.Time{}, errNoMatch()
	}
	email = recorded

	code, err := generateOTP()
	if err != nil {
		return time.Time{}, err
	}
	issuedAt := s.now().UTC()
	record := model.OTPRecord{
		CodeHash:  hashSecret(code),
		Email:     email,
		AccusedID: accused.ID,
		VehicleID: vehicle.ID,
		IssuedAt:  issuedAt,
	}
	if err := s.store.SaveOTP(ctx, key, record, s.opts.OTPTTL); err != nil {
		return time.Time{}, fmt.Errorf("save otp: %w", err)
	}

	if err := s.notifier.Notify(ctx, model.Notification{
		Kind:      model.NotifyPublicOTP,
		Recipient: email,
		Subject:   "Your NoiseSentinel verification code",
		Attributes: map[string]string{
			"otp":        code,
			"expires_in": s.opts.OTPTTL.String(),
			"plate":      vehicle.PlateNumber,
		},
		OccurredAt: issuedAt,
	}); err != nil {
		return time.Time{}, fmt.Errorf("deliver otp: %w", err)
	}
	return issuedAt.Add(s.opts.OTPTTL), nil
}

// VerifyAccess exchanges a valid code for an opaque bearer token. Each pending code allows
// a bounded number of attempts.
func (s *PublicService) VerifyAccess(ctx context.Context, req AccessVerification) (*AccessToken, error) {
	cnic, err := NormalizeCNIC(req.CNIC)
	if err != nil {
		return nil, err
	}
	plate, err := NormalizePlate(req.VehicleNo)
	if err != nil {
		return nil, err
	}
	key := accessKey(cnic, plate)

	// Counted before the code is read: a guess racing the lockout sees a spent counter or
	// no code.
	attempts, err := s.store.IncrementAttempts(ctx, key, s.opts.OTPTTL)
	if err != nil {
		return nil, err
	}
	if attempts > s.opts.MaxAttempts {
		if err := s.store.DeleteOTP(ctx, key); err != nil {
			return nil, err
		}
		return nil, newError(ErrOTPInvalid, "too many attempts, request a new code")
	}

	record, err := s.store.GetOTP(ctx, key)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, newError(ErrOTPInvalid, "no pending verification code, request a new one")
	}

	given := hashSecret(strings.TrimSpace(req.OTP))
	if subtle.ConstantTimeCompare([]byte(given), []byte(record.CodeHash)) != 1 {
		return nil, newError(ErrOTPInvalid, "verification code does not match")
	}
	if err := s.store.DeleteOTP(ctx, key); err != nil {
		return nil, err
	}

	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	issuedAt := s.now().UTC()
	grant := model.AccessGrant{
		AccusedID: record.AccusedID,
		VehicleID: record.VehicleID,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.opts.TokenTTL),
	}
	if err := s.store.SaveGrant(ctx, hashSecret(token), grant, s.opts.TokenTTL); err != nil {
		return nil, fmt.Errorf("save access grant: %w", err)
	}
	return &AccessToken{Token: token, ExpiresAt: grant.ExpiresAt}, nil
}

// CaseStatus returns the read-only view bound to an access token.
func (s *PublicService) CaseStatus(ctx context.Context, token string) (*model.CaseStatusSnapshot, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}
	grant, err := s.store.GetGrant(ctx, hashSecret(token))
	if err != nil {
		return nil, err
	}
	if grant == nil || !s.now().Before(grant.ExpiresAt) {
		return nil, newError(ErrUnauthorized, "access token is invalid or expired")
	}

	accused, err := s.accused.GetByID(ctx, grant.AccusedID)
	if err != nil {
		return nil, notFound(err, "accused", grant.AccusedID)
	}
	challans, err := s.challans.ListByAccusedAndVehicle(ctx, grant.AccusedID, grant.VehicleID)
	if err != nil {
		return nil, err
	}

	snapshot := &model.CaseStatusSnapshot{
		AccusedName: accused.FullName,
		CNIC:        accused.CNIC,
		Challans:    make([]model.ChallanStatusRecord, 0, len(challans)),
		GeneratedAt: s.now().UTC(),
	}
	if len(challans) == 0 {
		return snapshot, nil
	}

	challanIDs := make([]uuid.UUID, 0, len(challans))
	for _, c := range challans {
		challanIDs = append(challanIDs, c.ID)
	}
	firs, err := s.firs.ListByChallanIDs(ctx, challanIDs)
	if err != nil {
		return nil, err
	}
	firByChallan := make(map[uuid.UUID]model.Fir, len(firs))
	firIDs := make([]uuid.UUID, 0, len(firs))
	for _, f := range firs {
		firByChallan[f.ChallanID] = f
		firIDs = append(firIDs, f.ID)
	}
	cases, err := s.cases.ListByFirIDs(ctx, firIDs)
	if err != nil {
		return nil, err
	}
	caseByFir := make(map[uuid.UUID]model.Case, len(cases))
	for _, c := range cases {
		caseByFir[c.FirID] = c
	}

	for _, c := range challans {
		if c.Vehicle != nil && snapshot.PlateNumber == "" {
			snapshot.PlateNumber = c.Vehicle.PlateNumber
		}
		record := model.ChallanStatusRecord{
			ChallanID:     c.ID,
			PenaltyAmount: c.PenaltyAmount,
			IssueDateTime: c.IssueDateTime,
			DueDateTime:   c.DueDateTime,
			Status:        c.Status,
		}
		if c.Violation != nil {
			record.Violation = c.Violation.Name
		}
		if f, ok := firByChallan[c.ID]; ok {
			record.Fir = &model.FirBrief{ID: f.ID, FirNo: f.FirNo, Status: f.Status, DateFiled: f.DateFiled}
			if cc, ok := caseByFir[f.ID]; ok {
				record.Case = &model.CaseBrief{
					ID:          cc.ID,
					CaseNo:      cc.CaseNo,
					CaseType:    cc.CaseType,
					Status:      cc.CaseStatus,
					HearingDate: cc.HearingDate,
					Verdict:     cc.Verdict,
					VerdictDate: cc.VerdictDate,
				}
			}
		}
		snapshot.Challans = append(snapshot.Challans, record)
	}
	return snapshot, nil
}

// lookup resolves the pair and requires at least one challan issued against both.
func (s *PublicService) lookup(ctx context.Context, rawCNIC, rawPlate string) (string, *model.Accused, *model.Vehicle, error) {
	cnic, err := NormalizeCNIC(rawCNIC)
	if err != nil {
		return "", nil, nil, err
	}
	plate, err := NormalizePlate(rawPlate)
	if err != nil {
		return "", nil, nil, err
	}

	noMatch := errNoMatch()
	accused, err := s.accused.GetByCNIC(ctx, cnic)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, nil, noMatch
		}
		return "", nil, nil, err
	}
	vehicle, err := s.vehicles.GetByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, nil, noMatch
		}
		return "", nil, nil, err
	}
	challans, err := s.challans.ListByAccusedAndVehicle(ctx, accused.ID, vehicle.ID)
	if err != nil {
		return "", nil, nil, err
	}
	if len(challans) == 0 {
		return "", nil, nil, noMatch
	}
	return accessKey(cnic, plate), accused, vehicle, nil
}

func errNoMatch() error {
	return newError(ErrNotFound, "no challan matches this CNIC, vehicle number and email")
}

func accessKey(cnic, plate string) string {
	return cnic + ":" + plate
}

func generateOTP() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

func randomToken() (string, error) {
	buf := make([]byte, accessTokenSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
