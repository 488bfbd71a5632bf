package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"noise-sentinel/internal/model"
)

type testEnv struct {
	db       *memDB
	tx       *memTx
	notifier *recordingNotifier
	evidence *memEvidence
	access   *memPublicStore
	issuer   *stubIssuer
	now      time.Time

	reports memReports

	gate      *LinkageGate
	resolver  *EntityResolver
	emission  *EmissionService
	challans  *ChallanService
	firs      *FirService
	cases     *CaseService
	public    *PublicService
	auth      *AuthService
	reference *ReferenceService

	station   model.PoliceStation
	court     model.Court
	device    model.IotDevice
	horn      model.Violation
	parking   model.Violation
	judgeUser model.User

	officer          model.Principal
	stationAuthority model.Principal
	courtAuthority   model.Principal
	judge            model.Principal
	admin            model.Principal
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newMemDB()
	env := &testEnv{
		db:       db,
		tx:       &memTx{db: db},
		notifier: &recordingNotifier{},
		evidence: newMemEvidence(),
		access:   newMemPublicStore(),
		issuer:   &stubIssuer{},
		now:      time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
		reports:  memReports{db: db},
	}
	clock := func() time.Time { return env.now }
	log := zerolog.Nop()

	users := memUsers{db: db}
	stations := memStations{db: db}
	courts := memCourts{db: db}
	devices := memDevices{db: db}
	violations := memViolations{db: db}
	accused := memAccused{db: db}
	vehicles := memVehicles{db: db}
	challans := memChallans{db: db}
	firs := memFirs{db: db}
	cases := memCases{db: db}
	sequences := memSequences{db: db}

	env.gate = NewLinkageGate(challans, firs, cases)
	env.resolver = NewEntityResolver(accused, vehicles, memChangeLog{db: db})

	env.emission = NewEmissionService(devices, env.reports, log)
	env.emission.now = clock
	env.challans = NewChallanService(env.tx, violations, env.reports, challans, env.gate, env.resolver, env.evidence, env.notifier,
		ChallanOptions{DueDays: 30, EvidenceMaxBytes: 1 << 20, JPEGQuality: 70}, log)
	env.challans.now = clock
	env.firs = NewFirService(env.tx, stations, firs, sequences, env.gate, env.notifier, log)
	env.firs.now = clock
	env.cases = NewCaseService(env.tx, courts, users, firs, cases, sequences, env.gate, env.notifier,
		CaseOptions{HearingDefaultDays: 30}, log)
	env.cases.now = clock
	env.public = NewPublicService(accused, vehicles, challans, firs, cases, env.access, env.notifier,
		PublicOptions{OTPTTL: 15 * time.Minute, TokenTTL: 24 * time.Hour, MaxAttempts: 3}, log)
	env.public.now = clock
	env.auth = NewAuthService(users, stations, courts, env.issuer, log)
	env.reference = NewReferenceService(stations, courts, violations, devices)
	env.reference.now = clock

	ctx := context.Background()
	env.station = model.PoliceStation{Name: "Gulberg Police Station", StationCode: "GLB", City: "Lahore", Province: "Punjab"}
	require.NoError(t, stations.Create(ctx, &env.station))
	env.court = model.Court{Name: "Environmental Court Lahore", CourtType: "Environmental Court", City: "Lahore", Province: "Punjab"}
	require.NoError(t, courts.Create(ctx, &env.court))

	calibratedAt := env.now.AddDate(0, -1, 0)
	env.device = model.IotDevice{
		DeviceCode:   "IOT-01",
		StationID:    &env.station.ID,
		IsRegistered: true,
		IsCalibrated: true,
		CalibratedAt: &calibratedAt,
	}
	require.NoError(t, devices.Create(ctx, &env.device))

	env.horn = model.Violation{Name: "Excessive Horn", PenaltyAmount: 2000, IsCognizable: true, SectionOfLaw: "MVO 1965 s.105"}
	require.NoError(t, violations.Create(ctx, &env.horn))
	env.parking = model.Violation{Name: "Wrong Parking", PenaltyAmount: 500, IsCognizable: false}
	require.NoError(t, violations.Create(ctx, &env.parking))

	env.judgeUser = model.User{
		Username: "judge.khan",
		FullName: "Justice Khan",
		Email:    "judge@courts.example",
		RoleID:   db.roles[model.RoleJudge].ID,
		CourtID:  &env.court.ID,
		IsActive: true,
	}
	require.NoError(t, users.Create(ctx, &env.judgeUser))

	env.officer = model.Principal{UserID: uuid.New(), Role: model.RolePoliceOfficer, StationID: &env.station.ID}
	env.stationAuthority = model.Principal{UserID: uuid.New(), Role: model.RoleStationAuthority, StationID: &env.station.ID}
	env.courtAuthority = model.Principal{UserID: uuid.New(), Role: model.RoleCourtAuthority, CourtID: &env.court.ID}
	env.judge = model.Principal{UserID: env.judgeUser.ID, Role: model.RoleJudge, CourtID: &env.court.ID}
	env.admin = model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}

	return env
}

func floatPtr(v float64) *float64 {
	return &v
}

func (env *testEnv) recordReport(t *testing.T, soundLevel float64) *model.EmissionReport {
	t.Helper()
	report, err := env.emission.Create(context.Background(), env.officer, RecordEmissionInput{
		DeviceID:      env.device.ID,
		CO:            floatPtr(1.25),
		SoundLevelDBa: soundLevel,
		TestDateTime:  env.now.Add(-2 * time.Hour),
	})
	require.NoError(t, err)
	return report
}

func challanInput(violationID uuid.UUID, reportID *uuid.UUID, cnic, plate string) IssueChallanInput {
	return IssueChallanInput{
		ViolationID:      violationID,
		EmissionReportID: reportID,
		Accused: AccusedInput{
			CNIC:     cnic,
			FullName: "Ali Raza",
			City:     "Lahore",
			Contact:  "0300-1234567",
			Email:    "ali@example.com",
		},
		Vehicle: VehicleInput{
			PlateNumber: plate,
			Make:        "Honda",
			VehicleType: "Motorcycle",
		},
		Location: "Main Boulevard",
	}
}

func (env *testEnv) issueChallan(t *testing.T, violationID uuid.UUID, reportID *uuid.UUID) *model.Challan {
	t.Helper()
	challan, err := env.challans.Create(context.Background(), env.officer,
		challanInput(violationID, reportID, "12345-1234567-1", "ABC-123"))
	require.NoError(t, err)
	return challan
}

func (env *testEnv) fileFir(t *testing.T, challanID uuid.UUID) *model.Fir {
	t.Helper()
	fir, err := env.firs.Create(context.Background(), env.stationAuthority, FileFirInput{
		ChallanID:   challanID,
		Description: "Repeated use of pressure horn",
	})
	require.NoError(t, err)
	return fir
}

func (env *testEnv) openCase(t *testing.T, firID uuid.UUID) *model.CaseDetails {
	t.Helper()
	details, err := env.cases.Create(context.Background(), env.courtAuthority, OpenCaseInput{
		FirID:    firID,
		JudgeID:  env.judgeUser.ID,
		CaseType: "Noise Pollution",
	})
	require.NoError(t, err)
	return details
}
