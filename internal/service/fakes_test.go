package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"noise-sentinel/internal/evidence"
	"noise-sentinel/internal/model"
	"noise-sentinel/internal/numbering"
	"noise-sentinel/internal/repository"
)

// memDB is an in-memory stand-in for postgres. Rows are stored by value so a snapshot is a
// shallow copy of every table. Unique constraints report the same errors as the repositories.
type memDB struct {
	mu sync.Mutex

	roles      map[model.Role]model.RoleRecord
	users      map[uuid.UUID]model.User
	stations   map[uuid.UUID]model.PoliceStation
	courts     map[uuid.UUID]model.Court
	devices    map[uuid.UUID]model.IotDevice
	violations map[uuid.UUID]model.Violation
	accused    map[uuid.UUID]model.Accused
	vehicles   map[uuid.UUID]model.Vehicle
	reports    map[uuid.UUID]model.EmissionReport
	challans   map[uuid.UUID]model.Challan
	firs       map[uuid.UUID]model.Fir
	cases      map[uuid.UUID]model.Case
	statements []model.CaseStatement
	changes    []model.EntityChangeLog
	counters   map[model.DocumentScope]int

	// numberCollisions makes the next n FIR or case inserts fail with ErrNumberTaken.
	numberCollisions int
	// staleLinks makes the Linked*ID lookups miss, as a check racing a concurrent insert would.
	staleLinks bool
}

func newMemDB() *memDB {
	db := &memDB{
		roles:      map[model.Role]model.RoleRecord{},
		users:      map[uuid.UUID]model.User{},
		stations:   map[uuid.UUID]model.PoliceStation{},
		courts:     map[uuid.UUID]model.Court{},
		devices:    map[uuid.UUID]model.IotDevice{},
		violations: map[uuid.UUID]model.Violation{},
		accused:    map[uuid.UUID]model.Accused{},
		vehicles:   map[uuid.UUID]model.Vehicle{},
		reports:    map[uuid.UUID]model.EmissionReport{},
		challans:   map[uuid.UUID]model.Challan{},
		firs:       map[uuid.UUID]model.Fir{},
		cases:      map[uuid.UUID]model.Case{},
		counters:   map[model.DocumentScope]int{},
	}
	for _, role := range allTestRoles {
		db.roles[role] = model.RoleRecord{ID: uuid.New(), Name: role}
	}
	return db
}

var allTestRoles = []model.Role{
	model.RoleAdmin, model.RolePoliceOfficer, model.RoleStationAuthority, model.RoleCourtAuthority, model.RoleJudge,
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (db *memDB) snapshot() *memDB {
	db.mu.Lock()
	defer db.mu.Unlock()
	return &memDB{
		roles:      cloneMap(db.roles),
		users:      cloneMap(db.users),
		stations:   cloneMap(db.stations),
		courts:     cloneMap(db.courts),
		devices:    cloneMap(db.devices),
		violations: cloneMap(db.violations),
		accused:    cloneMap(db.accused),
		vehicles:   cloneMap(db.vehicles),
		reports:    cloneMap(db.reports),
		challans:   cloneMap(db.challans),
		firs:       cloneMap(db.firs),
		cases:      cloneMap(db.cases),
		statements: append([]model.CaseStatement(nil), db.statements...),
		changes:    append([]model.EntityChangeLog(nil), db.changes...),
		counters:   cloneMap(db.counters),
	}
}

func (db *memDB) restore(s *memDB) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.roles, db.users, db.stations, db.courts = s.roles, s.users, s.stations, s.courts
	db.devices, db.violations, db.accused, db.vehicles = s.devices, s.violations, s.accused, s.vehicles
	db.reports, db.challans, db.firs, db.cases = s.reports, s.challans, s.firs, s.cases
	db.statements, db.changes, db.counters = s.statements, s.changes, s.counters
}

func (db *memDB) countChanges() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.changes)
}

// memTx serializes transactions and rolls every table back when fn fails. With interleave
// set, transactions run concurrently and rollback is not emulated: only the individual
// store calls are atomic, as single statements are in postgres.
type memTx struct {
	db         *memDB
	interleave bool

	serial    sync.Mutex
	stats     sync.Mutex
	commits   int
	rollbacks int
}

func (t *memTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.interleave {
		err := fn(ctx)
		t.record(err)
		return err
	}

	t.serial.Lock()
	defer t.serial.Unlock()
	snap := t.db.snapshot()
	err := fn(ctx)
	if err != nil {
		t.db.restore(snap)
	}
	t.record(err)
	return err
}

func (t *memTx) record(err error) {
	t.stats.Lock()
	defer t.stats.Unlock()
	if err != nil {
		t.rollbacks++
		return
	}
	t.commits++
}

// startLine holds every arriving goroutine until n of them have arrived. Later arrivals
// pass straight through.
type startLine struct {
	mu      sync.Mutex
	waiting int
	release chan struct{}
}

func newStartLine(n int) *startLine {
	return &startLine{waiting: n, release: make(chan struct{})}
}

func (l *startLine) arrive() {
	l.mu.Lock()
	l.waiting--
	if l.waiting == 0 {
		close(l.release)
	}
	l.mu.Unlock()
	<-l.release
}

func notFoundRow() error {
	return gorm.ErrRecordNotFound
}

type memUsers struct{ db *memDB }

func (s memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	user, ok := s.db.users[id]
	if !ok {
		return nil, notFoundRow()
	}
	return s.withRole(user), nil
}

func (s memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, user := range s.db.users {
		if user.Username == username {
			return s.withRole(user), nil
		}
	}
	return nil, notFoundRow()
}

func (s memUsers) withRole(user model.User) *model.User {
	for _, role := range s.db.roles {
		if role.ID == user.RoleID {
			r := role
			user.Role = &r
		}
	}
	return &user
}

func (s memUsers) GetRole(_ context.Context, name model.Role) (*model.RoleRecord, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	role, ok := s.db.roles[name]
	if !ok {
		return nil, notFoundRow()
	}
	return &role, nil
}

func (s memUsers) Create(_ context.Context, user *model.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.users {
		if existing.Username == user.Username {
			return fmt.Errorf("%w (uniq_users_username)", repository.ErrDuplicate)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	stored.Role = nil
	s.db.users[user.ID] = stored
	return nil
}

type memStations struct{ db *memDB }

func (s memStations) GetByID(_ context.Context, id uuid.UUID) (*model.PoliceStation, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	station, ok := s.db.stations[id]
	if !ok {
		return nil, notFoundRow()
	}
	return &station, nil
}

func (s memStations) Create(_ context.Context, station *model.PoliceStation) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.stations {
		if existing.StationCode == station.StationCode {
			return fmt.Errorf("%w (uniq_police_stations_code)", repository.ErrDuplicate)
		}
	}
	if station.ID == uuid.Nil {
		station.ID = uuid.New()
	}
	s.db.stations[station.ID] = *station
	return nil
}

type memCourts struct{ db *memDB }

func (s memCourts) GetByID(_ context.Context, id uuid.UUID) (*model.Court, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	court, ok := s.db.courts[id]
	if !ok {
		return nil, notFoundRow()
	}
	return &court, nil
}

func (s memCourts) Create(_ context.Context, court *model.Court) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if court.ID == uuid.Nil {
		court.ID = uuid.New()
	}
	s.db.courts[court.ID] = *court
	return nil
}

type memDevices struct{ db *memDB }

func (s memDevices) GetByID(_ context.Context, id uuid.UUID) (*model.IotDevice, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	device, ok := s.db.devices[id]
	if !ok {
		return nil, notFoundRow()
	}
	return &device, nil
}

func (s memDevices) Create(_ context.Context, device *model.IotDevice) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.devices {
		if existing.DeviceCode == device.DeviceCode {
			return fmt.Errorf("%w (uniq_iot_devices_code)", repository.ErrDuplicate)
		}
	}
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	s.db.devices[device.ID] = *device
	return nil
}

func (s memDevices) MarkCalibrated(_ context.Context, id uuid.UUID, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	device, ok := s.db.devices[id]
	if !ok {
		return notFoundRow()
	}
	device.IsCalibrated = true
	device.CalibratedAt = &at
	s.db.devices[id] = device
	return nil
}

type memViolations struct{ db *memDB }

func (s memViolations) GetByID(_ context.Context, id uuid.UUID) (*model.Violation, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	violation, ok := s.db.violations[id]
	if !ok {
		return nil, notFoundRow()
	}
	return &violation, nil
}

func (s memViolations) List(_ context.Context) ([]model.Violation, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]model.Violation, 0, len(s.db.violations))
	for _, v := range s.db.violations {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s memViolations) Create(_ context.Context, violation *model.Violation) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.violations {
		if existing.Name == violation.Name {
			return fmt.Errorf("%w (uniq_violations_name)", repository.ErrDuplicate)
		}
	}
	if violation.ID == uuid.Nil {
		violation.ID = uuid.New()
	}
	s.db.violations[violation.ID] = *violation
	return nil
}

type memAccused struct{ db *memDB }

func (s memAccused) GetByID(_ context.Context, id uuid.UUID) (*model.Accused, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	accused, ok := s.db.accused[id]
	if !ok {
		return nil, notFoundRow()
	}
	return &accused, nil
}

func (s memAccused) GetByCNIC(_ context.Context, cnic string) (*model.Accused, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, accused := range s.db.accused {
		if accused.CNIC == cnic {
			return &accused, nil
		}
	}
	return nil, notFoundRow()
}

func (s memAccused) Create(_ context.Context, accused *model.Accused) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.accused {
		if existing.CNIC == accused.CNIC {
			return fmt.Errorf("%w (uniq_accused_cnic)", repository.ErrNaturalKeyTaken)
		}
	}
	if accused.ID == uuid.Nil {
		accused.ID = uuid.New()
	}
	s.db.accused[accused.ID] = *accused
	return nil
}

func (s memAccused) UpdateContact(_ context.Context, id uuid.UUID, contact, address string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	accused, ok := s.db.accused[id]
	if !ok {
		return notFoundRow()
	}
	accused.Contact = contact
	accused.Address = address
	s.db.accused[id] = accused
	return nil
}

type memVehicles struct{ db *memDB }

func (s memVehicles) GetByPlate(_ context.Context, plate string) (*model.Vehicle, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, vehicle := range s.db.vehicles {
		if vehicle.PlateNumber == plate {
			return &vehicle, nil
		}
	}
	return nil, notFoundRow()
}

func (s memVehicles) Create(_ context.Context, vehicle *model.Vehicle) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.vehicles {
		if existing.PlateNumber == vehicle.PlateNumber {
			return fmt.Errorf("%w (uniq_vehicles_plate_number)", repository.ErrNaturalKeyTaken)
		}
	}
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	s.db.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (s memVehicles) SetOwner(_ context.Context, id, ownerID uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	vehicle, ok := s.db.vehicles[id]
	if !ok || vehicle.OwnerID != nil {
		return false, nil
	}
	vehicle.OwnerID = &ownerID
	s.db.vehicles[id] = vehicle
	return true, nil
}

type memChangeLog struct{ db *memDB }

func (s memChangeLog) Append(_ context.Context, entry *model.EntityChangeLog) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	s.db.changes = append(s.db.changes, *entry)
	return nil
}

type memReports struct{ db *memDB }

func (s memReports) Create(_ context.Context, report *model.EmissionReport) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	stored := *report
	stored.Device = nil
	s.db.reports[report.ID] = stored
	return nil
}

func (s memReports) GetByID(_ context.Context, id uuid.UUID) (*model.EmissionReport, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	report, ok := s.db.reports[id]
	if !ok {
		return nil, notFoundRow()
	}
	if device, ok := s.db.devices[report.DeviceID]; ok {
		report.Device = &device
	}
	return &report, nil
}

// tamper rewrites a stored reading behind the service's back.
func (s memReports) tamper(id uuid.UUID, mutate func(r *model.EmissionReport)) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	report := s.db.reports[id]
	mutate(&report)
	s.db.reports[id] = report
}

type memChallans struct{ db *memDB }

func (s memChallans) Create(_ context.Context, challan *model.Challan) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if challan.EmissionReportID != nil {
		for _, existing := range s.db.challans {
			if existing.EmissionReportID != nil && *existing.EmissionReportID == *challan.EmissionReportID {
				return fmt.Errorf("%w (uniq_challans_emission_report_id)", repository.ErrLinkTaken)
			}
		}
	}
	if challan.ID == uuid.Nil {
		challan.ID = uuid.New()
	}
	stored := *challan
	stored.Accused, stored.Vehicle, stored.Violation, stored.EmissionReport = nil, nil, nil, nil
	s.db.challans[challan.ID] = stored
	return nil
}

func (s memChallans) GetByID(_ context.Context, id uuid.UUID) (*model.Challan, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	challan, ok := s.db.challans[id]
	if !ok {
		return nil, notFoundRow()
	}
	return s.db.loadChallan(challan), nil
}

// loadChallan fills the relations the challan repository preloads. Callers hold db.mu.
func (db *memDB) loadChallan(challan model.Challan) *model.Challan {
	if accused, ok := db.accused[challan.AccusedID]; ok {
		challan.Accused = &accused
	}
	if vehicle, ok := db.vehicles[challan.VehicleID]; ok {
		challan.Vehicle = &vehicle
	}
	if violation, ok := db.violations[challan.ViolationID]; ok {
		challan.Violation = &violation
	}
	if challan.EmissionReportID != nil {
		if report, ok := db.reports[*challan.EmissionReportID]; ok {
			challan.EmissionReport = &report
		}
	}
	return &challan
}

func (s memChallans) LinkedChallanID(_ context.Context, reportID uuid.UUID) (*uuid.UUID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.staleLinks {
		return nil, nil
	}
	for _, challan := range s.db.challans {
		if challan.EmissionReportID != nil && *challan.EmissionReportID == reportID {
			id := challan.ID
			return &id, nil
		}
	}
	return nil, nil
}

func (s memChallans) ListByAccusedAndVehicle(_ context.Context, accusedID, vehicleID uuid.UUID) ([]model.Challan, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.Challan
	for _, challan := range s.db.challans {
		if challan.AccusedID == accusedID && challan.VehicleID == vehicleID {
			out = append(out, *s.db.loadChallan(challan))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssueDateTime.Before(out[j].IssueDateTime) })
	return out, nil
}

func (s memChallans) UpdateStatus(_ context.Context, id uuid.UUID, status model.ChallanStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	challan, ok := s.db.challans[id]
	if !ok {
		return notFoundRow()
	}
	challan.Status = status
	s.db.challans[id] = challan
	return nil
}

type memFirs struct{ db *memDB }

func (s memFirs) Create(_ context.Context, fir *model.Fir) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.numberCollisions > 0 {
		s.db.numberCollisions--
		return fmt.Errorf("%w (uniq_firs_fir_no)", repository.ErrNumberTaken)
	}
	for _, existing := range s.db.firs {
		if existing.ChallanID == fir.ChallanID {
			return fmt.Errorf("%w (uniq_firs_challan_id)", repository.ErrLinkTaken)
		}
		if existing.FirNo == fir.FirNo {
			return fmt.Errorf("%w (uniq_firs_fir_no)", repository.ErrNumberTaken)
		}
	}
	if fir.ID == uuid.Nil {
		fir.ID = uuid.New()
	}
	stored := *fir
	stored.Challan, stored.Station = nil, nil
	s.db.firs[fir.ID] = stored
	return nil
}

func (s memFirs) GetByID(_ context.Context, id uuid.UUID) (*model.Fir, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	fir, ok := s.db.firs[id]
	if !ok {
		return nil, notFoundRow()
	}
	return s.db.loadFir(fir), nil
}

// loadFir fills the relations the FIR repository preloads. Callers hold db.mu.
func (db *memDB) loadFir(fir model.Fir) *model.Fir {
	if station, ok := db.stations[fir.StationID]; ok {
		fir.Station = &station
	}
	if challan, ok := db.challans[fir.ChallanID]; ok {
		fir.Challan = db.loadChallan(challan)
	}
	return &fir
}

func (s memFirs) LinkedFirID(_ context.Context, challanID uuid.UUID) (*uuid.UUID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.staleLinks {
		return nil, nil
	}
	for _, fir := range s.db.firs {
		if fir.ChallanID == challanID {
			id := fir.ID
			return &id, nil
		}
	}
	return nil, nil
}

func (s memFirs) ListByChallanIDs(_ context.Context, challanIDs []uuid.UUID) ([]model.Fir, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.Fir
	for _, fir := range s.db.firs {
		for _, id := range challanIDs {
			if fir.ChallanID == id {
				out = append(out, fir)
			}
		}
	}
	return out, nil
}

func (s memFirs) UpdateInvestigation(_ context.Context, id uuid.UUID, status model.FirStatus, report string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	fir, ok := s.db.firs[id]
	if !ok {
		return notFoundRow()
	}
	fir.Status = status
	fir.InvestigationReport = report
	s.db.firs[id] = fir
	return nil
}

func (s memFirs) UpdateStatus(_ context.Context, id uuid.UUID, status model.FirStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	fir, ok := s.db.firs[id]
	if !ok {
		return notFoundRow()
	}
	fir.Status = status
	s.db.firs[id] = fir
	return nil
}

type memCases struct{ db *memDB }

func (s memCases) Create(_ context.Context, courtCase *model.Case) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.numberCollisions > 0 {
		s.db.numberCollisions--
		return fmt.Errorf("%w (uniq_cases_case_no)", repository.ErrNumberTaken)
	}
	for _, existing := range s.db.cases {
		if existing.FirID == courtCase.FirID {
			return fmt.Errorf("%w (uniq_cases_fir_id)", repository.ErrLinkTaken)
		}
		if existing.CaseNo == courtCase.CaseNo {
			return fmt.Errorf("%w (uniq_cases_case_no)", repository.ErrNumberTaken)
		}
	}
	if courtCase.ID == uuid.Nil {
		courtCase.ID = uuid.New()
	}
	stored := *courtCase
	stored.Fir, stored.Court, stored.Statements = nil, nil, nil
	s.db.cases[courtCase.ID] = stored
	return nil
}

func (s memCases) GetByID(_ context.Context, id uuid.UUID) (*model.Case, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	courtCase, ok := s.db.cases[id]
	if !ok {
		return nil, notFoundRow()
	}
	if court, ok := s.db.courts[courtCase.CourtID]; ok {
		courtCase.Court = &court
	}
	if fir, ok := s.db.firs[courtCase.FirID]; ok {
		courtCase.Fir = s.db.loadFir(fir)
	}
	for _, statement := range s.db.statements {
		if statement.CaseID == id {
			courtCase.Statements = append(courtCase.Statements, statement)
		}
	}
	return &courtCase, nil
}

func (s memCases) LinkedCaseID(_ context.Context, firID uuid.UUID) (*uuid.UUID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.staleLinks {
		return nil, nil
	}
	for _, courtCase := range s.db.cases {
		if courtCase.FirID == firID {
			id := courtCase.ID
			return &id, nil
		}
	}
	return nil, nil
}

func (s memCases) ListByFirIDs(_ context.Context, firIDs []uuid.UUID) ([]model.Case, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.Case
	for _, courtCase := range s.db.cases {
		for _, id := range firIDs {
			if courtCase.FirID == id {
				out = append(out, courtCase)
			}
		}
	}
	return out, nil
}

func (s memCases) RecordVerdict(_ context.Context, id uuid.UUID, verdict string, status model.CaseStatus, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	courtCase, ok := s.db.cases[id]
	if !ok {
		return notFoundRow()
	}
	courtCase.Verdict = &verdict
	courtCase.VerdictDate = &at
	courtCase.CaseStatus = status
	s.db.cases[id] = courtCase
	return nil
}

func (s memCases) Reschedule(_ context.Context, id uuid.UUID, hearingDate time.Time, status model.CaseStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	courtCase, ok := s.db.cases[id]
	if !ok {
		return notFoundRow()
	}
	courtCase.HearingDate = hearingDate
	courtCase.CaseStatus = status
	s.db.cases[id] = courtCase
	return nil
}

func (s memCases) AddStatement(_ context.Context, statement *model.CaseStatement) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if statement.ID == uuid.Nil {
		statement.ID = uuid.New()
	}
	s.db.statements = append(s.db.statements, *statement)
	return nil
}

// memSequences mirrors the counter-row upsert: one atomic read-increment-write per call.
// When hold is set, every allocation waits there with its number in hand until all
// participants have one.
type memSequences struct {
	db   *memDB
	hold *startLine
}

func (s memSequences) Next(_ context.Context, scope model.DocumentScope) (int, error) {
	s.db.mu.Lock()
	s.db.counters[scope]++
	next := s.db.counters[scope]
	s.db.mu.Unlock()
	if s.hold != nil {
		s.hold.arrive()
	}
	return next, nil
}

// maxScanSequences allocates by reading the highest stored FIR sequence and adding one,
// with the read and the later insert in separate steps.
type maxScanSequences struct {
	db   *memDB
	hold *startLine
}

func (s maxScanSequences) Next(_ context.Context, scope model.DocumentScope) (int, error) {
	prefix := numbering.ScopePrefix(string(scope.Kind), scope.Code, scope.Year)
	s.db.mu.Lock()
	highest := 0
	for _, fir := range s.db.firs {
		if strings.HasPrefix(fir.FirNo, prefix) && fir.Sequence > highest {
			highest = fir.Sequence
		}
	}
	s.db.mu.Unlock()
	if s.hold != nil {
		s.hold.arrive()
	}
	return highest + 1, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, notification model.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notification)
	return nil
}

func (n *recordingNotifier) last() (model.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return model.Notification{}, false
	}
	return n.sent[len(n.sent)-1], true
}

func (n *recordingNotifier) kinds() []model.NotificationKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.NotificationKind, 0, len(n.sent))
	for _, sent := range n.sent {
		out = append(out, sent.Kind)
	}
	return out
}

type memEvidence struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemEvidence() *memEvidence {
	return &memEvidence{objects: map[string][]byte{}, types: map[string]string{}}
}

func (e *memEvidence) Put(_ context.Context, data []byte, contentType string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return "", e.err
	}
	ref := evidence.Ref(data)
	e.objects[ref] = append([]byte(nil), data...)
	e.types[ref] = contentType
	return ref, nil
}

func (e *memEvidence) Get(_ context.Context, ref string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	data, ok := e.objects[ref]
	if !ok {
		return nil, fmt.Errorf("evidence %s not found", ref)
	}
	return append([]byte(nil), data...), nil
}

// memPublicStore ignores TTLs except for grants, which the service checks itself.
type memPublicStore struct {
	mu       sync.Mutex
	otps     map[string]model.OTPRecord
	attempts map[string]int
	grants   map[string]model.AccessGrant

	// beforeIncrement runs once, ahead of the next IncrementAttempts.
	beforeIncrement func()
}

func newMemPublicStore() *memPublicStore {
	return &memPublicStore{
		otps:     map[string]model.OTPRecord{},
		attempts: map[string]int{},
		grants:   map[string]model.AccessGrant{},
	}
}

func (s *memPublicStore) SaveOTP(_ context.Context, key string, record model.OTPRecord, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[key] = record
	delete(s.attempts, key)
	return nil
}

func (s *memPublicStore) GetOTP(_ context.Context, key string) (*model.OTPRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.otps[key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *memPublicStore) IncrementAttempts(_ context.Context, key string, _ time.Duration) (int, error) {
	s.mu.Lock()
	hook := s.beforeIncrement
	s.beforeIncrement = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[key]++
	return s.attempts[key], nil
}

func (s *memPublicStore) DeleteOTP(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.otps, key)
	delete(s.attempts, key)
	return nil
}

func (s *memPublicStore) SaveGrant(_ context.Context, tokenHash string, grant model.AccessGrant, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[tokenHash] = grant
	return nil
}

func (s *memPublicStore) GetGrant(_ context.Context, tokenHash string) (*model.AccessGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grant, ok := s.grants[tokenHash]
	if !ok {
		return nil, nil
	}
	return &grant, nil
}

type stubIssuer struct {
	issued []model.Principal
}

func (i *stubIssuer) Issue(principal model.Principal) (string, time.Time, error) {
	i.issued = append(i.issued, principal)
	return "token-" + principal.UserID.String(), time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}
