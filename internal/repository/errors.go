package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrLinkTaken means a one-to-one link column (challan->report, fir->challan,
	// case->fir) already references the target.
	ErrLinkTaken = errors.New("link already taken")
	// ErrNumberTaken means a generated document number or (scope, year, sequence)
	// collided. Callers may retry the whole creation.
	ErrNumberTaken     = errors.New("document number already taken")
	ErrNaturalKeyTaken = errors.New("natural key already taken")
	ErrDuplicate       = errors.New("duplicate record")
)

const pgUniqueViolation = "23505"

var constraintErrors = map[string]error{
	"uniq_challans_emission_report_id": ErrLinkTaken,
	"uniq_firs_challan_id":             ErrLinkTaken,
	"uniq_cases_fir_id":                ErrLinkTaken,
	"uniq_firs_fir_no":                 ErrNumberTaken,
	"uniq_firs_station_year_sequence":  ErrNumberTaken,
	"uniq_cases_case_no":               ErrNumberTaken,
	"uniq_cases_court_year_sequence":   ErrNumberTaken,
	"uniq_accused_cnic":                ErrNaturalKeyTaken,
	"uniq_vehicles_plate_number":       ErrNaturalKeyTaken,
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return fmt.Errorf("%w (%s)", mapped, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w (%s)", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
