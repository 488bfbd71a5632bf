package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// migrationStatements run in order on every start and must stay idempotent. The unique
// constraint names are matched by repository.translateError.
var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'challan_status') THEN
			CREATE TYPE challan_status AS ENUM ('Unpaid', 'Paid', 'Disputed');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'fir_status') THEN
			CREATE TYPE fir_status AS ENUM ('Registered', 'Under Investigation', 'Forwarded to Court', 'Closed');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'case_status') THEN
			CREATE TYPE case_status AS ENUM ('Pending', 'Hearing Scheduled', 'Adjourned', 'Convicted', 'Acquitted', 'Dismissed', 'Closed');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS roles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(32) NOT NULL,
		CONSTRAINT uniq_roles_name UNIQUE (name)
	);`,
	`INSERT INTO roles (name) VALUES
		('Admin'), ('Police Officer'), ('Station Authority'), ('Court Authority'), ('Judge')
	ON CONFLICT (name) DO NOTHING;`,
	`CREATE TABLE IF NOT EXISTS police_stations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		station_code VARCHAR(32) NOT NULL,
		district VARCHAR(128),
		city VARCHAR(128),
		province VARCHAR(128),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uniq_police_stations_station_code UNIQUE (station_code)
	);`,
	`CREATE TABLE IF NOT EXISTS courts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		court_type VARCHAR(64) NOT NULL,
		city VARCHAR(128) NOT NULL,
		province VARCHAR(128),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		username VARCHAR(64) NOT NULL,
		password_hash TEXT NOT NULL,
		full_name VARCHAR(255),
		email VARCHAR(255),
		role_id UUID NOT NULL REFERENCES roles(id),
		station_id UUID REFERENCES police_stations(id) ON DELETE SET NULL,
		court_id UUID REFERENCES courts(id) ON DELETE SET NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uniq_users_username UNIQUE (username)
	);`,
	`CREATE TABLE IF NOT EXISTS iot_devices (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		device_code VARCHAR(64) NOT NULL,
		station_id UUID REFERENCES police_stations(id) ON DELETE SET NULL,
		is_registered BOOLEAN NOT NULL DEFAULT TRUE,
		is_calibrated BOOLEAN NOT NULL DEFAULT FALSE,
		calibrated_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uniq_iot_devices_device_code UNIQUE (device_code)
	);`,
	`CREATE TABLE IF NOT EXISTS violations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		description TEXT,
		penalty_amount NUMERIC(12,2) NOT NULL CHECK (penalty_amount >= 0),
		is_cognizable BOOLEAN NOT NULL DEFAULT FALSE,
		section_of_law VARCHAR(128),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uniq_violations_name UNIQUE (name)
	);`,
	`CREATE TABLE IF NOT EXISTS accused (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		cnic VARCHAR(15) NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		city VARCHAR(128),
		province VARCHAR(128),
		address TEXT,
		contact VARCHAR(32),
		email VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uniq_accused_cnic UNIQUE (cnic)
	);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		plate_number VARCHAR(32) NOT NULL,
		make VARCHAR(64),
		model VARCHAR(64),
		color VARCHAR(32),
		vehicle_type VARCHAR(32),
		registration_year INTEGER,
		owner_id UUID REFERENCES accused(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uniq_vehicles_plate_number UNIQUE (plate_number)
	);`,
	`CREATE TABLE IF NOT EXISTS entity_change_logs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		entity_type VARCHAR(16) NOT NULL,
		entity_id UUID NOT NULL,
		changes JSONB NOT NULL,
		changed_by UUID REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_entity_change_logs_entity ON entity_change_logs (entity_type, entity_id);`,
	`CREATE TABLE IF NOT EXISTS emission_reports (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		device_id UUID NOT NULL REFERENCES iot_devices(id),
		co NUMERIC(10,2),
		co2 NUMERIC(10,2),
		hc NUMERIC(10,2),
		nox NUMERIC(10,2),
		sound_level_dba NUMERIC(6,2) NOT NULL,
		test_date_time TIMESTAMPTZ NOT NULL,
		ml_classification VARCHAR(64),
		digital_signature VARCHAR(64) NOT NULL,
		created_by UUID REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS challans (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		officer_id UUID NOT NULL REFERENCES users(id),
		accused_id UUID NOT NULL REFERENCES accused(id),
		vehicle_id UUID NOT NULL REFERENCES vehicles(id),
		violation_id UUID NOT NULL REFERENCES violations(id),
		emission_report_id UUID REFERENCES emission_reports(id),
		penalty_amount NUMERIC(12,2) NOT NULL,
		issue_date_time TIMESTAMPTZ NOT NULL,
		due_date_time TIMESTAMPTZ NOT NULL,
		status challan_status NOT NULL DEFAULT 'Unpaid',
		location TEXT,
		evidence_ref TEXT,
		digital_signature VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uniq_challans_emission_report_id UNIQUE (emission_report_id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_challans_accused_vehicle ON challans (accused_id, vehicle_id);`,
	`CREATE TABLE IF NOT EXISTS firs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		fir_no VARCHAR(64) NOT NULL,
		station_id UUID NOT NULL REFERENCES police_stations(id),
		challan_id UUID NOT NULL REFERENCES challans(id),
		filing_year INTEGER NOT NULL,
		sequence INTEGER NOT NULL CHECK (sequence > 0),
		date_filed TIMESTAMPTZ NOT NULL,
		status fir_status NOT NULL DEFAULT 'Registered',
		description TEXT,
		investigation_report TEXT,
		informant_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uniq_firs_fir_no UNIQUE (fir_no),
		CONSTRAINT uniq_firs_challan_id UNIQUE (challan_id),
		CONSTRAINT uniq_firs_station_year_sequence UNIQUE (station_id, filing_year, sequence)
	);`,
	`CREATE TABLE IF NOT EXISTS cases (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		case_no VARCHAR(64) NOT NULL,
		fir_id UUID NOT NULL REFERENCES firs(id),
		court_id UUID NOT NULL REFERENCES courts(id),
		judge_id UUID NOT NULL REFERENCES users(id),
		case_type VARCHAR(64) NOT NULL,
		case_status case_status NOT NULL DEFAULT 'Pending',
		filing_year INTEGER NOT NULL,
		sequence INTEGER NOT NULL CHECK (sequence > 0),
		hearing_date TIMESTAMPTZ NOT NULL,
		verdict TEXT,
		verdict_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uniq_cases_case_no UNIQUE (case_no),
		CONSTRAINT uniq_cases_fir_id UNIQUE (fir_id),
		CONSTRAINT uniq_cases_court_year_sequence UNIQUE (court_id, filing_year, sequence)
	);`,
	`CREATE TABLE IF NOT EXISTS case_statements (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		case_id UUID NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
		statement_by UUID NOT NULL REFERENCES users(id),
		statement_text TEXT NOT NULL,
		statement_date TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_case_statements_case_id ON case_statements (case_id, statement_date);`,
	`CREATE TABLE IF NOT EXISTS document_sequences (
		kind VARCHAR(8) NOT NULL,
		scope_code VARCHAR(64) NOT NULL,
		year INTEGER NOT NULL,
		last_value INTEGER NOT NULL CHECK (last_value > 0),
		PRIMARY KEY (kind, scope_code, year)
	);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	DECLARE
		t TEXT;
	BEGIN
		FOREACH t IN ARRAY ARRAY['accused', 'vehicles', 'firs', 'cases'] LOOP
			IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_' || t || '_updated_at') THEN
				EXECUTE format(
					'CREATE TRIGGER %I BEFORE UPDATE ON %I FOR EACH ROW EXECUTE PROCEDURE set_row_updated_at()',
					'trg_' || t || '_updated_at', t
				);
			END IF;
		END LOOP;
	END
	$$;`,
	`CREATE OR REPLACE FUNCTION reject_emission_report_update()
	RETURNS TRIGGER AS $$
	BEGIN
		RAISE EXCEPTION 'emission reports are immutable';
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_emission_reports_immutable') THEN
			CREATE TRIGGER trg_emission_reports_immutable
				BEFORE UPDATE ON emission_reports
				FOR EACH ROW
				EXECUTE PROCEDURE reject_emission_report_update();
		END IF;
	END
	$$;`,
}

// Migrate applies every statement in order.
func Migrate(ctx context.Context, database *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := database.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
