package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN
			CREATE TYPE user_role AS ENUM ('admin', 'GPS', 'license', 'viewer', 'user');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(64),
		chassis_number VARCHAR(64) NOT NULL UNIQUE,
		vehicle_type VARCHAR(128),
		vehicle_equipment VARCHAR(128),
		plate_number_malaky VARCHAR(32) UNIQUE,
		plate_number_gesh VARCHAR(32) UNIQUE,
		plate_number_mokhabrat VARCHAR(32) UNIQUE,
		engine_number VARCHAR(64),
		color VARCHAR(32),
		gps_device_number VARCHAR(64),
		line_number VARCHAR(64),
		sector VARCHAR(128),
		administration VARCHAR(128),
		model_year INTEGER,
		fuel_type VARCHAR(32),
		responsible_person VARCHAR(128),
		supply_source VARCHAR(128),
		insurance_status VARCHAR(64),
		notes TEXT DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_vehicle_type ON vehicles (vehicle_type);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_vehicle_equipment ON vehicles (vehicle_equipment);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_sector ON vehicles (sector);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_administration ON vehicles (administration);`,
	`CREATE TABLE IF NOT EXISTS licenses (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		serial_number INTEGER,
		plate_number VARCHAR(32) NOT NULL,
		license_type VARCHAR(64) NOT NULL,
		vehicle_type VARCHAR(128),
		chassis_number VARCHAR(64) NOT NULL,
		license_start_date DATE,
		license_end_date DATE,
		recipient VARCHAR(128),
		notes TEXT,
		violations TEXT,
		vehicle_id UUID UNIQUE REFERENCES vehicles(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_licenses_plate_number ON licenses (plate_number);`,
	`CREATE INDEX IF NOT EXISTS idx_licenses_license_end_date ON licenses (license_end_date);`,
	`CREATE TABLE IF NOT EXISTS military_licenses (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		chassis_number VARCHAR(64) UNIQUE,
		plate_number_gesh VARCHAR(32) UNIQUE,
		vehicle_type VARCHAR(128),
		vehicle_equipment VARCHAR(128),
		allocation VARCHAR(128),
		load_capacity VARCHAR(64),
		management_method VARCHAR(128),
		estimated_financial_value DOUBLE PRECISION,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		vehicle_id UUID UNIQUE REFERENCES vehicles(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		username VARCHAR(50) NOT NULL UNIQUE,
		password VARCHAR(128) NOT NULL,
		role user_role NOT NULL DEFAULT 'user',
		password_changed_at TIMESTAMPTZ,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE OR REPLACE FUNCTION set_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_vehicles_updated_at') THEN
			CREATE TRIGGER trg_vehicles_updated_at
				BEFORE UPDATE ON vehicles
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_licenses_updated_at') THEN
			CREATE TRIGGER trg_licenses_updated_at
				BEFORE UPDATE ON licenses
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_military_licenses_updated_at') THEN
			CREATE TRIGGER trg_military_licenses_updated_at
				BEFORE UPDATE ON military_licenses
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_users_updated_at') THEN
			CREATE TRIGGER trg_users_updated_at
				BEFORE UPDATE ON users
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
