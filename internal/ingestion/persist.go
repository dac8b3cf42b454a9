package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fleetcart/catalog-service/internal/types"
)

// persistRow upserts one pricing row: governance rows, the vehicle with
// its spec-number identification, base pricing, and per-tier incentive
// amounts. Everything for a row happens in one transaction
func (ing *Ingestor) persistRow(ctx context.Context, row types.PricingRow) error {
	row.Make = NormalizeName(row.Make)
	row.Model = NormalizeName(row.Model)
	row.Trim = NormalizeName(row.Trim)
	row.SpecNumber = NormalizeSpecNumber(row.SpecNumber)

	tx, err := ing.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	yearID, err := upsertLookup(ctx, tx,
		`INSERT INTO model_years (year) VALUES ($1)
		 ON CONFLICT (year) DO UPDATE SET year = EXCLUDED.year
		 RETURNING id`, row.Year)
	if err != nil {
		return fmt.Errorf("failed to upsert model year: %w", err)
	}

	makeID, err := upsertLookup(ctx, tx,
		`INSERT INTO makes (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`, row.Make)
	if err != nil {
		return fmt.Errorf("failed to upsert make: %w", err)
	}

	modelID, err := upsertLookup(ctx, tx,
		`INSERT INTO models (make_id, name) VALUES ($1, $2)
		 ON CONFLICT (make_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`, makeID, row.Model)
	if err != nil {
		return fmt.Errorf("failed to upsert model: %w", err)
	}

	trimID, err := upsertLookup(ctx, tx,
		`INSERT INTO trims (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`, row.Trim)
	if err != nil {
		return fmt.Errorf("failed to upsert trim: %w", err)
	}

	bodyTypeID, err := upsertNamedOrDefault(ctx, tx, "body_types", row.BodyType)
	if err != nil {
		return fmt.Errorf("failed to upsert body type: %w", err)
	}
	driveTypeID, err := upsertNamedOrDefault(ctx, tx, "drive_types", row.DriveType)
	if err != nil {
		return fmt.Errorf("failed to upsert drive type: %w", err)
	}

	vehicleID, err := ing.upsertVehicle(ctx, tx, row.SpecNumber, yearID, makeID, modelID, trimID, bodyTypeID, driveTypeID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO vehicle_pricing (vehicle_id, intro_msrp, factory_dealer_invoice, dealer_net)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (vehicle_id) DO UPDATE SET
			intro_msrp = EXCLUDED.intro_msrp,
			factory_dealer_invoice = EXCLUDED.factory_dealer_invoice,
			dealer_net = EXCLUDED.dealer_net
	`, vehicleID, row.MSRP, row.FactoryInvoice, row.DealerNet)
	if err != nil {
		return fmt.Errorf("failed to upsert pricing: %w", err)
	}

	if err := ing.upsertIncentive(ctx, tx, vehicleID, 3, row.Level3Incentive); err != nil {
		return err
	}
	if err := ing.upsertIncentive(ctx, tx, vehicleID, 4, row.Level4Incentive); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// upsertLookup runs an insert-returning-id statement
func upsertLookup(ctx context.Context, tx pgx.Tx, query string, args ...interface{}) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, query, args...).Scan(&id)
	return id, err
}

// upsertNamedOrDefault upserts a named governance row, falling back to
// 'Unknown' when the sheet omits the column
func upsertNamedOrDefault(ctx context.Context, tx pgx.Tx, table string, name *string) (int64, error) {
	value := "Unknown"
	if name != nil {
		value = NormalizeName(*name)
	}
	// table is a compile-time constant at every call site
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, table)
	return upsertLookup(ctx, tx, query, value)
}

// upsertVehicle finds a vehicle by its spec-number identification or
// creates it along with the identification row
func (ing *Ingestor) upsertVehicle(ctx context.Context, tx pgx.Tx, specNumber string, yearID, makeID, modelID, trimID, bodyTypeID, driveTypeID int64) (int64, error) {
	var vehicleID int64
	err := tx.QueryRow(ctx, `
		SELECT vehicle_id FROM vehicle_identifications
		WHERE type = 'spec_number' AND value = $1
	`, specNumber).Scan(&vehicleID)

	if err == nil {
		// Existing vehicle: refresh its governance keys
		_, err = tx.Exec(ctx, `
			UPDATE vehicles
			SET model_year_id = $1, make_id = $2, model_id = $3,
			    trim_id = $4, body_type_id = $5, drive_type_id = $6,
			    updated_at = $7
			WHERE id = $8
		`, yearID, makeID, modelID, trimID, bodyTypeID, driveTypeID, time.Now(), vehicleID)
		if err != nil {
			return 0, fmt.Errorf("failed to update vehicle: %w", err)
		}
		return vehicleID, nil
	}
	if err != pgx.ErrNoRows {
		return 0, fmt.Errorf("failed to look up vehicle: %w", err)
	}

	now := time.Now()
	err = tx.QueryRow(ctx, `
		INSERT INTO vehicles (model_year_id, make_id, model_id, trim_id, body_type_id, drive_type_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`, yearID, makeID, modelID, trimID, bodyTypeID, driveTypeID, now).Scan(&vehicleID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert vehicle: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO vehicle_identifications (vehicle_id, type, value, is_primary, created_at)
		VALUES ($1, 'spec_number', $2, true, $3)
	`, vehicleID, specNumber, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert identification: %w", err)
	}

	return vehicleID, nil
}

// upsertIncentive attaches the level's standing fleet program amount to
// the vehicle. A nil amount removes any current-window incentive so a
// sheet without the column clears stale amounts
func (ing *Ingestor) upsertIncentive(ctx context.Context, tx pgx.Tx, vehicleID int64, level int, amount *int64) error {
	programID, err := upsertLookup(ctx, tx, `
		INSERT INTO incentive_programs (name, level, is_active)
		VALUES ($1, $2, true)
		ON CONFLICT (name) DO UPDATE SET is_active = true
		RETURNING id
	`, fmt.Sprintf("Fleet Level %d", level), level)
	if err != nil {
		return fmt.Errorf("failed to upsert incentive program: %w", err)
	}

	if amount == nil {
		_, err = tx.Exec(ctx, `
			DELETE FROM vehicle_incentives
			WHERE vehicle_id = $1 AND incentive_program_id = $2
		`, vehicleID, programID)
		if err != nil {
			return fmt.Errorf("failed to clear incentive: %w", err)
		}
		return nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO vehicle_incentives (vehicle_id, incentive_program_id, incentive_amount, effective_date)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (vehicle_id, incentive_program_id) DO UPDATE SET
			incentive_amount = EXCLUDED.incentive_amount,
			effective_date = EXCLUDED.effective_date,
			expiration_date = NULL
	`, vehicleID, programID, *amount)
	if err != nil {
		return fmt.Errorf("failed to upsert incentive: %w", err)
	}
	return nil
}
