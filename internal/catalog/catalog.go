// Package catalog serves the vehicle catalog from Postgres: the
// year/make/model/trim option hierarchy with real vehicle counts, and
// filtered vehicle search with pricing and current incentive amounts.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fleetcart/catalog-service/internal/filter"
	"github.com/fleetcart/catalog-service/internal/pricing"
)

// Catalog answers option and search queries against the fleet schema.
type Catalog struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// New wraps the given pool.
func New(pool *pgxpool.Pool) *Catalog {
	return &Catalog{
		pool:   pool,
		logger: log.With().Str("component", "catalog").Logger(),
	}
}

// currentIncentives aggregates today-effective incentive amounts per
// vehicle and tier. A vehicle carries at most one amount per tier;
// MAX collapses accidental duplicates instead of stacking them.
const currentIncentives = `
	SELECT vi.vehicle_id,
	       COALESCE(MAX(vi.incentive_amount) FILTER (WHERE ip.level = 3), 0) AS level3,
	       COALESCE(MAX(vi.incentive_amount) FILTER (WHERE ip.level = 4), 0) AS level4
	FROM vehicle_incentives vi
	JOIN incentive_programs ip ON ip.id = vi.incentive_program_id
	WHERE ip.is_active
	  AND vi.effective_date <= NOW()
	  AND (vi.expiration_date IS NULL OR vi.expiration_date > NOW())
	GROUP BY vi.vehicle_id
`

// FetchYears returns all model years, newest first, with per-year
// vehicle counts.
func (c *Catalog) FetchYears(ctx context.Context) ([]YearOption, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT my.id, my.year, COUNT(v.id)
		FROM model_years my
		LEFT JOIN vehicles v ON v.model_year_id = my.id
		GROUP BY my.id, my.year
		ORDER BY my.year DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch years: %w", err)
	}
	defer rows.Close()

	years := []YearOption{}
	for rows.Next() {
		var y YearOption
		if err := rows.Scan(&y.YearID, &y.Year, &y.VehicleCount); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// FetchMakes returns the makes that have vehicles in the given model
// year, with counts scoped to that year.
func (c *Catalog) FetchMakes(ctx context.Context, yearID int64) ([]MakeOption, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT m.id, m.name, COUNT(v.id)
		FROM makes m
		JOIN vehicles v ON v.make_id = m.id AND v.model_year_id = $1
		GROUP BY m.id, m.name
		ORDER BY m.name
	`, yearID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch makes: %w", err)
	}
	defer rows.Close()

	makes := []MakeOption{}
	for rows.Next() {
		var m MakeOption
		if err := rows.Scan(&m.MakeID, &m.MakeName, &m.VehicleCount); err != nil {
			return nil, fmt.Errorf("failed to scan make: %w", err)
		}
		makes = append(makes, m)
	}
	return makes, rows.Err()
}

// FetchModels returns the models available for a year and make, with
// counts and MSRP ranges aggregated from actual pricing rows. One row
// per model: a model whose vehicles span body types still collapses
// to a single option, with the first body type name alphabetically.
func (c *Catalog) FetchModels(ctx context.Context, yearID, makeID int64) ([]ModelOption, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT mo.id,
		       mo.name,
		       MIN(COALESCE(bt.name, 'Unknown')),
		       COUNT(v.id),
		       COALESCE(MIN(vp.intro_msrp), 0),
		       COALESCE(MAX(vp.intro_msrp), 0)
		FROM models mo
		JOIN vehicles v ON v.model_id = mo.id
			AND v.model_year_id = $1 AND v.make_id = $2
		LEFT JOIN body_types bt ON bt.id = v.body_type_id
		LEFT JOIN vehicle_pricing vp ON vp.vehicle_id = v.id
		GROUP BY mo.id, mo.name
		ORDER BY mo.name
	`, yearID, makeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch models: %w", err)
	}
	defer rows.Close()

	models := []ModelOption{}
	for rows.Next() {
		var m ModelOption
		if err := rows.Scan(&m.ModelID, &m.ModelName, &m.BodyType, &m.VehicleCount, &m.MinPrice, &m.MaxPrice); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

// FetchTrims returns the trims available for a year, make, and model.
func (c *Catalog) FetchTrims(ctx context.Context, yearID, makeID, modelID int64) ([]TrimOption, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT t.id,
		       t.name,
		       COALESCE(dt.id, 0),
		       COALESCE(dt.name, ''),
		       COUNT(v.id)
		FROM trims t
		JOIN vehicles v ON v.trim_id = t.id
			AND v.model_year_id = $1 AND v.make_id = $2 AND v.model_id = $3
		LEFT JOIN drive_types dt ON dt.id = v.drive_type_id
		GROUP BY t.id, t.name, dt.id, dt.name
		ORDER BY t.name
	`, yearID, makeID, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trims: %w", err)
	}
	defer rows.Close()

	trims := []TrimOption{}
	for rows.Next() {
		var t TrimOption
		if err := rows.Scan(&t.TrimID, &t.TrimName, &t.DriveTypeID, &t.DriveTypeName, &t.VehicleCount); err != nil {
			return nil, fmt.Errorf("failed to scan trim: %w", err)
		}
		trims = append(trims, t)
	}
	return trims, rows.Err()
}

// SearchVehicles runs a filtered, paginated catalog search. Filter
// keys map directly to equality predicates on the vehicle's foreign
// keys; min/max price are range predicates on MSRP.
func (c *Catalog) SearchVehicles(ctx context.Context, sel filter.Selection) (*SearchPage, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	addEq := func(column string, value *int64) {
		if value != nil {
			where += " AND " + column + " = $" + strconv.Itoa(argIdx)
			args = append(args, *value)
			argIdx++
		}
	}

	addEq("v.model_year_id", sel.YearID)
	addEq("v.make_id", sel.MakeID)
	addEq("v.model_id", sel.ModelID)
	addEq("v.trim_id", sel.TrimID)
	addEq("v.body_type_id", sel.BodyTypeID)
	addEq("v.drive_type_id", sel.DriveTypeID)

	if sel.MinPrice != nil {
		where += " AND vp.intro_msrp >= $" + strconv.Itoa(argIdx)
		args = append(args, *sel.MinPrice)
		argIdx++
	}
	if sel.MaxPrice != nil {
		where += " AND vp.intro_msrp <= $" + strconv.Itoa(argIdx)
		args = append(args, *sel.MaxPrice)
		argIdx++
	}

	fromClause := `
		FROM vehicles v
		JOIN model_years my ON my.id = v.model_year_id
		JOIN makes mk ON mk.id = v.make_id
		JOIN models mo ON mo.id = v.model_id
		JOIN trims t ON t.id = v.trim_id
		JOIN body_types bt ON bt.id = v.body_type_id
		JOIN drive_types dt ON dt.id = v.drive_type_id
		LEFT JOIN vehicle_pricing vp ON vp.vehicle_id = v.id
		LEFT JOIN vehicle_identifications vid ON vid.vehicle_id = v.id AND vid.is_primary
		LEFT JOIN (` + currentIncentives + `) inc ON inc.vehicle_id = v.id
	`

	var total int
	if err := c.pool.QueryRow(ctx, "SELECT COUNT(*)"+fromClause+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count vehicles: %w", err)
	}

	page := sel.PageOrDefault()
	limit := sel.LimitOrDefault()
	offset := (page - 1) * limit

	query := `
		SELECT v.id,
		       my.year,
		       mk.name,
		       mo.name,
		       t.name,
		       bt.name,
		       dt.name,
		       COALESCE(vid.value, 'N/A'),
		       COALESCE(vp.intro_msrp, 0),
		       COALESCE(vp.factory_dealer_invoice, 0),
		       COALESCE(vp.dealer_net, 0),
		       COALESCE(inc.level3, 0),
		       COALESCE(inc.level4, 0)
	` + fromClause + where +
		" ORDER BY my.year DESC, mk.name, mo.name, t.name, v.id" +
		" LIMIT $" + strconv.Itoa(argIdx) + " OFFSET $" + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search vehicles: %w", err)
	}
	defer rows.Close()

	items := []VehicleResult{}
	for rows.Next() {
		var r VehicleResult
		err := rows.Scan(
			&r.VehicleID, &r.Year, &r.Make, &r.Model, &r.Trim,
			&r.BodyType, &r.DriveType, &r.PrimaryIdentification,
			&r.MSRP, &r.Invoice, &r.DealerNet,
			&r.Incentives.Level3, &r.Incentives.Level4,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		items = append(items, r)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating vehicles: %w", rows.Err())
	}

	totalPages := (total + limit - 1) / limit
	c.logger.Debug().Int("total", total).Int("page", page).Msg("Vehicle search")

	return &SearchPage{
		Items:      items,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// FetchVehicle loads a single vehicle summary with incentives by id.
// Returns nil (not an error) when the vehicle does not exist.
func (c *Catalog) FetchVehicle(ctx context.Context, vehicleID int64) (*VehicleResult, error) {
	row := c.pool.QueryRow(ctx, `
		SELECT v.id,
		       my.year,
		       mk.name,
		       mo.name,
		       t.name,
		       bt.name,
		       dt.name,
		       COALESCE(vid.value, 'N/A'),
		       COALESCE(vp.intro_msrp, 0),
		       COALESCE(vp.factory_dealer_invoice, 0),
		       COALESCE(vp.dealer_net, 0),
		       COALESCE(inc.level3, 0),
		       COALESCE(inc.level4, 0)
		FROM vehicles v
		JOIN model_years my ON my.id = v.model_year_id
		JOIN makes mk ON mk.id = v.make_id
		JOIN models mo ON mo.id = v.model_id
		JOIN trims t ON t.id = v.trim_id
		JOIN body_types bt ON bt.id = v.body_type_id
		JOIN drive_types dt ON dt.id = v.drive_type_id
		LEFT JOIN vehicle_pricing vp ON vp.vehicle_id = v.id
		LEFT JOIN vehicle_identifications vid ON vid.vehicle_id = v.id AND vid.is_primary
		LEFT JOIN (`+currentIncentives+`) inc ON inc.vehicle_id = v.id
		WHERE v.id = $1
	`, vehicleID)

	var r VehicleResult
	err := row.Scan(
		&r.VehicleID, &r.Year, &r.Make, &r.Model, &r.Trim,
		&r.BodyType, &r.DriveType, &r.PrimaryIdentification,
		&r.MSRP, &r.Invoice, &r.DealerNet,
		&r.Incentives.Level3, &r.Incentives.Level4,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vehicle: %w", err)
	}
	return &r, nil
}

// Pricing returns the computed breakdown for a vehicle result.
func (r VehicleResult) Pricing() pricing.Breakdown {
	return pricing.ComputeBreakdown(r.VehicleSummary, r.Incentives)
}
