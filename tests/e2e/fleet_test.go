package e2e

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fleetcart/catalog-service/internal/appstate"
	"github.com/fleetcart/catalog-service/internal/cart"
	"github.com/fleetcart/catalog-service/internal/catalog"
	"github.com/fleetcart/catalog-service/internal/database"
	"github.com/fleetcart/catalog-service/internal/filter"
	"github.com/fleetcart/catalog-service/internal/ingestion"
	"github.com/fleetcart/catalog-service/internal/orders"
	"github.com/fleetcart/catalog-service/internal/pricing"
	"github.com/fleetcart/catalog-service/internal/storage"
	"github.com/fleetcart/catalog-service/internal/types"
)

const fleetSheetCSV = `Spec Number,Year,Make,Model,Trim,Body Type,Drive Type,MSRP,Factory Dealer Invoice,Dealer Net,Level 3 Incentive,Level 4 Incentive
F150-XL-001,2026,Ford,F-150,XL,Pickup,4x2,38900,36550,35200,1500,2250
F150-XLT-002,2026,Ford,F-150,XLT,Pickup,4x4,45300,42600,41100,1500,2250
TRAN-250-003,2026,Ford,Transit 250,Base,Cargo Van,RWD,48750,46100,44800,,
SILV-WT-004,2026,Chevrolet,Silverado 1500,WT,Pickup,4x2,37600,35400,34150,1200,1800
`

// TestFleetPurchaseFlow runs the full path a fleet buyer takes:
// a dealer sheet is ingested, the catalog is narrowed year by year,
// vehicles are searched, quoted in a cart, and submitted as a
// purchase order that then moves through its status lifecycle.
func TestFleetPurchaseFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := setupTestDatabase(ctx)
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Connect(ctx, connStr, 10, 2, 0, 0))
	defer database.Close()
	setupTestSchema(ctx, t)

	pool := database.Pool()
	cat := catalog.New(pool)
	ord := orders.New(pool)

	t.Run("IngestSheet", func(t *testing.T) {
		dir := t.TempDir()
		sheetPath := filepath.Join(dir, "fleet_pricing_2026.csv")
		require.NoError(t, os.WriteFile(sheetPath, []byte(fleetSheetCSV), 0o644))

		result, err := ingestion.New(pool, 2).Run(ctx, types.SourceCLI, []string{sheetPath})
		require.NoError(t, err)
		assert.Equal(t, types.StatusCompleted, result.Status)
		assert.Equal(t, 4, result.ProcessedRows)
		assert.Equal(t, 0, result.ErrorCount)
	})

	var (
		f150XL catalog.VehicleResult
		yearID int64
	)

	t.Run("NarrowCatalog", func(t *testing.T) {
		years, err := cat.FetchYears(ctx)
		require.NoError(t, err)
		require.Len(t, years, 1)
		assert.Equal(t, 2026, years[0].Year)
		yearID = years[0].YearID

		makes, err := cat.FetchMakes(ctx, years[0].YearID)
		require.NoError(t, err)
		require.Len(t, makes, 2)

		var ford catalog.MakeOption
		for _, m := range makes {
			if m.MakeName == "Ford" {
				ford = m
			}
		}
		require.NotZero(t, ford.MakeID)
		assert.Equal(t, 3, ford.VehicleCount)

		models, err := cat.FetchModels(ctx, years[0].YearID, ford.MakeID)
		require.NoError(t, err)
		require.Len(t, models, 2)

		sel := filter.Apply(filter.Reset(), filter.KeyYear, &years[0].YearID)
		sel = filter.Apply(sel, filter.KeyMake, &ford.MakeID)
		page, err := cat.SearchVehicles(ctx, sel)
		require.NoError(t, err)
		assert.Equal(t, 3, page.TotalCount)

		for _, v := range page.Items {
			if v.PrimaryIdentification == "F150-XL-001" {
				f150XL = v
			}
		}
		require.NotZero(t, f150XL.VehicleID)
		assert.Equal(t, int64(38900), f150XL.MSRP)
		assert.Equal(t, int64(1500), f150XL.Incentives.Level3)
		assert.Equal(t, int64(2250), f150XL.Incentives.Level4)
	})

	var orderID string

	t.Run("QuoteAndSubmitOrder", func(t *testing.T) {
		c := cart.New()
		c, err := c.Add(f150XL.VehicleSummary, pricing.Level4, f150XL.Incentives, 3)
		require.NoError(t, err)

		// dealer net 35200 minus the tier 4 incentive, times 3 units
		assert.Equal(t, int64(3*(35200-2250)), c.TotalEffectiveValue)
		assert.Equal(t, int64(3*2250), c.TotalSavings)

		order, err := ord.Submit(ctx, orders.SubmitRequest{
			CompanyName:  "Acme Logistics",
			ContactEmail: "fleet@acme.test",
		}, c)
		require.NoError(t, err)
		orderID = order.ID

		assert.Contains(t, orderID, "po_")
		assert.Equal(t, database.OrderStatusSubmitted, order.Status)
		require.Len(t, order.Items, 1)
		assert.Equal(t, 4, order.Items[0].PriceLevel)
		assert.Equal(t, int64(35200-2250), order.Items[0].UnitPrice)
	})

	t.Run("OrderLifecycle", func(t *testing.T) {
		order, err := ord.UpdateStatus(ctx, orderID, database.OrderStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, database.OrderStatusApproved, order.Status)

		order, err = ord.UpdateStatus(ctx, orderID, database.OrderStatusFulfilled)
		require.NoError(t, err)
		assert.Equal(t, database.OrderStatusFulfilled, order.Status)

		// fulfilled is terminal
		_, err = ord.UpdateStatus(ctx, orderID, database.OrderStatusCancelled)
		assert.ErrorIs(t, err, orders.ErrInvalidTransition)

		// the submitted order keeps its quoted snapshot
		fetched, err := ord.Get(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, int64(3*(35200-2250)), fetched.TotalEffectiveValue)
	})

	t.Run("SessionStateSurvivesRestart", func(t *testing.T) {
		persister := appstate.NewPGPersister(pool)

		store := appstate.NewStore(persister)
		require.NoError(t, store.AddToCart(f150XL.VehicleSummary, pricing.Level3, f150XL.Incentives, 2))
		store.SetViewMode(appstate.ViewModeList)
		store.SaveFilter("ford-2026", filter.Selection{YearID: &yearID})
		require.NoError(t, store.Persist(ctx))

		restored := appstate.NewStore(persister)
		require.NoError(t, restored.Restore(ctx))
		assert.Equal(t, 2, restored.Cart().Items[0].Quantity)
		assert.Equal(t, appstate.ViewModeList, restored.ViewMode())
		assert.NotNil(t, restored.LoadFilter("ford-2026"))
	})

	t.Run("SheetArchiving", func(t *testing.T) {
		store, err := storage.NewLocalStorage(filepath.Join(t.TempDir(), "sheets"))
		require.NoError(t, err)

		key := storage.BuildSheetKey(string(types.SourceAPI), time.Now(), "fleet_pricing_2026.csv")
		require.NoError(t, store.Put(ctx, key, []byte(fleetSheetCSV), &storage.Metadata{
			OriginalName: "fleet_pricing_2026.csv",
			Source:       string(types.SourceAPI),
			UploadedAt:   time.Now(),
		}))

		content, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte(fleetSheetCSV), content)

		info, err := store.GetInfo(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(len(fleetSheetCSV)), info.Size)
	})
}

func setupTestDatabase(ctx context.Context) (*postgres.PostgresContainer, error) {
	return postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("fleet_catalog_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort("5432/tcp").
					WithStartupTimeout(60*time.Second),
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(1).
					WithStartupTimeout(60*time.Second),
			),
		),
	)
}

func setupTestSchema(ctx context.Context, t *testing.T) {
	pool := database.Pool()

	schema := `
		CREATE TABLE IF NOT EXISTS model_years (
			id BIGSERIAL PRIMARY KEY,
			year INT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS makes (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS models (
			id BIGSERIAL PRIMARY KEY,
			make_id BIGINT NOT NULL REFERENCES makes(id),
			name TEXT NOT NULL,
			UNIQUE (make_id, name)
		);

		CREATE TABLE IF NOT EXISTS trims (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS body_types (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS drive_types (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS vehicles (
			id BIGSERIAL PRIMARY KEY,
			model_year_id BIGINT NOT NULL REFERENCES model_years(id),
			make_id BIGINT NOT NULL REFERENCES makes(id),
			model_id BIGINT NOT NULL REFERENCES models(id),
			trim_id BIGINT NOT NULL REFERENCES trims(id),
			body_type_id BIGINT NOT NULL REFERENCES body_types(id),
			drive_type_id BIGINT NOT NULL REFERENCES drive_types(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS vehicle_identifications (
			id BIGSERIAL PRIMARY KEY,
			vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
			type TEXT NOT NULL,
			value TEXT NOT NULL,
			is_primary BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (type, value)
		);

		CREATE TABLE IF NOT EXISTS vehicle_pricing (
			vehicle_id BIGINT PRIMARY KEY REFERENCES vehicles(id),
			intro_msrp BIGINT NOT NULL,
			factory_dealer_invoice BIGINT NOT NULL,
			dealer_net BIGINT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS incentive_programs (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			level INT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true
		);

		CREATE TABLE IF NOT EXISTS vehicle_incentives (
			vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
			incentive_program_id BIGINT NOT NULL REFERENCES incentive_programs(id),
			incentive_amount BIGINT NOT NULL,
			effective_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expiration_date TIMESTAMPTZ,
			PRIMARY KEY (vehicle_id, incentive_program_id)
		);

		CREATE TABLE IF NOT EXISTS ingestion_runs (
			id BIGSERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ,
			total_files INT,
			processed_files INT,
			total_rows INT,
			processed_rows INT,
			error_count INT,
			metadata TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS ingestion_errors (
			id BIGSERIAL PRIMARY KEY,
			run_id BIGINT NOT NULL REFERENCES ingestion_runs(id),
			filename TEXT NOT NULL,
			row_number INT,
			error_type TEXT NOT NULL,
			error_message TEXT NOT NULL,
			severity TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS purchase_orders (
			id TEXT PRIMARY KEY,
			company_name TEXT NOT NULL,
			contact_email TEXT NOT NULL,
			contact_phone TEXT,
			status TEXT NOT NULL,
			total_value BIGINT NOT NULL,
			total_savings BIGINT NOT NULL,
			total_effective_value BIGINT NOT NULL,
			requested_delivery_date TIMESTAMPTZ,
			special_instructions TEXT,
			payment_terms TEXT,
			submitted_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			data BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS purchase_order_items (
			id BIGSERIAL PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES purchase_orders(id),
			vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
			quantity INT NOT NULL,
			price_level INT NOT NULL,
			unit_price BIGINT NOT NULL,
			total_price BIGINT NOT NULL,
			savings BIGINT NOT NULL,
			msrp BIGINT NOT NULL,
			dealer_net BIGINT NOT NULL
		);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}
}
