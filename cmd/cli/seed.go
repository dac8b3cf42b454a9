package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fleetcart/catalog-service/internal/database"
	"github.com/fleetcart/catalog-service/internal/ingestion"
	"github.com/fleetcart/catalog-service/internal/types"
	"github.com/spf13/cobra"
)

// seedSheet is a small sample catalog covering two model years, three
// makes, and both incentive tiers, enough to exercise every narrowing
// level locally.
const seedSheet = `Spec Number,Year,Make,Model,Trim,Body Type,Drive Type,MSRP,Factory Dealer Invoice,Dealer Net,Level 3 Incentive,Level 4 Incentive
F150-XL-001,2026,Ford,F-150,XL,Pickup,4x2,38900,36550,35200,1500,2250
F150-XLT-002,2026,Ford,F-150,XLT,Pickup,4x4,45300,42600,41100,1500,2250
F150-LAR-003,2026,Ford,F-150,Lariat,Pickup,4x4,58200,54700,52800,1750,2500
TRAN-250-004,2026,Ford,Transit 250,Base,Cargo Van,RWD,48750,46100,44800,,
TRAN-350-005,2026,Ford,Transit 350,Base,Cargo Van,RWD,52300,49400,48000,1000,1500
SILV-WT-006,2026,Chevrolet,Silverado 1500,WT,Pickup,4x2,37600,35400,34150,1200,1800
SILV-LT-007,2026,Chevrolet,Silverado 1500,LT,Pickup,4x4,48900,45900,44300,1200,1800
EXPR-250-008,2026,Chevrolet,Express 2500,Base,Cargo Van,RWD,43400,41000,39700,900,1400
RAM-TRD-009,2026,Ram,1500,Tradesman,Pickup,4x2,39800,37400,36100,1600,2300
RAM-BIG-010,2026,Ram,1500,Big Horn,Pickup,4x4,47200,44400,42800,1600,2300
F150-XL-011,2025,Ford,F-150,XL,Pickup,4x2,37400,35200,33900,2000,2800
SILV-WT-012,2025,Chevrolet,Silverado 1500,WT,Pickup,4x2,36200,34100,32900,2000,2600
`

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a small sample catalog for local development",
	Long: `Load a built-in sample pricing sheet into the catalog database. The
sample covers two model years, three makes, pickups and cargo vans, and both
fleet incentive tiers. Seeding goes through the normal ingestion path, so
running it twice updates the same vehicles in place.`,
	Example: `  catalog-service seed`,
	Args:    cobra.NoArgs,
	RunE:    runSeedCmd,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeedCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "catalog-seed-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(dir)

	sheetPath := filepath.Join(dir, "sample_catalog.csv")
	if err := os.WriteFile(sheetPath, []byte(seedSheet), 0o644); err != nil {
		return fmt.Errorf("failed to write sample sheet: %w", err)
	}

	logger.Info().Msg("Seeding sample catalog")

	result, err := ingestion.New(database.Pool(), 1).Run(ctx, types.SourceCLI, []string{sheetPath})
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	displayRunResult(result)

	if result.Status == types.StatusFailed {
		return fmt.Errorf("seed run %d failed", result.RunID)
	}
	return nil
}
