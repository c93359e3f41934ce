package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/stocklens/reorder/internal/config"
	"github.com/stocklens/reorder/internal/domain"
	"github.com/stocklens/reorder/internal/repository"
	"github.com/stocklens/reorder/internal/repository/postgres"
	"github.com/stocklens/reorder/internal/repository/sqlite"
	"github.com/stocklens/reorder/internal/service"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "analyze",
		Usage: "Run the reorder-point analysis from the terminal",
		Commands: []*cli.Command{
			{
				Name:   "products",
				Usage:  "List the products available for analysis",
				Action: runProducts,
			},
			{
				Name:  "run",
				Usage: "Analyze one product and chart its stock depletion",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "product",
						Usage:    "Product id to analyze",
						Required: true,
					},
				},
				Action: runAnalysis,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newService(ctx context.Context) (*service.AnalysisService, func(), error) {
	cfg := config.Load()

	var (
		repo       repository.ProductRepository
		closeStore func()
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo = postgres.NewProductRepository(db)
		closeStore = func() { _ = db.Close() }
	default:
		db, err := sqlite.New(cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Bootstrap(ctx, cfg.Snapshot.Dir); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		repo = sqlite.NewProductRepository(db)
		closeStore = func() { _ = db.Close() }
	}

	return service.NewAnalysisService(repo), closeStore, nil
}

func runProducts(c *cli.Context) error {
	svc, closeStore, err := newService(c.Context)
	if err != nil {
		return err
	}
	defer closeStore()

	products, err := svc.ListProducts(c.Context)
	if err != nil {
		return err
	}

	for _, p := range products {
		fmt.Printf("%6d  %s\n", p.ID, p.Name)
	}
	return nil
}

func runAnalysis(c *cli.Context) error {
	svc, closeStore, err := newService(c.Context)
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := svc.Analyze(c.Context, c.Int64("product"))

	var insufficient *domain.InsufficientHistoryError
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return cli.Exit("product not found", 1)
	case errors.As(err, &insufficient):
		return cli.Exit(fmt.Sprintf("cannot analyze: %s", insufficient.Reason), 1)
	case err != nil:
		return err
	}

	printResult(result)
	return nil
}

func printResult(r *domain.OptimizationResult) {
	fmt.Printf("%s (supplier: %s)\n\n", r.ProductName, r.SupplierName)

	fmt.Printf("  Stock on hand            %d units\n", r.StockOnHand)
	fmt.Printf("  Configured safety stock  %d units\n", r.ConfiguredSafetyStock)
	fmt.Printf("  Contracted lead time     %.1f days\n", r.ContractedLeadTimeDays)
	fmt.Printf("  Actual lead time         %.1f days (deviation %.1f)\n", r.ActualLeadTimeDays, r.LeadTimeVariance)
	fmt.Println()

	fmt.Printf("  Daily demand rate        %.1f units/day\n", r.DailyDemandRate)
	fmt.Printf("  Reliability score        %.0f/100 (%s)\n", r.ReliabilityScore, r.ReliabilityTier)
	fmt.Printf("  Recommended safety stock %d units\n", r.RecommendedSafetyStock)
	fmt.Printf("  Reorder point            %.1f units\n", r.RiskAdjustedReorderPoint)
	fmt.Printf("  Inventory cost delta     %s\n", r.InventoryCostDelta.StringFixed(2))
	fmt.Println()

	if r.ReorderNow {
		fmt.Printf("  >> REORDER NOW: stock (%d) is below the reorder point (%.1f)\n", r.StockOnHand, r.RiskAdjustedReorderPoint)
	} else {
		fmt.Printf("  >> Sufficient stock: %d on hand vs reorder point %.1f\n", r.StockOnHand, r.RiskAdjustedReorderPoint)
	}
	fmt.Println()

	series := make([]float64, len(r.Projection))
	for i, point := range r.Projection {
		series[i] = point.ProjectedStock
	}

	chart := asciigraph.Plot(series,
		asciigraph.Height(12),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("30-day depletion projection (reorder point %.1f)", r.RiskAdjustedReorderPoint)),
	)
	fmt.Println(chart)
}
