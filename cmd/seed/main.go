package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/stocklens/reorder/internal/config"
	"github.com/stocklens/reorder/internal/snapshot"
	"github.com/stocklens/reorder/internal/storage"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Postgres connection string (required with --driver postgres)",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load the historical snapshot into the analysis store",
		Commands: []*cli.Command{
			{
				Name:  "load",
				Usage: "Create the schema and load the CSV/XLSX snapshot tables",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "driver",
						Usage: "Target store: postgres or sqlite",
						Value: "sqlite",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Directory holding the snapshot tables",
					},
					&cli.StringFlag{
						Name:  "sqlite-path",
						Usage: "Path of the sqlite database file",
					},
				},
				Action: runLoad,
			},
			{
				Name:  "fetch",
				Usage: "Download snapshot tables from S3-compatible object storage",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix of the snapshot export",
						Value: "snapshot/",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Destination directory for the downloaded tables",
					},
				},
				Action: runFetch,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runLoad(c *cli.Context) error {
	cfg := config.Load()

	dir := c.String("dir")
	if dir == "" {
		dir = cfg.Snapshot.Dir
	}

	snap, err := snapshot.Load(dir)
	if err != nil {
		return err
	}
	log.Printf("parsed snapshot: %d suppliers, %d products, %d customers, %d orders, %d order lines",
		len(snap.Suppliers), len(snap.Products), len(snap.Customers), len(snap.Orders), len(snap.OrderDetails))

	driver := c.String("driver")
	if driver == "" {
		driver = cfg.Database.Driver
	}

	switch driver {
	case "postgres":
		return loadPostgres(c, snap)
	default:
		return loadSQLite(c, cfg, snap)
	}
}

func runFetch(c *cli.Context) error {
	cfg := config.Load()

	dir := c.String("dir")
	if dir == "" {
		dir = cfg.Snapshot.Dir
	}

	client, err := storage.NewClient(storage.Config{
		Endpoint:  cfg.Snapshot.StorageEndpoint,
		AccessKey: cfg.Snapshot.StorageAccessKey,
		SecretKey: cfg.Snapshot.StorageSecretKey,
		Bucket:    cfg.Snapshot.StorageBucket,
		Region:    cfg.Snapshot.StorageRegion,
		UseSSL:    cfg.Snapshot.StorageUseSSL,
	})
	if err != nil {
		return err
	}

	fetched, err := client.FetchSnapshot(c.Context, c.String("prefix"), dir)
	if err != nil {
		return err
	}
	log.Printf("fetched %d snapshot files into %s", fetched, dir)
	return nil
}
