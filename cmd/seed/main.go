// backend-go/cmd/seed/main.go
package main

import (
	"context"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/orderdesk/backend-go/internal/repository/postgres"
)

type dbKeyType struct{}

var dbKey dbKeyType

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newCompanyFlag() *cli.Int64Flag {
	return &cli.Int64Flag{
		Name:     "company-id",
		Usage:    "Company that owns the seeded rows",
		Required: true,
		EnvVars:  []string{"SEED_COMPANY_ID"},
	}
}

func initDB(c *cli.Context) error {
	db, err := postgres.NewDBFromURL("pgx", c.String("db-url"))
	if err != nil {
		return err
	}
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *postgres.DB {
	db, _ := c.Context.Value(dbKey).(*postgres.DB)
	return db
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with catalog, mall, template, and user data",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:  "products",
				Usage: "Seed the product catalog from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newCompanyFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "CSV file with catalog rows",
						Value:   "./data/seeds/products.csv",
						EnvVars: []string{"SEED_PRODUCTS_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedProducts,
			},
			{
				Name:  "malls",
				Usage: "Seed malls from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newCompanyFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "CSV file with mall rows",
						Value:   "./data/seeds/malls.csv",
						EnvVars: []string{"SEED_MALLS_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedMalls,
			},
			{
				Name:  "templates",
				Usage: "Seed export templates from a JSON file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newCompanyFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "JSON file with template definitions",
						Value:   "./data/seeds/templates.json",
						EnvVars: []string{"SEED_TEMPLATES_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedTemplates,
			},
			{
				Name:  "users",
				Usage: "Seed user accounts from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newCompanyFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "CSV file with user rows",
						Value:   "./data/seeds/users.csv",
						EnvVars: []string{"SEED_USERS_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedUsers,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
