// backend-go/cmd/settle/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/orderdesk/backend-go/internal/cache"
	"github.com/orderdesk/backend-go/internal/config"
	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository/postgres"
	"github.com/orderdesk/backend-go/internal/service"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "settle",
		Usage: "Recompute settlement aggregates for a period",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:     "company-id",
				Usage:    "Company to settle",
				Required: true,
				EnvVars:  []string{"SETTLE_COMPANY_ID"},
			},
			&cli.Int64Flag{
				Name:    "user-id",
				Usage:   "User the refresh runs as",
				Value:   1,
				EnvVars: []string{"SETTLE_USER_ID"},
			},
			&cli.StringFlag{
				Name:  "start",
				Usage: "Period start (YYYY-MM-DD), defaults to the first of this month",
			},
			&cli.StringFlag{
				Name:  "end",
				Usage: "Period end inclusive (YYYY-MM-DD), defaults to today",
			},
		},
		Action: runSettle,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runSettle(c *cli.Context) error {
	cfg := config.Load()

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	summaries, err := cache.NewSettlementCache(cfg.Cache)
	if err != nil {
		log.Printf("warning: settlement cache unavailable: %v", err)
		summaries = cache.NewNoopSettlementCache()
	}

	start, end, err := resolvePeriod(c.String("start"), c.String("end"))
	if err != nil {
		return err
	}

	actor := domain.Actor{
		UserID:    c.Int64("user-id"),
		CompanyID: c.Int64("company-id"),
	}

	svc := service.NewSettlementService(postgres.NewSettlementRepository(db), summaries)
	settlements, err := svc.Refresh(c.Context, actor, start, end)
	if err != nil {
		return fmt.Errorf("refresh settlements: %w", err)
	}

	for _, s := range settlements {
		log.Printf("%-24s orders=%d cancels=%d amount=%d net_profit=%d (%.1f%%)",
			s.MallName, s.OrderCount, s.CancelCount, s.OrderAmount, s.NetProfit, s.NetProfitRate)
	}
	log.Printf("settled %d malls for company %d (%s .. %s)",
		len(settlements), actor.CompanyID,
		start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02"))
	return nil
}

func resolvePeriod(startRaw, endRaw string) (time.Time, time.Time, error) {
	now := time.Now()

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	if startRaw != "" {
		parsed, err := time.Parse("2006-01-02", startRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
		}
		start = parsed
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if endRaw != "" {
		parsed, err := time.Parse("2006-01-02", endRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
		}
		end = parsed
	}
	// Inclusive end date on the command line.
	end = end.AddDate(0, 0, 1)

	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date must not precede start date")
	}
	return start, end, nil
}
