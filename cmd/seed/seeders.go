// backend-go/cmd/seed/seeders.go
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
	"github.com/orderdesk/backend-go/internal/repository/postgres"
)

// seedProducts loads catalog rows. Expected columns:
// code,name,sabang_name,cost_price,sale_price,vendor_name,is_inhouse,carrier,pack_count,shipping_fee,tax_category
func seedProducts(c *cli.Context) error {
	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("open products file: %w", err)
	}
	defer f.Close()

	count, err := loadProducts(c.Context, postgres.NewProductRepository(dbFrom(c)), c.Int64("company-id"), f)
	if err != nil {
		return err
	}
	log.Printf("seeded %d products for company %d", count, c.Int64("company-id"))
	return nil
}

func loadProducts(ctx context.Context, products repository.ProductRepository, companyID int64, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	if _, err := reader.Read(); err != nil { // header
		return 0, fmt.Errorf("read products header: %w", err)
	}

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read products row: %w", err)
		}
		if len(record) < 11 {
			log.Printf("skipping short row: %v", record)
			continue
		}

		p := &domain.Product{
			CompanyID:   companyID,
			Code:        strings.TrimSpace(record[0]),
			Name:        strings.TrimSpace(record[1]),
			SabangName:  strings.TrimSpace(record[2]),
			CostPrice:   parseInt(record[3]),
			SalePrice:   parseInt(record[4]),
			VendorName:  strings.TrimSpace(record[5]),
			IsInhouse:   parseBool(record[6]),
			Carrier:     strings.TrimSpace(record[7]),
			PackCount:   int(parseInt(record[8])),
			ShippingFee: parseInt(record[9]),
			TaxCategory: strings.TrimSpace(record[10]),
		}
		if _, err := products.Upsert(ctx, p); err != nil {
			return count, fmt.Errorf("upsert product %s: %w", p.Code, err)
		}
		count++
	}
	return count, nil
}

// seedMalls loads mall rows. Expected columns: name,code
func seedMalls(c *cli.Context) error {
	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("open malls file: %w", err)
	}
	defer f.Close()

	count, err := loadMalls(c.Context, postgres.NewMallRepository(dbFrom(c)), c.Int64("company-id"), f)
	if err != nil {
		return err
	}
	log.Printf("seeded %d malls for company %d", count, c.Int64("company-id"))
	return nil
}

func loadMalls(ctx context.Context, malls repository.MallRepository, companyID int64, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	if _, err := reader.Read(); err != nil { // header
		return 0, fmt.Errorf("read malls header: %w", err)
	}

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read malls row: %w", err)
		}
		if len(record) < 2 {
			log.Printf("skipping short row: %v", record)
			continue
		}

		m := &domain.Mall{
			CompanyID: companyID,
			Name:      strings.TrimSpace(record[0]),
			Code:      strings.TrimSpace(record[1]),
		}
		if _, err := malls.Upsert(ctx, m); err != nil {
			return count, fmt.Errorf("upsert mall %s: %w", m.Name, err)
		}
		count++
	}
	return count, nil
}

type templateSeed struct {
	Name      string                  `json:"name"`
	MallName  string                  `json:"mall_name"`
	ObjectKey string                  `json:"object_key"`
	Columns   []domain.TemplateColumn `json:"columns"`
}

// seedTemplates loads export templates from a JSON array of definitions.
func seedTemplates(c *cli.Context) error {
	raw, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("open templates file: %w", err)
	}

	db := dbFrom(c)
	count, err := loadTemplates(c.Context,
		postgres.NewTemplateRepository(db), postgres.NewMallRepository(db),
		c.Int64("company-id"), raw)
	if err != nil {
		return err
	}
	log.Printf("seeded %d templates for company %d", count, c.Int64("company-id"))
	return nil
}

func loadTemplates(ctx context.Context, templates repository.TemplateRepository, malls repository.MallRepository, companyID int64, raw []byte) (int, error) {
	var seeds []templateSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return 0, fmt.Errorf("decode templates file: %w", err)
	}

	count := 0
	for _, seed := range seeds {
		t := &domain.Template{
			CompanyID: companyID,
			Name:      seed.Name,
			Columns:   seed.Columns,
			ObjectKey: seed.ObjectKey,
		}
		if seed.MallName != "" {
			mall, err := malls.GetByName(ctx, companyID, seed.MallName)
			if err != nil {
				return count, fmt.Errorf("look up mall %s: %w", seed.MallName, err)
			}
			if mall == nil {
				return count, fmt.Errorf("template %s references unknown mall %s", seed.Name, seed.MallName)
			}
			t.MallID = &mall.ID
		}
		if _, err := templates.Create(ctx, t); err != nil {
			return count, fmt.Errorf("upsert template %s: %w", seed.Name, err)
		}
		count++
	}
	return count, nil
}

// seedUsers loads user accounts. Expected columns: email,name,grade
func seedUsers(c *cli.Context) error {
	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("open users file: %w", err)
	}
	defer f.Close()

	count, err := loadUsers(c.Context, postgres.NewUserRepository(dbFrom(c)), c.Int64("company-id"), f)
	if err != nil {
		return err
	}
	log.Printf("seeded %d users for company %d", count, c.Int64("company-id"))
	return nil
}

func loadUsers(ctx context.Context, users repository.UserRepository, companyID int64, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	if _, err := reader.Read(); err != nil { // header
		return 0, fmt.Errorf("read users header: %w", err)
	}

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read users row: %w", err)
		}
		if len(record) < 3 {
			log.Printf("skipping short row: %v", record)
			continue
		}

		u := &domain.User{
			CompanyID: companyID,
			Email:     strings.TrimSpace(record[0]),
			Name:      strings.TrimSpace(record[1]),
			Grade:     strings.TrimSpace(record[2]),
		}
		if _, err := users.Upsert(ctx, u); err != nil {
			return count, fmt.Errorf("upsert user %s: %w", u.Email, err)
		}
		count++
	}
	return count, nil
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "y", "yes":
		return true
	}
	return false
}
