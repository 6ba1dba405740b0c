package csv

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/glbter/fund-advisor/entities"
)

//go:embed data/funds.csv
var fundsSeed []byte

const fundColumns = 6

// Catalog is the fixed fund list. It is read-only after Load.
type Catalog struct {
	funds []entities.Fund
}

func Load() (*Catalog, error) {
	return parse(fundsSeed)
}

func parse(seed []byte) (*Catalog, error) {
	content, err := readCsv(seed)
	if err != nil {
		return nil, fmt.Errorf("read funds seed: %w", err)
	}

	if len(content) == 0 {
		return nil, fmt.Errorf("funds seed is empty")
	}

	funds := make([]entities.Fund, 0, len(content)-1)
	seen := make(map[int]struct{}, len(content)-1)
	for i, line := range content[1:] {
		f, err := parseFund(line)
		if err != nil {
			return nil, fmt.Errorf("parse funds seed line %d: %w", i+2, err)
		}

		if _, ok := seen[f.ID]; ok {
			return nil, fmt.Errorf("parse funds seed line %d: duplicate id %d", i+2, f.ID)
		}
		seen[f.ID] = struct{}{}

		funds = append(funds, f)
	}

	return &Catalog{funds: funds}, nil
}

func parseFund(line []string) (entities.Fund, error) {
	if len(line) != fundColumns {
		return entities.Fund{}, fmt.Errorf("expected %d columns, got %d", fundColumns, len(line))
	}

	id, err := strconv.Atoi(line[0])
	if err != nil {
		return entities.Fund{}, fmt.Errorf("parse id: %w", err)
	}
	if id <= 0 {
		return entities.Fund{}, fmt.Errorf("id must be positive, got %d", id)
	}

	returns, err := strconv.ParseFloat(line[5], 64)
	if err != nil {
		return entities.Fund{}, fmt.Errorf("parse returns: %w", err)
	}

	return entities.Fund{
		ID:          id,
		Name:        line[1],
		Description: line[2],
		Risk:        line[3],
		Sector:      line[4],
		Returns:     returns,
	}, nil
}

// ListAll returns a copy of the catalog in seed order.
func (c *Catalog) ListAll() []entities.Fund {
	funds := make([]entities.Fund, len(c.funds))
	copy(funds, c.funds)

	return funds
}

func (c *Catalog) FindByID(id int) (entities.Fund, error) {
	for _, f := range c.funds {
		if f.ID == id {
			return f, nil
		}
	}

	return entities.Fund{}, entities.ErrFundNotFound
}

func readCsv(seed []byte) ([][]string, error) {
	csvReader := csv.NewReader(bytes.NewReader(seed))
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}

	return records, nil
}
