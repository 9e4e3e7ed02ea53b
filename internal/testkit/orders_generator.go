// Package testkit generates synthetic order datasets for demos and tests.
// The generator seeds every quality defect the pipeline detects, so a run
// over its output exercises all four checks.
package testkit

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"datascout/domain/dataset"
)

// OrdersGeneratorConfig configures the synthetic order dataset.
type OrdersGeneratorConfig struct {
	RowCount          int     `json:"row_count"`
	MissingRate       float64 `json:"missing_rate"`
	DuplicateRate     float64 `json:"duplicate_rate"`
	OutlierRate       float64 `json:"outlier_rate"`
	MessyCategoryRate float64 `json:"messy_category_rate"`
	StartDate         time.Time
	Seed              int64 `json:"seed"`
}

// DefaultOrdersConfig returns defaults that trigger every quality check.
func DefaultOrdersConfig() OrdersGeneratorConfig {
	return OrdersGeneratorConfig{
		RowCount:          500,
		MissingRate:       0.08,
		DuplicateRate:     0.03,
		OutlierRate:       0.02,
		MessyCategoryRate: 0.05,
		StartDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:              42,
	}
}

// OrdersGenerator produces a deterministic synthetic order table.
type OrdersGenerator struct {
	config OrdersGeneratorConfig
	rng    *rand.Rand
}

// NewOrdersGenerator creates a generator with its own seeded source.
func NewOrdersGenerator(config OrdersGeneratorConfig) *OrdersGenerator {
	return &OrdersGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var (
	regions    = []string{"North", "South", "East", "West"}
	categories = []string{"Electronics", "Clothing", "Home", "Sports", "Books"}
	channels   = []string{"web", "mobile", "store"}
)

// orderRow fixes every cell at creation time, nulls included, so a
// duplicated row repeats its source exactly.
type orderRow struct {
	orderID  string
	region   dataset.Cell
	category dataset.Cell
	channel  string
	quantity int
	amount   float64
	date     string
}

// Generate builds the dataset in memory with the configured defect rates.
func (g *OrdersGenerator) Generate() *dataset.Dataset {
	rows := make([]orderRow, 0, g.config.RowCount)
	for i := 0; i < g.config.RowCount; i++ {
		if len(rows) > 0 && g.rng.Float64() < g.config.DuplicateRate {
			rows = append(rows, rows[g.rng.Intn(len(rows))])
			continue
		}
		rows = append(rows, g.randomRow(i))
	}

	cols := []dataset.Column{
		{Name: "order_id", DType: dataset.DTypeObject},
		{Name: "region", DType: dataset.DTypeObject},
		{Name: "category", DType: dataset.DTypeObject},
		{Name: "channel", DType: dataset.DTypeObject},
		{Name: "quantity", DType: dataset.DTypeInt64},
		{Name: "amount", DType: dataset.DTypeFloat64},
		{Name: "order_date", DType: dataset.DTypeObject},
	}
	for _, row := range rows {
		cols[0].Cells = append(cols[0].Cells, dataset.Cell{Raw: row.orderID})
		cols[1].Cells = append(cols[1].Cells, row.region)
		cols[2].Cells = append(cols[2].Cells, row.category)
		cols[3].Cells = append(cols[3].Cells, dataset.Cell{Raw: row.channel})
		cols[4].Cells = append(cols[4].Cells, dataset.Cell{Raw: fmt.Sprintf("%d", row.quantity)})
		cols[5].Cells = append(cols[5].Cells, dataset.Cell{Raw: fmt.Sprintf("%.2f", row.amount)})
		cols[6].Cells = append(cols[6].Cells, dataset.Cell{Raw: row.date})
	}
	return &dataset.Dataset{Name: "orders", Columns: cols}
}

func (g *OrdersGenerator) randomRow(i int) orderRow {
	amount := 20 + g.rng.Float64()*180
	if g.rng.Float64() < g.config.OutlierRate {
		amount *= 50
	}
	region := regions[g.rng.Intn(len(regions))]
	// Lowercase variants survive ingestion, which trims whitespace.
	if g.rng.Float64() < g.config.MessyCategoryRate {
		region = strings.ToLower(region)
	}
	date := g.config.StartDate.AddDate(0, 0, g.rng.Intn(90))
	return orderRow{
		orderID:  fmt.Sprintf("ORD-%05d", i+1),
		region:   g.maybeMissing(region),
		category: g.maybeMissing(categories[g.rng.Intn(len(categories))]),
		channel:  channels[g.rng.Intn(len(channels))],
		quantity: 1 + g.rng.Intn(5),
		amount:   amount,
		date:     date.Format("2006-01-02"),
	}
}

func (g *OrdersGenerator) maybeMissing(v string) dataset.Cell {
	if g.rng.Float64() < g.config.MissingRate {
		return dataset.Cell{Null: true}
	}
	return dataset.Cell{Raw: v}
}

// WriteCSV renders the generated dataset to a CSV file so it can round-trip
// through the normal ingestion path.
func (g *OrdersGenerator) WriteCSV(path string) error {
	ds := g.Generate()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for r := 0; r < ds.Rows(); r++ {
		record := make([]string, len(ds.Columns))
		for c := range ds.Columns {
			cell := ds.Columns[c].Cells[r]
			if !cell.Null {
				record[c] = cell.Raw
			}
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}
	w.Flush()
	return w.Error()
}
