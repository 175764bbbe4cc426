package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"aurora-commerce/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads product rows (id,title,price,img,desc,stock) and upserts them into the
// catalog. Stock is written as size:count pairs separated by semicolons, e.g. S:5;M:8;L:4.
type CSVImporter struct {
	reader  *csv.Reader
	catalog ProductWriter
}

var requiredColumns = []string{"id", "title", "price"}

func NewCSVImporter(r io.Reader, catalog ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:  csvr,
		catalog: catalog,
	}
}

// Run upserts every row in file order and stops at the first invalid row. Rows before the
// invalid one stay imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q: %w", col, domain.ErrValidation)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			line, _ := i.reader.FieldPos(0)
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := i.catalog.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.ID, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		ID:    pick(record, index, "id"),
		Title: pick(record, index, "title"),
		Img:   pick(record, index, "img"),
		Desc:  pick(record, index, "desc"),
	}
	if p.ID == "" || p.Title == "" {
		return p, fmt.Errorf("id and title are required: %w", domain.ErrValidation)
	}

	price, err := strconv.ParseInt(pick(record, index, "price"), 10, 64)
	if err != nil {
		return p, fmt.Errorf("product %q: bad price: %w", p.ID, domain.ErrValidation)
	}
	p.Price = price

	stock, err := ParseStock(pick(record, index, "stock"))
	if err != nil {
		return p, fmt.Errorf("product %q: %w", p.ID, err)
	}
	p.Stock = stock
	return p, nil
}

// ParseStock reads "S:5;M:8;L:4". An empty value yields an empty stock map.
func ParseStock(raw string) (map[string]int, error) {
	stock := map[string]int{}
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		size, count, ok := strings.Cut(pair, ":")
		size = strings.TrimSpace(size)
		if !ok || size == "" {
			return nil, fmt.Errorf("bad stock entry %q: %w", pair, domain.ErrValidation)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad stock count %q: %w", pair, domain.ErrValidation)
		}
		stock[size] = n
	}
	return stock, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
