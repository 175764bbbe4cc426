package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"aurora-commerce/internal/domain"
	"aurora-commerce/internal/kvstore"
	catalogrepo "aurora-commerce/internal/repository/catalog"
	catalogsvc "aurora-commerce/internal/service/catalog"
)

type stubCatalog struct {
	items []domain.Product
}

func (s *stubCatalog) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,title,price,img,desc,stock
p9,Cotton Hoodie,259000,https://example.com/p9.jpg,"Soft, warm",S:3;M:0;L:7

p10,Canvas Tote,89000,,,`

	repo := &stubCatalog{}
	count, err := NewCSVImporter(strings.NewReader(csvData), repo).Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 || len(repo.items) != 2 {
		t.Fatalf("expected 2 products imported, got %d (%d saved)", count, len(repo.items))
	}

	first := repo.items[0]
	if first.ID != "p9" || first.Title != "Cotton Hoodie" || first.Price != 259000 || first.Desc != "Soft, warm" {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if first.Stock["S"] != 3 || first.Stock["M"] != 0 || first.Stock["L"] != 7 {
		t.Fatalf("unexpected stock: %+v", first.Stock)
	}
	if len(repo.items[1].Stock) != 0 {
		t.Fatalf("expected empty stock, got %+v", repo.items[1].Stock)
	}
}

func TestCSVImporter_RejectsMissingTitle(t *testing.T) {
	csvData := `id,title,price,stock
p9,Hoodie,1000,S:1
p10,,2000,S:1`

	repo := &stubCatalog{}
	count, err := NewCSVImporter(strings.NewReader(csvData), repo).Run(context.Background())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected line number in error, got %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the first row to stay imported, got %d", count)
	}
}

func TestCSVImporter_RejectsMissingColumn(t *testing.T) {
	_, err := NewCSVImporter(strings.NewReader("id,title\np1,Shirt"), &stubCatalog{}).Run(context.Background())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseStock(t *testing.T) {
	for _, raw := range []string{"S5", "S:-1", ":4", "S:x"} {
		if _, err := ParseStock(raw); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected %q to be rejected, got %v", raw, err)
		}
	}
	stock, err := ParseStock(" XL : 2 ;")
	if err != nil || stock["XL"] != 2 {
		t.Fatalf("unexpected stock %+v err=%v", stock, err)
	}
}

func TestCSVImporter_IntoCatalog(t *testing.T) {
	ctx := context.Background()
	svc := catalogsvc.New(catalogrepo.NewKV(kvstore.NewMemory(), nil), nil)

	csvData := `id,title,price,stock
p1,Linen Shirt v2,210000,S:1;M:1;L:1
p9,Cotton Hoodie,259000,M:2`
	if _, err := NewCSVImporter(strings.NewReader(csvData), svc).Run(ctx); err != nil {
		t.Fatalf("import run: %v", err)
	}

	products, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(products) != 5 {
		t.Fatalf("expected default catalog plus one new product, got %d", len(products))
	}
	p1, err := svc.Get(ctx, "p1")
	if err != nil || p1.Price != 210000 {
		t.Fatalf("expected p1 replaced, got %+v err=%v", p1, err)
	}
}
