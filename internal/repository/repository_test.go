package repository

import (
	"context"
	"testing"

	"github.com/nmezrioui/facturex/internal/entity"
)

func newTestDB(t *testing.T) *RepositorySet {
	t.Helper()

	ctx := context.Background()
	db, err := Open(ctx, Config{Driver: "sqlite", DSN: ":memory:"}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepositorySet(db, nil)
}

func f64(v float64) *float64 { return &v }

func sampleInvoiceEntity() *entity.Invoice {
	return &entity.Invoice{
		Number:    "FC-11-2024A-038-15-01",
		Date:      "2024-01-15",
		TotalHT:   f64(250),
		VATAmount: f64(50),
		TotalTTC:  f64(300),
		Currency:  "MAD",
		Supplier: entity.Supplier{
			Name: "Fournisseur Alpha SARL",
			ICE:  "001234567000089",
		},
		Items: []entity.LineItem{
			{Designation: "Cartouche encre noire", Quantity: 2, UnitPrice: 75, TotalPrice: 150},
			{Designation: "Ramette papier A4", Quantity: 4, UnitPrice: 25, TotalPrice: 100},
		},
	}
}

func TestCreateWithItemsRoundTrip(t *testing.T) {
	repos := newTestDB(t)
	ctx := context.Background()

	id, err := repos.Invoices.CreateWithItems(ctx, sampleInvoiceEntity())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repos.Invoices.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Number != "FC-11-2024A-038-15-01" {
		t.Errorf("number = %q", got.Number)
	}
	if got.Date != "2024-01-15" {
		t.Errorf("date = %q", got.Date)
	}
	if got.SupplierName != "Fournisseur Alpha SARL" {
		t.Errorf("supplier name = %q", got.SupplierName)
	}
	if got.TotalTTC == nil || *got.TotalTTC != 300 {
		t.Errorf("total ttc = %v", got.TotalTTC)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}
	if got.Items[0].Position != 0 || got.Items[0].Designation != "Cartouche encre noire" {
		t.Errorf("first item = %+v", got.Items[0])
	}
	if got.Items[1].Position != 1 || got.Items[1].TotalPrice != 100 {
		t.Errorf("second item = %+v", got.Items[1])
	}
}

func TestSupplierDedupAcrossInvoices(t *testing.T) {
	repos := newTestDB(t)
	ctx := context.Background()

	first, err := repos.Invoices.CreateWithItems(ctx, sampleInvoiceEntity())
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second := sampleInvoiceEntity()
	second.Number = "FC-11-2024A-039-20-01"
	second.Date = "2024-01-20"
	secondID, err := repos.Invoices.CreateWithItems(ctx, second)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	a, err := repos.Invoices.GetByID(ctx, first)
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	b, err := repos.Invoices.GetByID(ctx, secondID)
	if err != nil {
		t.Fatalf("get second: %v", err)
	}
	if a.SupplierID != b.SupplierID {
		t.Errorf("supplier ids differ: %d vs %d", a.SupplierID, b.SupplierID)
	}

	var count int
	if err := repos.DB().GetContext(ctx, &count, `SELECT COUNT(*) FROM suppliers`); err != nil {
		t.Fatalf("count suppliers: %v", err)
	}
	if count != 1 {
		t.Errorf("supplier rows = %d, want 1", count)
	}
}

func TestSupplierSameNameDifferentICE(t *testing.T) {
	repos := newTestDB(t)
	ctx := context.Background()

	if _, err := repos.Invoices.CreateWithItems(ctx, sampleInvoiceEntity()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	other := sampleInvoiceEntity()
	other.Number = "FC-11-2024A-040-22-01"
	other.Supplier.ICE = "009999999000011"
	if _, err := repos.Invoices.CreateWithItems(ctx, other); err != nil {
		t.Fatalf("second create: %v", err)
	}

	var count int
	if err := repos.DB().GetContext(ctx, &count, `SELECT COUNT(*) FROM suppliers`); err != nil {
		t.Fatalf("count suppliers: %v", err)
	}
	if count != 2 {
		t.Errorf("supplier rows = %d, want 2", count)
	}
}

func TestCreateWithItemsRollsBackOnItemFailure(t *testing.T) {
	repos := newTestDB(t)
	ctx := context.Background()

	inv := sampleInvoiceEntity()
	// Violates the designation CHECK, failing the last insert of the
	// transaction after supplier and header already went in.
	inv.Items = append(inv.Items, entity.LineItem{Designation: "", Quantity: 1, UnitPrice: 1, TotalPrice: 1})

	if _, err := repos.Invoices.CreateWithItems(ctx, inv); err == nil {
		t.Fatal("expected create to fail")
	}

	for _, table := range []string{"suppliers", "invoices", "invoice_items"} {
		var count int
		if err := repos.DB().GetContext(ctx, &count, `SELECT COUNT(*) FROM `+table); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s rows = %d after rollback, want 0", table, count)
		}
	}
}

func TestListOrdersByDateDescending(t *testing.T) {
	repos := newTestDB(t)
	ctx := context.Background()

	older := sampleInvoiceEntity()
	older.Number = "FC-11-2024A-001-05-01"
	older.Date = "2024-01-05"
	if _, err := repos.Invoices.CreateWithItems(ctx, older); err != nil {
		t.Fatalf("create older: %v", err)
	}
	if _, err := repos.Invoices.CreateWithItems(ctx, sampleInvoiceEntity()); err != nil {
		t.Fatalf("create newer: %v", err)
	}

	list, err := repos.Invoices.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list len = %d", len(list))
	}
	if list[0].Date != "2024-01-15" || list[1].Date != "2024-01-05" {
		t.Errorf("order = %s, %s", list[0].Date, list[1].Date)
	}
}

func TestProfileCreateAndList(t *testing.T) {
	repos := newTestDB(t)
	ctx := context.Background()

	id, err := repos.Profiles.Create(ctx, &entity.CompanyProfile{
		Name: "Teknologiate SARL",
		ICE:  "002345678000012",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	p, err := repos.Profiles.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name != "Teknologiate SARL" {
		t.Errorf("name = %q", p.Name)
	}

	list, err := repos.Profiles.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list len = %d", len(list))
	}
}
