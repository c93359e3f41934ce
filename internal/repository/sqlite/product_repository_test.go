package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stocklens/reorder/internal/domain"
	"github.com/stocklens/reorder/internal/snapshot"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func testSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Suppliers: []snapshot.Supplier{
			{ID: 1, Name: "Acme Logistics", LeadTimeDays: 5},
		},
		Products: []snapshot.Product{
			{ID: 10, Name: "Widget", StockQuantity: 240, SafetyStockLevel: 50,
				UnitPrice: decimal.RequireFromString("12.50"), SupplierID: 1},
			{ID: 11, Name: "Anvil", StockQuantity: 12, SafetyStockLevel: 4,
				UnitPrice: decimal.RequireFromString("99.00"), SupplierID: 1},
		},
		Customers: []snapshot.Customer{
			{ID: 100, Name: "Globex", City: "Berlin", Country: "DE"},
		},
		Orders: []snapshot.Order{
			{ID: 1000, CustomerID: 100, OrderDate: date("2024-01-05"), ShippedDate: datePtr("2024-01-11")},
			{ID: 1001, CustomerID: 100, OrderDate: date("2024-01-20"), ShippedDate: datePtr("2024-01-30")},
			{ID: 1002, CustomerID: 100, OrderDate: date("2024-02-03")},
		},
		OrderDetails: []snapshot.OrderDetail{
			{OrderID: 1000, ProductID: 10, Quantity: 30},
			{OrderID: 1001, ProductID: 10, Quantity: 45},
			{OrderID: 1002, ProductID: 10, Quantity: 20},
		},
	}
}

func newTestRepo(t *testing.T) *productRepository {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "scm.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.LoadSnapshot(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("failed to load snapshot: %v", err)
	}

	return &productRepository{db: db}
}

func TestListProducts(t *testing.T) {
	repo := newTestRepo(t)

	products, err := repo.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	// Ordered by name: Anvil before Widget.
	if products[0].Name != "Anvil" || products[1].Name != "Widget" {
		t.Errorf("unexpected ordering: %+v", products)
	}
}

func TestGetProductDetails(t *testing.T) {
	repo := newTestRepo(t)

	details, err := repo.GetProductDetails(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetProductDetails failed: %v", err)
	}
	if details.Name != "Widget" || details.StockOnHand != 240 || details.ConfiguredSafetyStock != 50 {
		t.Errorf("unexpected details: %+v", details)
	}
	if details.SupplierName != "Acme Logistics" || details.ContractedLeadTimeDays != 5 {
		t.Errorf("unexpected supplier join: %+v", details)
	}
	if !details.UnitPrice.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("unit price = %s, want 12.50", details.UnitPrice)
	}
}

func TestGetProductDetails_Unknown(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetProductDetails(context.Background(), 9999)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestGetShipmentHistory(t *testing.T) {
	repo := newTestRepo(t)

	records, err := repo.GetShipmentHistory(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetShipmentHistory failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if !records[0].Delivered() || records[0].LeadTimeDays() != 6 {
		t.Errorf("first order: delivered=%v lead=%v, want delivered with 6 days",
			records[0].Delivered(), records[0].LeadTimeDays())
	}
	if records[2].Delivered() {
		t.Error("third order is in transit, must have no shipped date")
	}
	// Oldest first.
	if !records[0].OrderDate.Before(records[1].OrderDate) {
		t.Error("records not ordered by order date")
	}
}

func TestGetMonthlyDemand(t *testing.T) {
	repo := newTestRepo(t)

	demand, err := repo.GetMonthlyDemand(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetMonthlyDemand failed: %v", err)
	}
	want := []domain.MonthlyDemand{
		{Month: "2024-01", TotalQuantity: 75},
		{Month: "2024-02", TotalQuantity: 20},
	}
	if len(demand) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(demand), len(want), demand)
	}
	for i := range want {
		if demand[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, demand[i], want[i])
		}
	}
}

func TestGetMonthlyDemand_NoHistory(t *testing.T) {
	repo := newTestRepo(t)

	demand, err := repo.GetMonthlyDemand(context.Background(), 11)
	if err != nil {
		t.Fatalf("GetMonthlyDemand failed: %v", err)
	}
	if len(demand) != 0 {
		t.Errorf("got %d rows for a product without orders, want 0", len(demand))
	}
}
