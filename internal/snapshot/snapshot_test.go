package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func writeSnapshotDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"suppliers_data.csv": "SupplierID,SupplierName,LeadTimeDays\n" +
			"1,Acme Logistics,5\n" +
			"2,Baltic Freight,7.5\n",
		"products_data.csv": "ProductID,ProductName,StockQuantity,SafetyStockLevel,UnitPrice,SupplierID\n" +
			"10,Widget,240,50,12.50,1\n" +
			"11,Gadget,80,20,3.99,2\n",
		"customers_data.csv": "CustomerID,CustomerName,City,Country\n" +
			"100,Globex,Berlin,DE\n",
		"orders_data.csv": "OrderID,CustomerID,OrderDate,ShippedDate\n" +
			"1000,100,2024-01-05,2024-01-11\n" +
			"1001,100,2024-02-03,\n",
		"order_details_data.csv": "OrderID,ProductID,Quantity\n" +
			"1000,10,30\n" +
			"1001,10,45\n" +
			"1000,11,5\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	snap, err := Load(writeSnapshotDir(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(snap.Suppliers) != 2 {
		t.Fatalf("got %d suppliers, want 2", len(snap.Suppliers))
	}
	if snap.Suppliers[1].LeadTimeDays != 7.5 {
		t.Errorf("lead time = %v, want 7.5", snap.Suppliers[1].LeadTimeDays)
	}

	if len(snap.Products) != 2 {
		t.Fatalf("got %d products, want 2", len(snap.Products))
	}
	widget := snap.Products[0]
	if widget.Name != "Widget" || widget.StockQuantity != 240 || widget.SafetyStockLevel != 50 {
		t.Errorf("unexpected product row: %+v", widget)
	}
	if !widget.UnitPrice.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("unit price = %s, want 12.50", widget.UnitPrice)
	}

	if len(snap.Orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(snap.Orders))
	}
	if snap.Orders[0].ShippedDate == nil {
		t.Error("order 1000 should have a shipped date")
	}
	if snap.Orders[1].ShippedDate != nil {
		t.Error("order 1001 is still in transit, shipped date must be nil")
	}

	if len(snap.OrderDetails) != 3 {
		t.Fatalf("got %d order details, want 3", len(snap.OrderDetails))
	}
}

func TestLoad_HeaderAliases(t *testing.T) {
	dir := writeSnapshotDir(t)

	// snake_case headers load the same as the original CamelCase export.
	err := os.WriteFile(filepath.Join(dir, "suppliers_data.csv"),
		[]byte("supplier_id,supplier_name,lead_time_days\n3,Canal Cargo,4\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	snap, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Suppliers) != 1 || snap.Suppliers[0].Name != "Canal Cargo" {
		t.Errorf("unexpected suppliers: %+v", snap.Suppliers)
	}
}

func TestLoad_MissingTable(t *testing.T) {
	dir := writeSnapshotDir(t)
	if err := os.Remove(filepath.Join(dir, "orders_data.csv")); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected an error for a missing table file")
	}
}

func TestLoad_BadRow(t *testing.T) {
	dir := writeSnapshotDir(t)
	err := os.WriteFile(filepath.Join(dir, "order_details_data.csv"),
		[]byte("OrderID,ProductID,Quantity\n1000,10,lots\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected an error for a non-numeric quantity")
	}
}
