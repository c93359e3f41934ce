// Package snapshot parses the historical CSV/XLSX snapshot the analysis runs
// against: five tables covering suppliers, products, customers, orders and
// order lines. Columns are addressed by header name, so exports with reordered
// or differently cased headers load the same way.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Supplier struct {
	ID           int64
	Name         string
	LeadTimeDays float64
}

type Product struct {
	ID               int64
	Name             string
	StockQuantity    int
	SafetyStockLevel int
	UnitPrice        decimal.Decimal
	SupplierID       int64
}

type Customer struct {
	ID      int64
	Name    string
	City    string
	Country string
}

type Order struct {
	ID          int64
	CustomerID  int64
	OrderDate   time.Time
	ShippedDate *time.Time
}

type OrderDetail struct {
	OrderID   int64
	ProductID int64
	Quantity  int
}

type Snapshot struct {
	Suppliers    []Supplier
	Products     []Product
	Customers    []Customer
	Orders       []Order
	OrderDetails []OrderDetail
}

// Table file base names, as shipped in the historical snapshot.
const (
	SuppliersFile    = "suppliers_data"
	ProductsFile     = "products_data"
	CustomersFile    = "customers_data"
	OrdersFile       = "orders_data"
	OrderDetailsFile = "order_details_data"
)

// Load reads the five snapshot tables from dir. Each table may be a .csv or an
// .xlsx file.
func Load(dir string) (*Snapshot, error) {
	snap := &Snapshot{}

	tables := []struct {
		base  string
		parse func(t *table) error
	}{
		{SuppliersFile, func(t *table) error { return parseSuppliers(t, snap) }},
		{ProductsFile, func(t *table) error { return parseProducts(t, snap) }},
		{CustomersFile, func(t *table) error { return parseCustomers(t, snap) }},
		{OrdersFile, func(t *table) error { return parseOrders(t, snap) }},
		{OrderDetailsFile, func(t *table) error { return parseOrderDetails(t, snap) }},
	}

	for _, tbl := range tables {
		t, err := readTable(dir, tbl.base)
		if err != nil {
			return nil, err
		}
		if err := tbl.parse(t); err != nil {
			return nil, fmt.Errorf("%s: %w", tbl.base, err)
		}
	}

	return snap, nil
}

func readTable(dir, base string) (*table, error) {
	csvPath := filepath.Join(dir, base+".csv")
	if _, err := os.Stat(csvPath); err == nil {
		return readCSV(csvPath)
	}

	xlsxPath := filepath.Join(dir, base+".xlsx")
	if _, err := os.Stat(xlsxPath); err == nil {
		return readXLSX(xlsxPath)
	}

	return nil, fmt.Errorf("missing snapshot table %s (looked for .csv and .xlsx in %s)", base, dir)
}

// table is a parsed sheet: one header row plus data rows.
type table struct {
	header map[string]int
	rows   [][]string
}

func newTable(records [][]string) (*table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("empty table, expected a header row")
	}
	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[normalizeHeader(name)] = i
	}
	return &table{header: header, rows: records[1:]}, nil
}

// normalizeHeader makes "SupplierID", "supplier_id" and "Supplier ID"
// interchangeable.
func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, " ", "")
	return name
}

// col resolves a cell by any of the given header aliases.
func (t *table) col(row []string, names ...string) (string, bool) {
	for _, name := range names {
		if idx, ok := t.header[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx]), true
		}
	}
	return "", false
}

func (t *table) requireCol(row []string, names ...string) (string, error) {
	value, ok := t.col(row, names...)
	if !ok {
		return "", fmt.Errorf("missing column %q", names[0])
	}
	return value, nil
}

func parseSuppliers(t *table, snap *Snapshot) error {
	for i, row := range t.rows {
		id, err := requireInt(t, row, "supplierid", "id")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		name, err := t.requireCol(row, "suppliername", "name")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		leadTime, err := requireFloat(t, row, "leadtimedays", "leadtime")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		snap.Suppliers = append(snap.Suppliers, Supplier{ID: id, Name: name, LeadTimeDays: leadTime})
	}
	return nil
}

func parseProducts(t *table, snap *Snapshot) error {
	for i, row := range t.rows {
		id, err := requireInt(t, row, "productid", "id")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		name, err := t.requireCol(row, "productname", "name")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		stock, err := requireInt(t, row, "stockquantity", "stock")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		safety, err := requireInt(t, row, "safetystocklevel", "safetystock")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		priceRaw, err := t.requireCol(row, "unitprice", "price")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		price, err := decimal.NewFromString(priceRaw)
		if err != nil {
			return fmt.Errorf("row %d: invalid unit price %q: %w", i+2, priceRaw, err)
		}
		supplierID, err := requireInt(t, row, "supplierid")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		snap.Products = append(snap.Products, Product{
			ID:               id,
			Name:             name,
			StockQuantity:    int(stock),
			SafetyStockLevel: int(safety),
			UnitPrice:        price,
			SupplierID:       supplierID,
		})
	}
	return nil
}

func parseCustomers(t *table, snap *Snapshot) error {
	for i, row := range t.rows {
		id, err := requireInt(t, row, "customerid", "id")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		name, err := t.requireCol(row, "customername", "name")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		city, _ := t.col(row, "city")
		country, _ := t.col(row, "country")
		snap.Customers = append(snap.Customers, Customer{ID: id, Name: name, City: city, Country: country})
	}
	return nil
}

func parseOrders(t *table, snap *Snapshot) error {
	for i, row := range t.rows {
		id, err := requireInt(t, row, "orderid", "id")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		customerID, err := requireInt(t, row, "customerid")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		orderDateRaw, err := t.requireCol(row, "orderdate")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		orderDate, err := parseDate(orderDateRaw)
		if err != nil {
			return fmt.Errorf("row %d: invalid order date %q: %w", i+2, orderDateRaw, err)
		}

		var shipped *time.Time
		if raw, ok := t.col(row, "shippeddate"); ok && raw != "" {
			d, err := parseDate(raw)
			if err != nil {
				return fmt.Errorf("row %d: invalid shipped date %q: %w", i+2, raw, err)
			}
			shipped = &d
		}

		snap.Orders = append(snap.Orders, Order{
			ID:          id,
			CustomerID:  customerID,
			OrderDate:   orderDate,
			ShippedDate: shipped,
		})
	}
	return nil
}

func parseOrderDetails(t *table, snap *Snapshot) error {
	for i, row := range t.rows {
		orderID, err := requireInt(t, row, "orderid")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		productID, err := requireInt(t, row, "productid")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		quantity, err := requireInt(t, row, "quantity")
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		snap.OrderDetails = append(snap.OrderDetails, OrderDetail{
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  int(quantity),
		})
	}
	return nil
}

func requireInt(t *table, row []string, names ...string) (int64, error) {
	raw, err := t.requireCol(row, names...)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q for %s: %w", raw, names[0], err)
	}
	return v, nil
}

func requireFloat(t *table, row []string, names ...string) (float64, error) {
	raw, err := t.requireCol(row, names...)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q for %s: %w", raw, names[0], err)
	}
	return v, nil
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseDate(raw string) (time.Time, error) {
	for _, format := range dateFormats {
		if d, err := time.Parse(format, raw); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}
