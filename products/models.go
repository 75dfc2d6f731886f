// Package products implements the product record CRUD behind the
// authentication gate: create, list with pagination and filters, get,
// update, and delete.
package products

import (
	"fmt"
	"strings"
	"time"
)

// Product statuses. The status column is constrained to these two values.
const (
	StatusActive       = "active"
	StatusDiscontinued = "discontinued"
)

// Date is a calendar date that marshals as "YYYY-MM-DD", matching the DATE
// column it is stored in.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// MarshalJSON formats the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	d.Time = t
	return nil
}

// Product represents a product record with fixed schema, decoded from query
// results via explicit field binding.
type Product struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	EntryDate     Date   `json:"entry_date"`
	MinStockLevel int    `json:"min_stock_level"`
	SupplierID    int    `json:"supplier_id"`
	TaxID         int    `json:"tax_id"`
}
