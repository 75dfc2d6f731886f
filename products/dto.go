package products

// ProductRequest is the payload for creating or fully updating a product.
// The entry date is validated separately because the validator does not see
// inside the Date wrapper: it must be present and must not be in the future.
type ProductRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=255"`
	Description   string `json:"description" validate:"max=1000"`
	Status        string `json:"status" validate:"required"`
	EntryDate     Date   `json:"entry_date"`
	MinStockLevel int    `json:"min_stock_level" validate:"required,gt=0"`
	SupplierID    int    `json:"supplier_id" validate:"required,gt=0"`
	TaxID         int    `json:"tax_id" validate:"required,gt=0"`
}

// ListParams carries the pagination, filter, and search parameters of a
// product listing.
type ListParams struct {
	Skip       int
	Limit      int
	Status     string
	SupplierID int
	Search     string
}

// DeleteResponse is the body returned after a successful deletion.
type DeleteResponse struct {
	Message string `json:"message"`
}
