package entity

import "time"

// DefaultAlertThreshold umbral de alerta por defecto de un StockEntry.
const DefaultAlertThreshold = 5

// StockEntry cantidad de un producto en una boutique. Único por (ShopID, ProductID).
type StockEntry struct {
	ID             string
	ShopID         string
	ProductID      string
	Quantity       int
	AlertThreshold int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Status estado legible del stock: RUPTURA, BAJO u OK.
func (e *StockEntry) Status() string {
	switch {
	case e.Quantity <= 0:
		return StockStatusOut
	case e.Quantity < e.AlertThreshold:
		return StockStatusLow
	default:
		return StockStatusOK
	}
}

// Estados de stock.
const (
	StockStatusOut = "RUPTURA"
	StockStatusLow = "BAJO"
	StockStatusOK  = "OK"
)

// StockEntryView StockEntry con nombres de boutique y producto (listados y reportes).
type StockEntryView struct {
	StockEntry
	ShopName    string
	ProductName string
}

// StockCursor posición de reanudación para listados paginados por (boutique, producto).
type StockCursor struct {
	ShopID    string
	ProductID string
}
