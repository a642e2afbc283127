package entity

import "time"

// Tipos de alerta de stock.
const (
	AlertTypeLow = "LOW"
	AlertTypeOut = "OUT"
)

// StockAlert alerta generada cuando una mutación deja la cantidad bajo el umbral.
type StockAlert struct {
	ID        string
	ShopID    string
	ProductID string
	Type      string
	Quantity  int
	Threshold int
	Read      bool
	CreatedAt time.Time
}
