package dto

import "time"

// QuantityRequest body de venta, reposición y fijación de cantidad.
// Puntero para distinguir un campo ausente de un 0 explícito.
type QuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CreateStockRequest body para el stock inicial de un producto en una boutique.
type CreateStockRequest struct {
	Quantity       int  `json:"quantity" validate:"min=0"`
	AlertThreshold *int `json:"alert_threshold" validate:"omitempty,min=0"`
}

// StockEntryResponse salida de un StockEntry.
type StockEntryResponse struct {
	ID             string    `json:"id"`
	ShopID         string    `json:"shop_id"`
	ShopName       string    `json:"shop_name,omitempty"`
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name,omitempty"`
	Quantity       int       `json:"quantity"`
	AlertThreshold int       `json:"alert_threshold"`
	Status         string    `json:"status"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SetQuantityResponse resultado de PUT stock: la fila, o el producto archivado si la cantidad llegó a <= 0.
type SetQuantityResponse struct {
	Entry    *StockEntryResponse      `json:"entry,omitempty"`
	Archived *ArchivedProductResponse `json:"archived_product,omitempty"`
}

// LowStockPage página de stock bajo; Next vacío indica fin del listado.
type LowStockPage struct {
	Threshold int                  `json:"threshold"`
	Items     []StockEntryResponse `json:"items"`
	Next      string               `json:"next,omitempty"`
}

// StockAlertResponse salida de una alerta de stock.
type StockAlertResponse struct {
	ID        string    `json:"id"`
	ShopID    string    `json:"shop_id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Threshold int       `json:"threshold"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
