package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Brand marca de productos. El nombre es único y no se renombra si ya tiene modelos.
type Brand struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Model modelo de una marca (se elimina en cascada con la marca).
type Model struct {
	ID        string
	BrandID   string
	Name      string
	CreatedAt time.Time
}

// Product producto del catálogo. Pertenece a un Model; el stock vive en StockEntry por boutique.
// Approved lo marca el responsable de una boutique que lo tiene en stock.
type Product struct {
	ID          string
	ModelID     string
	Name        string
	Price       decimal.Decimal
	Color       string
	Capacity    decimal.Decimal // GB
	RAM         int             // GB
	OwnerUserID string
	ImageRef    string
	Approved    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductDetails producto con los nombres de marca y modelo resueltos (para snapshots y respuestas).
type ProductDetails struct {
	Product
	ModelName string
	BrandID   string
	BrandName string
}
