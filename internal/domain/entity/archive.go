package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ArchiveKind tipo de entrada del registro de archivo.
type ArchiveKind string

// Tipos de archivo.
const (
	ArchiveKindProduct ArchiveKind = "PRODUCT"
	ArchiveKindShop    ArchiveKind = "SHOP"
	ArchiveKindUser    ArchiveKind = "USER"
	ArchiveKindSale    ArchiveKind = "SALE"
)

// Valid indica si el tipo es conocido.
func (k ArchiveKind) Valid() bool {
	switch k {
	case ArchiveKindProduct, ArchiveKindShop, ArchiveKindUser, ArchiveKindSale:
		return true
	}
	return false
}

// ArchiveEntry fila inmutable del registro de archivo. Snapshot guarda el JSON del estado archivado.
type ArchiveEntry struct {
	ID         string
	Kind       ArchiveKind
	OriginalID string
	Snapshot   json.RawMessage
	ActorID    string
	Reason     string
	ArchivedAt time.Time
}

// ArchivedProduct snapshot de un producto eliminado. Marca y modelo van como texto
// para sobrevivir a la eliminación del modelo o la marca.
type ArchivedProduct struct {
	OriginalID string          `json:"original_id"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	Model      string          `json:"model"`
	Price      decimal.Decimal `json:"price"`
	Color      string          `json:"color"`
	Capacity   decimal.Decimal `json:"capacity"`
	RAM        int             `json:"ram"`
	OwnerID    string          `json:"owner_id,omitempty"`
	ImageRef   string          `json:"image_ref,omitempty"`
	ArchivedBy string          `json:"archived_by"`
	Reason     string          `json:"reason"`
	ArchivedAt time.Time       `json:"archived_at"`
}

// ArchivedShop snapshot de una boutique eliminada.
type ArchivedShop struct {
	OriginalID    string   `json:"original_id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	PostalCode    string   `json:"postal_code"`
	Department    string   `json:"department,omitempty"`
	Lat           *float64 `json:"lat,omitempty"`
	Lon           *float64 `json:"lon,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Email         string   `json:"email,omitempty"`
	ResponsibleID string   `json:"responsible_id,omitempty"`
	ManagerIDs    []string `json:"manager_ids,omitempty"`
}

// ArchivedUser snapshot de un usuario eliminado (sin hash de contraseña).
type ArchivedUser struct {
	OriginalID string `json:"original_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

// SaleHistory snapshot de una venta con los atributos del producto al momento de vender.
type SaleHistory struct {
	ShopID       string          `json:"shop_id"`
	ShopName     string          `json:"shop_name"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Color        string          `json:"color"`
	Capacity     decimal.Decimal `json:"capacity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	QuantitySold int             `json:"quantity_sold"`
	Total        decimal.Decimal `json:"total"`
	SellerID     string          `json:"seller_id"`
	SoldAt       time.Time       `json:"sold_at"`
}
