package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBrandRequest entrada para crear o renombrar una marca.
type CreateBrandRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

// BrandResponse salida de una marca.
type BrandResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateModelRequest entrada para crear un modelo.
type CreateModelRequest struct {
	BrandID string `json:"brand_id" validate:"required"`
	Name    string `json:"name" validate:"required,min=1,max=50"`
}

// ModelResponse salida de un modelo.
type ModelResponse struct {
	ID        string    `json:"id"`
	BrandID   string    `json:"brand_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest entrada para crear un producto con su stock inicial en una boutique.
type CreateProductRequest struct {
	ModelID         string          `json:"model_id" validate:"required"`
	Name            string          `json:"name" validate:"required,min=1,max=100"`
	Price           decimal.Decimal `json:"price"`
	Color           string          `json:"color" validate:"max=50"`
	Capacity        decimal.Decimal `json:"capacity"`
	RAM             int             `json:"ram" validate:"min=0"`
	ImageRef        string          `json:"image_ref" validate:"max=255"`
	ShopID          string          `json:"shop_id" validate:"required"`
	InitialQuantity int             `json:"initial_quantity" validate:"min=1"`
	AlertThreshold  *int            `json:"alert_threshold" validate:"omitempty,min=0"`
}

// UpdateProductRequest entrada para actualizar atributos de un producto (el stock va por el ledger).
type UpdateProductRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Price    *decimal.Decimal `json:"price"`
	Color    *string          `json:"color" validate:"omitempty,max=50"`
	Capacity *decimal.Decimal `json:"capacity"`
	RAM      *int             `json:"ram" validate:"omitempty,min=0"`
	ImageRef *string          `json:"image_ref" validate:"omitempty,max=255"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	ModelID     string          `json:"model_id"`
	ModelName   string          `json:"model_name"`
	BrandID     string          `json:"brand_id"`
	BrandName   string          `json:"brand_name"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Color       string          `json:"color"`
	Capacity    decimal.Decimal `json:"capacity"`
	RAM         int             `json:"ram"`
	OwnerUserID string          `json:"owner_user_id,omitempty"`
	ImageRef    string          `json:"image_ref,omitempty"`
	Approved    bool            `json:"approved"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
