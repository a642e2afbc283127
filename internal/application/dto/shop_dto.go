package dto

import "time"

// CreateShopRequest entrada para crear una boutique. Sin lat/lon se geocodifica la dirección.
type CreateShopRequest struct {
	Name          string   `json:"name" validate:"required,min=1,max=100"`
	Address       string   `json:"address" validate:"required"`
	City          string   `json:"city" validate:"required,max=50"`
	PostalCode    string   `json:"postal_code" validate:"required,len=5,numeric"`
	Department    string   `json:"department" validate:"max=50"`
	Lat           *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon           *float64 `json:"lon" validate:"omitempty,longitude"`
	Phone         string   `json:"phone" validate:"max=20"`
	Email         string   `json:"email" validate:"omitempty,email"`
	ResponsibleID string   `json:"responsible_id"`
	ManagerIDs    []string `json:"manager_ids"`
}

// UpdateShopRequest entrada para actualizar una boutique.
type UpdateShopRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Address    *string  `json:"address"`
	City       *string  `json:"city" validate:"omitempty,max=50"`
	PostalCode *string  `json:"postal_code" validate:"omitempty,len=5,numeric"`
	Department *string  `json:"department" validate:"omitempty,max=50"`
	Lat        *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon        *float64 `json:"lon" validate:"omitempty,longitude"`
	Phone      *string  `json:"phone" validate:"omitempty,max=20"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	Active     *bool    `json:"active"`
}

// AssignResponsibleRequest body para asignar el responsable de una boutique.
type AssignResponsibleRequest struct {
	UserID string `json:"user_id"`
}

// SetManagersRequest body para reemplazar el conjunto de gestionarios.
type SetManagersRequest struct {
	UserIDs []string `json:"user_ids"`
}

// DeleteShopRequest motivo de la eliminación (queda en el archivo).
type DeleteShopRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ShopResponse salida de una boutique.
type ShopResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	PostalCode    string    `json:"postal_code"`
	Department    string    `json:"department,omitempty"`
	Lat           *float64  `json:"lat,omitempty"`
	Lon           *float64  `json:"lon,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	ResponsibleID string    `json:"responsible_id,omitempty"`
	ManagerIDs    []string  `json:"manager_ids"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ShopListResponse lista paginada de boutiques.
type ShopListResponse struct {
	Items []ShopResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
