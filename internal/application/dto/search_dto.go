package dto

import "github.com/shopspring/decimal"

// NearbyResultDTO fila del resultado de búsqueda por proximidad.
type NearbyResultDTO struct {
	ShopID         string          `json:"shop_id"`
	ShopName       string          `json:"shop"`
	City           string          `json:"city"`
	Address        string          `json:"address"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product"`
	Brand          string          `json:"brand"`
	Model          string          `json:"model"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	DistanceMeters float64         `json:"distance_m"`
	DistanceKm     float64         `json:"distance_km"`
}

// NearbyByAddressResponse resultado de la búsqueda por dirección con el punto geocodificado.
type NearbyByAddressResponse struct {
	Lat     float64           `json:"lat"`
	Lon     float64           `json:"lon"`
	Results []NearbyResultDTO `json:"results"`
}
