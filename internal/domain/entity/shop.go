package entity

import (
	"time"

	"github.com/jhoicas/eboutique-api/pkg/geo"
)

// Shop boutique física con su propio stock.
// ResponsibleID vacío significa sin responsable asignado.
type Shop struct {
	ID            string
	Name          string
	Address       string
	City          string
	PostalCode    string
	Department    string
	Location      *geo.Point
	Phone         string
	Email         string
	ResponsibleID string
	ManagerIDs    []string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ShopDistance boutique con su distancia (metros) a un punto de búsqueda.
type ShopDistance struct {
	Shop     *Shop
	Distance float64
}
