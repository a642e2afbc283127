package stock

import (
	"github.com/jhoicas/eboutique-api/internal/application/archive"
	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

// ToEntryResponse mapea un StockEntry a su DTO.
func ToEntryResponse(e *entity.StockEntry) dto.StockEntryResponse {
	return dto.StockEntryResponse{
		ID:             e.ID,
		ShopID:         e.ShopID,
		ProductID:      e.ProductID,
		Quantity:       e.Quantity,
		AlertThreshold: e.AlertThreshold,
		Status:         e.Status(),
		UpdatedAt:      e.UpdatedAt,
	}
}

// ToViewResponse mapea un StockEntryView (con nombres) a su DTO.
func ToViewResponse(v *entity.StockEntryView) dto.StockEntryResponse {
	out := ToEntryResponse(&v.StockEntry)
	out.ShopName = v.ShopName
	out.ProductName = v.ProductName
	return out
}

// ToSetQuantityResponse mapea el resultado de SetQuantity.
func ToSetQuantityResponse(r *SetResult) dto.SetQuantityResponse {
	var out dto.SetQuantityResponse
	if r.Entry != nil {
		e := ToEntryResponse(r.Entry)
		out.Entry = &e
	}
	out.Archived = archive.ToArchivedProductResponse(r.Archived)
	return out
}

// ToLowStockPage mapea una página de stock bajo.
func ToLowStockPage(p *LowStockPage) dto.LowStockPage {
	items := make([]dto.StockEntryResponse, 0, len(p.Items))
	for _, v := range p.Items {
		items = append(items, ToViewResponse(v))
	}
	return dto.LowStockPage{Threshold: p.Threshold, Items: items, Next: p.Next}
}

// ToAlertResponse mapea una alerta.
func ToAlertResponse(a *entity.StockAlert) dto.StockAlertResponse {
	return dto.StockAlertResponse{
		ID:        a.ID,
		ShopID:    a.ShopID,
		ProductID: a.ProductID,
		Type:      a.Type,
		Quantity:  a.Quantity,
		Threshold: a.Threshold,
		Read:      a.Read,
		CreatedAt: a.CreatedAt,
	}
}
