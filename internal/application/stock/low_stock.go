package stock

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// LowStockPage página de filas con cantidad < Threshold. Next vacío = no hay más.
type LowStockPage struct {
	Threshold int
	Items     []*entity.StockEntryView
	Next      string
}

// ListLowStock lista las filas con cantidad < threshold ordenadas por (boutique, producto).
// after es el cursor Next de una página anterior ("" para empezar).
func (l *Ledger) ListLowStock(ctx context.Context, threshold int, after string, limit int) (*LowStockPage, error) {
	if threshold < 0 {
		return nil, domain.Invalid("quantity_lt", "no puede ser negativo")
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	cursor, err := DecodeCursor(after)
	if err != nil {
		return nil, err
	}
	// se pide una fila extra para saber si hay página siguiente
	rows, err := l.stockRepo.ListLowStock(ctx, threshold, cursor, limit+1)
	if err != nil {
		return nil, err
	}
	page := &LowStockPage{Threshold: threshold, Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		last := page.Items[limit-1]
		page.Next = EncodeCursor(entity.StockCursor{ShopID: last.ShopID, ProductID: last.ProductID})
	}
	return page, nil
}

// EncodeCursor serializa la posición de reanudación.
func EncodeCursor(c entity.StockCursor) string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.ShopID + "|" + c.ProductID))
}

// DecodeCursor interpreta un cursor de EncodeCursor. "" devuelve nil.
func DecodeCursor(s string) (*entity.StockCursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, domain.Invalid("after", "cursor inválido")
	}
	shopID, productID, ok := strings.Cut(string(raw), "|")
	if !ok || shopID == "" || productID == "" {
		return nil, domain.Invalid("after", "cursor inválido")
	}
	return &entity.StockCursor{ShopID: shopID, ProductID: productID}, nil
}

// ErrReportUnavailable no hay generador de reportes configurado.
var ErrReportUnavailable = errors.New("reporte de stock bajo no disponible")

// LowStockReport genera el PDF con todas las filas bajo el umbral.
func (l *Ledger) LowStockReport(ctx context.Context, threshold int) ([]byte, error) {
	if l.reporter == nil {
		return nil, ErrReportUnavailable
	}
	var (
		all   []*entity.StockEntryView
		after string
	)
	for {
		page, err := l.ListLowStock(ctx, threshold, after, maxPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if page.Next == "" {
			break
		}
		after = page.Next
	}
	return l.reporter.GenerateLowStockReport(ctx, threshold, all)
}

// ListAlerts lista alertas, más recientes primero.
func (l *Ledger) ListAlerts(ctx context.Context, unreadOnly bool, limit, offset int) ([]*entity.StockAlert, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return l.alertRepo.List(ctx, unreadOnly, limit, offset)
}

// MarkAlertRead marca una alerta como leída.
func (l *Ledger) MarkAlertRead(ctx context.Context, id string) error {
	ok, err := l.alertRepo.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
