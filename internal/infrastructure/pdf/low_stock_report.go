// Package pdf genera el reporte imprimible de stock bajo con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + umbral     │  fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Boutique | Producto | Cantidad | Umbral | Estado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: filas / en ruptura                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/eboutique-api/internal/application/ports"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

var _ ports.LowStockReporter = (*LowStockReporter)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// LowStockReporter implementa ports.LowStockReporter usando Maroto v2.
type LowStockReporter struct {
	now func() time.Time
}

// NewLowStockReporter construye el generador.
func NewLowStockReporter() *LowStockReporter {
	return &LowStockReporter{now: time.Now}
}

// GenerateLowStockReport genera el PDF y devuelve sus bytes.
func (g *LowStockReporter) GenerateLowStockReport(_ context.Context, threshold int, entries []*entity.StockEntryView) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock bajo", true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(threshold, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(entries) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin productos bajo el umbral.", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	} else {
		m.AddRows(tableHeaderRow())
		m.AddRows(tableRows(entries)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(entries))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(threshold int, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("STOCK BAJO", props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Cantidad menor que "+strconv.Itoa(threshold), props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 3, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Boutique", 4, align.Left),
		h("Producto", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("Umbral", 1, align.Center),
		h("Estado", 2, align.Center),
	)
}

func tableRows(entries []*entity.StockEntryView) []core.Row {
	out := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		status := e.Status()
		statusProps := props.Text{Size: 8, Align: align.Center, Top: 1}
		if status == entity.StockStatusOut {
			statusProps.Style = fontstyle.Bold
			statusProps.Color = colorAlert
		}
		out = append(out, row.New(7).Add(
			col.New(4).Add(text.New(nonEmpty(e.ShopName, e.ShopID), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(nonEmpty(e.ProductName, e.ProductID), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.Itoa(e.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(strconv.Itoa(e.AlertThreshold), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(status, statusProps)),
		))
	}
	return out
}

func summaryRow(entries []*entity.StockEntryView) core.Row {
	out := 0
	for _, e := range entries {
		if e.Quantity <= 0 {
			out++
		}
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Filas: %d   |   En ruptura: %d", len(entries), out),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1}),
	))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
