package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/stock"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/pkg/validator"
)

// StockHandler operaciones sobre el stock por (boutique, producto) y sus alertas.
// La autorización por boutique la hace RequireShopAction en el router.
type StockHandler struct {
	ledger *stock.Ledger
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.Ledger) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// ListLowStock godoc
// @Summary      Stock bajo
// @Description  Filas con cantidad < quantity_lt, paginadas por cursor (boutique, producto).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        quantity_lt  query  int     false  "Umbral (default STOCK_ALERT_THRESHOLD)"
// @Param        after        query  string  false  "Cursor next de la página anterior"
// @Param        limit        query  int     false  "Tamaño de página (default 50, máx 500)"
// @Success      200  {object}  dto.LowStockPage
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) ListLowStock(c *fiber.Ctx) error {
	threshold, err := h.threshold(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.ledger.ListLowStock(c.UserContext(), threshold, c.Query("after"), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stock.ToLowStockPage(page))
}

// LowStockReport godoc
// @Summary      Reporte PDF de stock bajo
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        quantity_lt  query  int  false  "Umbral (default STOCK_ALERT_THRESHOLD)"
// @Success      200  {file}    binary
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/report.pdf [get]
func (h *StockHandler) LowStockReport(c *fiber.Ctx) error {
	threshold, err := h.threshold(c)
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.ledger.LowStockReport(c.UserContext(), threshold)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="stock-bajo.pdf"`)
	return c.Send(pdf)
}

// Get godoc
// @Summary      Stock de un producto en una boutique
// @Tags         stock
// @Produce      json
// @Param        shop     path  string  true  "ID de la boutique"
// @Param        product  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{shop}/{product} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	entry, err := h.ledger.Get(c.UserContext(), c.Params("shop"), c.Params("product"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stock.ToEntryResponse(entry))
}

// ListByShop godoc
// @Summary      Stock de una boutique
// @Tags         stock
// @Produce      json
// @Param        id   path  string  true  "ID de la boutique"
// @Success      200  {array}   dto.StockEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shops/{id}/stock [get]
func (h *StockHandler) ListByShop(c *fiber.Ctx) error {
	rows, err := h.ledger.ListByShop(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockEntryResponse, 0, len(rows))
	for _, v := range rows {
		out = append(out, stock.ToViewResponse(v))
	}
	return c.JSON(out)
}

// Sell godoc
// @Summary      Registrar venta
// @Description  Resta quantity y registra el historial de venta. 400 si no hay stock suficiente.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        shop     path  string               true  "ID de la boutique"
// @Param        product  path  string               true  "ID del producto"
// @Param        body     body  dto.QuantityRequest  true  "Unidades vendidas"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{shop}/{product}/sell [post]
func (h *StockHandler) Sell(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validator.Validate(in); err != nil {
		return writeError(c, err)
	}
	entry, err := h.ledger.Sell(c.UserContext(), c.Params("shop"), c.Params("product"), *in.Quantity, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stock.ToEntryResponse(entry))
}

// Restock godoc
// @Summary      Reponer stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        shop     path  string               true  "ID de la boutique"
// @Param        product  path  string               true  "ID del producto"
// @Param        body     body  dto.QuantityRequest  true  "Unidades repuestas"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{shop}/{product}/restock [post]
func (h *StockHandler) Restock(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validator.Validate(in); err != nil {
		return writeError(c, err)
	}
	entry, err := h.ledger.Restock(c.UserContext(), c.Params("shop"), c.Params("product"), *in.Quantity, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stock.ToEntryResponse(entry))
}

// SetQuantity godoc
// @Summary      Fijar cantidad
// @Description  Upsert idempotente. Con cantidad <= 0 el producto se archiva y se elimina.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        shop     path  string               true  "ID de la boutique"
// @Param        product  path  string               true  "ID del producto"
// @Param        body     body  dto.QuantityRequest  true  "Cantidad"
// @Success      200  {object}  dto.SetQuantityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{shop}/{product} [put]
func (h *StockHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validator.Validate(in); err != nil {
		return writeError(c, err)
	}
	res, err := h.ledger.SetQuantity(c.UserContext(), c.Params("shop"), c.Params("product"), *in.Quantity, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stock.ToSetQuantityResponse(res))
}

// Create godoc
// @Summary      Crear stock inicial
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        shop     path  string                  true  "ID de la boutique"
// @Param        product  path  string                  true  "ID del producto"
// @Param        body     body  dto.CreateStockRequest  true  "Cantidad y umbral"
// @Success      201  {object}  dto.StockEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/{shop}/{product} [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entry, err := h.ledger.CreateInitialStock(c.UserContext(), c.Params("shop"), c.Params("product"), in.Quantity, in.AlertThreshold)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stock.ToEntryResponse(entry))
}

// ListAlerts godoc
// @Summary      Alertas de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        unread  query  bool  false  "Solo no leídas"
// @Param        limit   query  int   false  "Límite"
// @Param        offset  query  int   false  "Offset"
// @Success      200  {array}  dto.StockAlertResponse
// @Router       /api/stock/alerts [get]
func (h *StockHandler) ListAlerts(c *fiber.Ctx) error {
	alerts, err := h.ledger.ListAlerts(c.UserContext(), c.QueryBool("unread", false), c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockAlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, stock.ToAlertResponse(a))
	}
	return c.JSON(out)
}

// MarkAlertRead godoc
// @Summary      Marcar alerta como leída
// @Tags         stock
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/alerts/{id}/read [post]
func (h *StockHandler) MarkAlertRead(c *fiber.Ctx) error {
	if err := h.ledger.MarkAlertRead(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// threshold lee quantity_lt; ausente usa el umbral configurado.
func (h *StockHandler) threshold(c *fiber.Ctx) (int, error) {
	raw := c.Query("quantity_lt")
	if raw == "" {
		return h.ledger.DefaultThreshold(), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid("quantity_lt", "debe ser un entero")
	}
	return n, nil
}
