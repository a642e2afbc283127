package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/search"
	"github.com/jhoicas/eboutique-api/internal/domain"
)

// SearchHandler búsqueda pública de boutiques cercanas con stock.
type SearchHandler struct {
	svc *search.Service
}

// NewSearchHandler construye el handler.
func NewSearchHandler(svc *search.Service) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Nearby godoc
// @Summary      Boutiques cercanas con stock
// @Description  Ordenadas por distancia. 404 NO_SHOPS_IN_RADIUS si no hay boutiques en el radio,
// @Description  404 NO_STOCK_IN_RADIUS si las hay pero ninguna tiene el producto.
// @Tags         search
// @Produce      json
// @Param        lat         query  number  true   "Latitud"
// @Param        lon         query  number  true   "Longitud"
// @Param        radius      query  number  false  "Radio en metros (default 10000)"
// @Param        maxResults  query  int     false  "Máximo de resultados (default 5)"
// @Param        product     query  string  false  "Texto a buscar en el nombre del producto"
// @Success      200  {array}   dto.NearbyResultDTO
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shops/nearby [get]
func (h *SearchHandler) Nearby(c *fiber.Ctx) error {
	q, err := parseSearchQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	lat, err := requiredFloat(c, "lat")
	if err != nil {
		return writeError(c, err)
	}
	lon, err := requiredFloat(c, "lon")
	if err != nil {
		return writeError(c, err)
	}
	q.Lat, q.Lon = lat, lon
	out, err := h.svc.FindNearbyWithStock(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// NearbyByAddress godoc
// @Summary      Boutiques cercanas a una dirección
// @Tags         search
// @Produce      json
// @Param        address     query  string  true   "Dirección postal"
// @Param        radius      query  number  false  "Radio en metros (default 10000)"
// @Param        maxResults  query  int     false  "Máximo de resultados (default 5)"
// @Param        product     query  string  false  "Texto a buscar en el nombre del producto"
// @Success      200  {object}  dto.NearbyByAddressResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shops/nearby/address [get]
func (h *SearchHandler) NearbyByAddress(c *fiber.Ctx) error {
	q, err := parseSearchQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, center, err := h.svc.FindNearbyByAddress(c.UserContext(), c.Query("address"), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NearbyByAddressResponse{Lat: center.Lat, Lon: center.Lon, Results: out})
}

func parseSearchQuery(c *fiber.Ctx) (search.Query, error) {
	q := search.Query{Product: c.Query("product")}
	if raw := c.Query("radius"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, domain.Invalid("radius", "debe ser numérico")
		}
		q.RadiusMeters = r
	}
	if raw := c.Query("maxResults"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, domain.Invalid("maxResults", "debe ser un entero")
		}
		q.MaxResults = n
	}
	return q, nil
}

func requiredFloat(c *fiber.Ctx, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, domain.Invalid(key, "requerido")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.Invalid(key, "debe ser numérico")
	}
	return v, nil
}
