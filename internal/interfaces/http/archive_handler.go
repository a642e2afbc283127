package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eboutique-api/internal/application/archive"
)

// ArchiveHandler consulta del registro de archivo.
type ArchiveHandler struct {
	uc *archive.UseCase
}

// NewArchiveHandler construye el handler.
func NewArchiveHandler(uc *archive.UseCase) *ArchiveHandler {
	return &ArchiveHandler{uc: uc}
}

// List godoc
// @Summary      Listar archivo
// @Tags         archives
// @Security     Bearer
// @Produce      json
// @Param        kind    query  string  true   "PRODUCT, SHOP, USER o SALE"
// @Param        limit   query  int     false  "Límite (default 20)"
// @Param        offset  query  int     false  "Offset"
// @Success      200     {array}   dto.ArchiveEntryResponse
// @Failure      400     {object}  dto.ValidationErrorResponse
// @Router       /api/archives [get]
func (h *ArchiveHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("kind"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener entrada del archivo
// @Tags         archives
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.ArchiveEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/archives/{id} [get]
func (h *ArchiveHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
