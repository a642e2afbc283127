package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/usecase"
)

// CatalogHandler marcas y modelos.
type CatalogHandler struct {
	uc *usecase.BrandUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.BrandUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateBrand godoc
// @Summary      Crear marca
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBrandRequest  true  "Nombre de la marca"
// @Success      201   {object}  dto.BrandResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/brands [post]
func (h *CatalogHandler) CreateBrand(c *fiber.Ctx) error {
	var in dto.CreateBrandRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBrands godoc
// @Summary      Listar marcas
// @Tags         catalog
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Offset"
// @Success      200     {array}  dto.BrandResponse
// @Router       /api/brands [get]
func (h *CatalogHandler) ListBrands(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetBrand godoc
// @Summary      Obtener marca
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID de la marca"
// @Success      200  {object}  dto.BrandResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/brands/{id} [get]
func (h *CatalogHandler) GetBrand(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RenameBrand godoc
// @Summary      Renombrar marca
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la marca"
// @Param        body  body  dto.CreateBrandRequest  true  "Nuevo nombre"
// @Success      200   {object}  dto.BrandResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/brands/{id} [put]
func (h *CatalogHandler) RenameBrand(c *fiber.Ctx) error {
	var in dto.CreateBrandRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Rename(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteBrand godoc
// @Summary      Eliminar marca
// @Description  Elimina en cascada sus modelos y productos.
// @Tags         catalog
// @Security     Bearer
// @Param        id   path  string  true  "ID de la marca"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/brands/{id} [delete]
func (h *CatalogHandler) DeleteBrand(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateModel godoc
// @Summary      Crear modelo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateModelRequest  true  "Marca y nombre"
// @Success      201   {object}  dto.ModelResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/models [post]
func (h *CatalogHandler) CreateModel(c *fiber.Ctx) error {
	var in dto.CreateModelRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateModel(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListModels godoc
// @Summary      Listar modelos de una marca
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID de la marca"
// @Success      200  {array}  dto.ModelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/brands/{id}/models [get]
func (h *CatalogHandler) ListModels(c *fiber.Ctx) error {
	if _, err := h.uc.GetByID(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListModels(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteModel godoc
// @Summary      Eliminar modelo
// @Tags         catalog
// @Security     Bearer
// @Param        id   path  string  true  "ID del modelo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/models/{id} [delete]
func (h *CatalogHandler) DeleteModel(c *fiber.Ctx) error {
	if err := h.uc.DeleteModel(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
