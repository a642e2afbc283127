package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eboutique-api/internal/application/archive"
	"github.com/jhoicas/eboutique-api/internal/application/deletion"
	"github.com/jhoicas/eboutique-api/internal/application/dto"
)

// DeletionHandler decisiones sobre solicitudes de eliminación.
// Solo el responsable asignado puede decidir; lo verifica el flujo.
type DeletionHandler struct {
	wf *deletion.Workflow
}

// NewDeletionHandler construye el handler.
func NewDeletionHandler(wf *deletion.Workflow) *DeletionHandler {
	return &DeletionHandler{wf: wf}
}

// Approve godoc
// @Summary      Aprobar solicitud de eliminación
// @Description  Archiva el producto y lo elimina con todo su stock. Las demás solicitudes pendientes del producto se cierran.
// @Tags         deletion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "ID de la solicitud"
// @Param        body  body  dto.DecisionRequest  false  "comentario"
// @Success      200   {object}  dto.DeletionDecisionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deletion-requests/{id}/approve [post]
func (h *DeletionHandler) Approve(c *fiber.Ctx) error {
	in, ok := decisionBody(c)
	if !ok {
		return badBody(c)
	}
	req, retired, err := h.wf.Approve(c.UserContext(), c.Params("id"), GetUserID(c), in.Comment)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeletionDecisionResponse{
		Request:  deletion.ToResponse(req),
		Archived: archive.ToArchivedProductResponse(retired),
	})
}

// Cancel godoc
// @Summary      Rechazar solicitud de eliminación
// @Tags         deletion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "ID de la solicitud"
// @Param        body  body  dto.DecisionRequest  false  "comentario"
// @Success      200   {object}  dto.DeletionRequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deletion-requests/{id}/cancel [post]
func (h *DeletionHandler) Cancel(c *fiber.Ctx) error {
	in, ok := decisionBody(c)
	if !ok {
		return badBody(c)
	}
	req, err := h.wf.Cancel(c.UserContext(), c.Params("id"), GetUserID(c), in.Comment)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(deletion.ToResponse(req))
}

// Get godoc
// @Summary      Obtener solicitud de eliminación
// @Tags         deletion
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.DeletionRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deletion-requests/{id} [get]
func (h *DeletionHandler) Get(c *fiber.Ctx) error {
	req, err := h.wf.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(deletion.ToResponse(req))
}

// ListPending godoc
// @Summary      Solicitudes pendientes del usuario autenticado
// @Tags         deletion
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DeletionRequestResponse
// @Router       /api/deletion-requests/pending [get]
func (h *DeletionHandler) ListPending(c *fiber.Ctx) error {
	list, err := h.wf.ListPending(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(deletion.ToResponses(list))
}

func decisionBody(c *fiber.Ctx) (dto.DecisionRequest, bool) {
	var in dto.DecisionRequest
	if len(c.Body()) == 0 {
		return in, true
	}
	return in, c.BodyParser(&in) == nil
}
