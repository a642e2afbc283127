package http

import (
	"io"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/importer"
	"github.com/jhoicas/eboutique-api/internal/domain"
)

// ImportHandler importación masiva CSV (superusuario).
type ImportHandler struct {
	imp *importer.Importer
}

// NewImportHandler construye el handler.
func NewImportHandler(imp *importer.Importer) *ImportHandler {
	return &ImportHandler{imp: imp}
}

// Shops godoc
// @Summary      Importar boutiques desde CSV
// @Description  Todas las filas se validan antes de escribir. Con un error no se escribe nada
// @Description  y la respuesta lista los problemas por línea.
// @Tags         import
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "CSV con cabecera"
// @Param        charset    query     string  false  "utf-8 (default) o iso-8859-1"
// @Param        delimiter  query     string  false  "Separador (default ,)"
// @Success      201  {object}  dto.ImportReport
// @Failure      400  {object}  dto.ImportReport
// @Router       /api/import/shops [post]
func (h *ImportHandler) Shops(c *fiber.Ctx) error {
	return h.run(c, func(c *fiber.Ctx, f io.Reader, opts importer.Options) (*dto.ImportReport, error) {
		return h.imp.ImportShops(c.UserContext(), f, opts)
	})
}

// Products godoc
// @Summary      Importar productos con stock inicial desde CSV
// @Tags         import
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "CSV con cabecera"
// @Param        charset    query     string  false  "utf-8 (default) o iso-8859-1"
// @Param        delimiter  query     string  false  "Separador (default ,)"
// @Success      201  {object}  dto.ImportReport
// @Failure      400  {object}  dto.ImportReport
// @Router       /api/import/products [post]
func (h *ImportHandler) Products(c *fiber.Ctx) error {
	return h.run(c, func(c *fiber.Ctx, f io.Reader, opts importer.Options) (*dto.ImportReport, error) {
		return h.imp.ImportProducts(c.UserContext(), f, GetUserID(c), opts)
	})
}

func (h *ImportHandler) run(c *fiber.Ctx, fn func(*fiber.Ctx, io.Reader, importer.Options) (*dto.ImportReport, error)) error {
	opts, err := importOptions(c)
	if err != nil {
		return writeError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, domain.Invalid("file", "archivo CSV requerido"))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	report, err := fn(c, f, opts)
	if report != nil && len(report.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(report)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func importOptions(c *fiber.Ctx) (importer.Options, error) {
	opts := importer.Options{Charset: c.Query("charset")}
	if d := c.Query("delimiter"); d != "" {
		if d == `\t` || d == "tab" {
			d = "\t"
		}
		r, size := utf8.DecodeRuneInString(d)
		if size != len(d) {
			return opts, domain.Invalid("delimiter", "debe ser un solo carácter")
		}
		opts.Delimiter = r
	}
	return opts, nil
}
