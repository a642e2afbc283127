package dto

import "github.com/jhoicas/eboutique-api/internal/domain"

// ImportReport resultado de una importación masiva. Si Errors no está vacío no se escribió nada.
type ImportReport struct {
	Rows    int                 `json:"rows"`
	Created int                 `json:"created"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}
