package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autenticado")
	ErrNotAuthorized      = errors.New("acción no autorizada")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrAlreadyPending     = errors.New("ya existe una solicitud de eliminación pendiente")
	ErrNotPending         = errors.New("la solicitud ya fue decidida")
	ErrNoShopAssociation  = errors.New("el producto no está en stock en ninguna boutique")
	ErrNoResponsibleParty = errors.New("ninguna boutique del producto tiene responsable")
	ErrNoShopsInRadius    = errors.New("ninguna boutique en el radio de búsqueda")
	ErrNoStockInRadius    = errors.New("boutiques en el radio pero sin stock disponible")
	ErrAddressNotFound    = errors.New("dirección inválida o no encontrada")
)

// FieldError describe un problema de validación sobre un campo (y opcionalmente una línea de importación).
type FieldError struct {
	Line    int    `json:"line,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("línea %d, %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors agrupa varios FieldError. errors.Is(err, ErrInvalidInput) es true.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.String())
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationErrors de un solo campo.
func Invalid(field, message string) error {
	return ValidationErrors{{Field: field, Message: message}}
}
