package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jhoicas/eboutique-api/internal/domain"
)

// ErrorResponse detalle de un campo que no pasó la validación.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("uuid_str", func(fl validator.FieldLevel) bool {
		_, err := uuid.Parse(fl.Field().String())
		return err == nil
	})
}

// ValidateStruct valida los tags `validate` del struct.
func ValidateStruct(data interface{}) []*ErrorResponse {
	var out []*ErrorResponse
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
	}
	for _, fe := range verrs {
		out = append(out, &ErrorResponse{
			FailedField: fe.Field(),
			Tag:         fe.Tag(),
			Value:       fe.Param(),
		})
	}
	return out
}

// Validate igual que ValidateStruct pero devuelve domain.ValidationErrors (nil si es válido).
func Validate(data interface{}) error {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	out := make(domain.ValidationErrors, 0, len(errs))
	for _, e := range errs {
		msg := "no cumple " + e.Tag
		if e.Value != "" {
			msg += "=" + e.Value
		}
		out = append(out, domain.FieldError{Field: e.FailedField, Message: msg})
	}
	return out
}
