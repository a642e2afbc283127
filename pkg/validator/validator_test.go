package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eboutique-api/internal/domain"
)

type muestra struct {
	Email string `validate:"required,email"`
	CP    string `validate:"len=5,numeric"`
	Ref   string `validate:"omitempty,uuid_str"`
}

func TestValidateStruct_CamposInvalidos(t *testing.T) {
	errs := ValidateStruct(muestra{Email: "no-es-email", CP: "123", Ref: "x"})
	require.Len(t, errs, 3)
	assert.Equal(t, "Email", errs[0].FailedField)
	assert.Equal(t, "email", errs[0].Tag)
	assert.Equal(t, "CP", errs[1].FailedField)
	assert.Equal(t, "uuid_str", errs[2].Tag)
}

func TestValidate_DevuelveErrInvalidInput(t *testing.T) {
	err := Validate(muestra{Email: "a@b.co", CP: "75001", Ref: "7f1f3c7e-6d7b-4a8a-9d55-2e9b0f6a1c11"})
	assert.NoError(t, err)

	err = Validate(muestra{CP: "75001"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Email", verrs[0].Field)
}
