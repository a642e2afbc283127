package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "eclair", Fold("Éclair"))
	assert.Equal(t, "telefono movil", Fold("Teléfono MÓVIL"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Galaxy S21", "galaxy"))
	assert.True(t, ContainsFold("Téléphone", "telephone"))
	assert.True(t, ContainsFold("iPhone 13", ""))
	assert.False(t, ContainsFold("iPhone 13", "pixel"))
}
