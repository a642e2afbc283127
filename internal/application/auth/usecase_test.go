package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/infrastructure/memory"
	"github.com/jhoicas/eboutique-api/pkg/jwt"
)

func TestRegisterLogin(t *testing.T) {
	store := memory.NewStore()
	uc := NewAuthUseCase(store.Repos().Users, JWTConfig{Secret: "s3cret", ExpMinutes: 5, Issuer: "test"})
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Ana@Example.com", Password: "password123", Role: entity.RoleResponsible})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, entity.RoleResponsible, u.Role)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse("s3cret", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, entity.RoleResponsible, role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_RolPorDefectoYValidacion(t *testing.T) {
	uc := NewAuthUseCase(memory.NewStore().Repos().Users, JWTConfig{Secret: "s"})

	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "m@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, u.Role)

	_, err = uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "x@example.com", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "y@example.com", Password: "password123", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
