package usecase

import (
	"context"

	"github.com/jhoicas/eboutique-api/internal/application/archive"
	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/ports"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	txRunner ports.TxRunner
	repo     repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(txRunner ports.TxRunner, repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{txRunner: txRunner, repo: repo}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return EntityToUserResponse(user), nil
}

// Delete archiva el usuario y lo elimina. Sus boutiques quedan sin responsable
// y deja de figurar como gestionario.
func (uc *UserUseCase) Delete(ctx context.Context, id, actorID, reason string) (*dto.ArchiveEntryResponse, error) {
	if id == actorID {
		return nil, domain.Invalid("id", "un usuario no puede eliminarse a sí mismo")
	}
	if reason == "" {
		reason = "usuario eliminado"
	}
	var entry *entity.ArchiveEntry
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		user, err := repos.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		entry, err = archive.ArchiveAndDelete(ctx, repos.Archive, entity.ArchiveKindUser, user.ID, user, archive.UserSnapshot, actorID, reason, repos.Users.Delete)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := archive.ToResponse(entry)
	return &resp, nil
}

// EntityToUserResponse mapea un usuario a su DTO (sin hash).
func EntityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
