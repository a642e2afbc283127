package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/eboutique-api/internal/application/archive"
	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/ports"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/policy"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
	"github.com/jhoicas/eboutique-api/pkg/geo"
	"github.com/jhoicas/eboutique-api/pkg/logger"
	"github.com/jhoicas/eboutique-api/pkg/validator"
)

// ShopUseCase registro de boutiques: CRUD, responsable, gestionarios y baja archivada.
type ShopUseCase struct {
	txRunner ports.TxRunner
	repo     repository.ShopRepository
	users    repository.UserRepository
	geocoder ports.Geocoder
	log      *logger.Logger
}

// NewShopUseCase construye el caso de uso. geocoder puede ser nil.
func NewShopUseCase(txRunner ports.TxRunner, repo repository.ShopRepository, users repository.UserRepository, geocoder ports.Geocoder, log *logger.Logger) *ShopUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ShopUseCase{txRunner: txRunner, repo: repo, users: users, geocoder: geocoder, log: log.Component("shops")}
}

// Create crea una boutique. Sin coordenadas, se geocodifica la dirección si hay geocoder.
func (uc *ShopUseCase) Create(ctx context.Context, in dto.CreateShopRequest) (*dto.ShopResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	shop := &entity.Shop{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(in.Name),
		Address:    strings.TrimSpace(in.Address),
		City:       strings.TrimSpace(in.City),
		PostalCode: in.PostalCode,
		Department: in.Department,
		Phone:      in.Phone,
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	loc, err := locationFrom(in.Lat, in.Lon)
	if err != nil {
		return nil, err
	}
	shop.Location = loc
	if shop.Location == nil {
		shop.Location = uc.geocode(ctx, shop)
	}
	if in.ResponsibleID != "" {
		if err := uc.requireUser(ctx, "responsible_id", in.ResponsibleID); err != nil {
			return nil, err
		}
		shop.ResponsibleID = in.ResponsibleID
	}
	managers, err := uc.checkManagers(ctx, in.ManagerIDs)
	if err != nil {
		return nil, err
	}
	shop.ManagerIDs = managers
	if err := uc.repo.Create(ctx, shop); err != nil {
		return nil, err
	}
	uc.log.Info().Str("shop_id", shop.ID).Str("name", shop.Name).Bool("located", shop.Location != nil).Msg("boutique creada")
	return ToShopResponse(shop), nil
}

// GetByID obtiene una boutique.
func (uc *ShopUseCase) GetByID(ctx context.Context, id string) (*dto.ShopResponse, error) {
	shop, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToShopResponse(shop), nil
}

// Scope devuelve responsable y gestionarios de la boutique para autorizar.
func (uc *ShopUseCase) Scope(ctx context.Context, id string) (*policy.ShopScope, error) {
	shop, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return policy.ScopeOf(shop), nil
}

// List lista boutiques con paginación.
func (uc *ShopUseCase) List(ctx context.Context, limit, offset int) (*dto.ShopListResponse, error) {
	limit, offset = normalizePage(limit, offset)
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ShopResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToShopResponse(s))
	}
	return &dto.ShopListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Update actualiza datos de la boutique. Cambiar la dirección sin coordenadas vuelve a geocodificar.
func (uc *ShopUseCase) Update(ctx context.Context, id string, in dto.UpdateShopRequest) (*dto.ShopResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	shop, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	addressChanged := false
	if in.Name != nil {
		shop.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil && *in.Address != shop.Address {
		shop.Address = strings.TrimSpace(*in.Address)
		addressChanged = true
	}
	if in.City != nil && *in.City != shop.City {
		shop.City = strings.TrimSpace(*in.City)
		addressChanged = true
	}
	if in.PostalCode != nil && *in.PostalCode != shop.PostalCode {
		shop.PostalCode = *in.PostalCode
		addressChanged = true
	}
	if in.Department != nil {
		shop.Department = *in.Department
	}
	if in.Phone != nil {
		shop.Phone = *in.Phone
	}
	if in.Email != nil {
		shop.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Active != nil {
		shop.Active = *in.Active
	}
	switch {
	case in.Lat != nil || in.Lon != nil:
		loc, err := locationFrom(in.Lat, in.Lon)
		if err != nil {
			return nil, err
		}
		shop.Location = loc
	case addressChanged:
		if loc := uc.geocode(ctx, shop); loc != nil {
			shop.Location = loc
		}
	}
	shop.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, shop); err != nil {
		return nil, err
	}
	return ToShopResponse(shop), nil
}

// AssignResponsible asigna (o quita, con userID vacío) el responsable.
func (uc *ShopUseCase) AssignResponsible(ctx context.Context, shopID, userID string) (*dto.ShopResponse, error) {
	if _, err := uc.get(ctx, shopID); err != nil {
		return nil, err
	}
	if userID != "" {
		if err := uc.requireUser(ctx, "user_id", userID); err != nil {
			return nil, err
		}
	}
	if err := uc.repo.SetResponsible(ctx, shopID, userID); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, shopID)
}

// SetManagers reemplaza el conjunto de gestionarios.
func (uc *ShopUseCase) SetManagers(ctx context.Context, shopID string, userIDs []string) (*dto.ShopResponse, error) {
	if _, err := uc.get(ctx, shopID); err != nil {
		return nil, err
	}
	managers, err := uc.checkManagers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SetManagers(ctx, shopID, managers); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, shopID)
}

// Delete archiva la boutique y la elimina; sus filas de stock caen en cascada.
func (uc *ShopUseCase) Delete(ctx context.Context, id, actorID, reason string) (*dto.ArchiveEntryResponse, error) {
	if reason == "" {
		reason = "boutique eliminada"
	}
	var entry *entity.ArchiveEntry
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		shop, err := repos.Shops.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if shop == nil {
			return domain.ErrNotFound
		}
		entry, err = archive.ArchiveAndDelete(ctx, repos.Archive, entity.ArchiveKindShop, shop.ID, shop, archive.ShopSnapshot, actorID, reason, repos.Shops.Delete)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("shop_id", id).Str("actor_id", actorID).Msg("boutique archivada y eliminada")
	resp := archive.ToResponse(entry)
	return &resp, nil
}

func (uc *ShopUseCase) get(ctx context.Context, id string) (*entity.Shop, error) {
	shop, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	return shop, nil
}

func (uc *ShopUseCase) requireUser(ctx context.Context, field, id string) error {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.Invalid(field, "usuario inexistente")
	}
	return nil
}

func (uc *ShopUseCase) checkManagers(ctx context.Context, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || slices.Contains(out, id) {
			continue
		}
		if err := uc.requireUser(ctx, "manager_ids", id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (uc *ShopUseCase) geocode(ctx context.Context, shop *entity.Shop) *geo.Point {
	if uc.geocoder == nil || shop.Address == "" {
		return nil
	}
	full := fmt.Sprintf("%s, %s %s", shop.Address, shop.PostalCode, shop.City)
	p, err := uc.geocoder.Geocode(ctx, full)
	if err != nil {
		uc.log.Warn().Err(err).Str("address", full).Msg("no se pudo geocodificar la boutique")
		return nil
	}
	return &p
}

func locationFrom(lat, lon *float64) (*geo.Point, error) {
	if lat == nil && lon == nil {
		return nil, nil
	}
	if lat == nil || lon == nil {
		return nil, domain.Invalid("lat/lon", "se requieren ambas coordenadas")
	}
	p, err := geo.NewPoint(*lat, *lon)
	if err != nil {
		return nil, domain.Invalid("lat/lon", err.Error())
	}
	return &p, nil
}

// ToShopResponse mapea una boutique a su DTO.
func ToShopResponse(s *entity.Shop) *dto.ShopResponse {
	out := &dto.ShopResponse{
		ID:            s.ID,
		Name:          s.Name,
		Address:       s.Address,
		City:          s.City,
		PostalCode:    s.PostalCode,
		Department:    s.Department,
		Phone:         s.Phone,
		Email:         s.Email,
		ResponsibleID: s.ResponsibleID,
		ManagerIDs:    s.ManagerIDs,
		Active:        s.Active,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if out.ManagerIDs == nil {
		out.ManagerIDs = []string{}
	}
	if s.Location != nil {
		lat, lon := s.Location.Lat, s.Location.Lon
		out.Lat, out.Lon = &lat, &lon
	}
	return out
}
