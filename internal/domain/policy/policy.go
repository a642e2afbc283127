// Package policy implementa la autorización como función pura de
// (principal, acción, boutique) -> permitir/denegar. El principal se construye una
// sola vez por request a partir del rol que lleva el token.
package policy

import (
	"slices"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

// Action acción sujeta a autorización.
type Action string

const (
	ActionRead            Action = "read"
	ActionSell            Action = "stock:sell"
	ActionRestock         Action = "stock:restock"
	ActionSetStock        Action = "stock:set"
	ActionCreateStock     Action = "stock:create"
	ActionManageShop      Action = "shop:manage"
	ActionAdministerShops Action = "shop:administer" // crear/eliminar boutiques, asignar responsables
	ActionManageCatalog   Action = "catalog:manage"
	ActionDeleteCatalog   Action = "catalog:delete" // borra en cascada modelos y productos
	ActionProposeDeletion Action = "deletion:propose"
	ActionDecideDeletion  Action = "deletion:decide"
	ActionImport          Action = "import"
	ActionManageUsers     Action = "users:manage"
	ActionViewReports     Action = "reports:view"
)

// ShopScope datos de la boutique necesarios para decidir. nil = acción sin boutique.
type ShopScope struct {
	ShopID        string
	ResponsibleID string
	ManagerIDs    []string
}

// ScopeOf construye el ShopScope de una boutique.
func ScopeOf(s *entity.Shop) *ShopScope {
	if s == nil {
		return nil
	}
	return &ShopScope{ShopID: s.ID, ResponsibleID: s.ResponsibleID, ManagerIDs: s.ManagerIDs}
}

func (s *ShopScope) isResponsible(userID string) bool {
	return s != nil && userID != "" && s.ResponsibleID == userID
}

func (s *ShopScope) isManager(userID string) bool {
	return s != nil && userID != "" && slices.Contains(s.ManagerIDs, userID)
}

// Principal variante de usuario autenticado (o anónimo).
type Principal interface {
	UserID() string
	Role() string
	Allows(action Action, shop *ShopScope) bool
}

// Anonymous request sin token: solo lectura.
type Anonymous struct{}

func (Anonymous) UserID() string { return "" }
func (Anonymous) Role() string   { return "" }
func (Anonymous) Allows(action Action, _ *ShopScope) bool {
	return action == ActionRead
}

// Superuser acceso total.
type Superuser struct{ ID string }

func (p Superuser) UserID() string               { return p.ID }
func (Superuser) Role() string                   { return entity.RoleSuperuser }
func (Superuser) Allows(Action, *ShopScope) bool { return true }

// Responsible responsable de una o más boutiques.
type Responsible struct{ ID string }

func (p Responsible) UserID() string { return p.ID }
func (Responsible) Role() string     { return entity.RoleResponsible }
func (p Responsible) Allows(action Action, shop *ShopScope) bool {
	switch action {
	case ActionRead, ActionManageCatalog, ActionProposeDeletion, ActionViewReports:
		return true
	case ActionDecideDeletion:
		// la verificación a nivel de objeto la hace el flujo de eliminación
		return shop == nil || shop.isResponsible(p.ID)
	case ActionSell, ActionRestock, ActionSetStock, ActionCreateStock:
		return shop.isResponsible(p.ID) || shop.isManager(p.ID)
	case ActionManageShop:
		return shop.isResponsible(p.ID)
	}
	return false
}

// Manager gestionario con acceso operativo a las boutiques que gestiona.
type Manager struct{ ID string }

func (p Manager) UserID() string { return p.ID }
func (Manager) Role() string     { return entity.RoleManager }
func (p Manager) Allows(action Action, shop *ShopScope) bool {
	switch action {
	case ActionRead, ActionManageCatalog, ActionProposeDeletion, ActionViewReports:
		return true
	case ActionSell, ActionRestock, ActionSetStock, ActionCreateStock:
		return shop.isManager(p.ID) || shop.isResponsible(p.ID)
	}
	return false
}

// FromClaims construye la variante a partir de los claims del token.
// Un rol desconocido o un userID vacío se tratan como anónimo.
func FromClaims(userID, role string) Principal {
	if userID == "" {
		return Anonymous{}
	}
	switch role {
	case entity.RoleSuperuser:
		return Superuser{ID: userID}
	case entity.RoleResponsible:
		return Responsible{ID: userID}
	case entity.RoleManager:
		return Manager{ID: userID}
	}
	return Anonymous{}
}

// Authorize devuelve nil si el principal puede ejecutar la acción, domain.ErrNotAuthorized si no.
func Authorize(p Principal, action Action, shop *ShopScope) error {
	if p == nil {
		p = Anonymous{}
	}
	if p.Allows(action, shop) {
		return nil
	}
	if _, anon := p.(Anonymous); anon {
		return domain.ErrUnauthorized
	}
	return domain.ErrNotAuthorized
}

// ValidRole indica si el rol es asignable a un usuario.
func ValidRole(role string) bool {
	switch role {
	case entity.RoleSuperuser, entity.RoleResponsible, entity.RoleManager:
		return true
	}
	return false
}
