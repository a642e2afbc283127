package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/policy"
)

var shop = &policy.ShopScope{ShopID: "s1", ResponsibleID: "resp", ManagerIDs: []string{"mgr"}}

func TestAnonymous_SoloLectura(t *testing.T) {
	p := policy.FromClaims("", "")
	assert.NoError(t, policy.Authorize(p, policy.ActionRead, nil))
	assert.ErrorIs(t, policy.Authorize(p, policy.ActionSell, shop), domain.ErrUnauthorized)
}

func TestSuperuser_TodoPermitido(t *testing.T) {
	p := policy.FromClaims("root", "superuser")
	for _, a := range []policy.Action{policy.ActionSell, policy.ActionImport, policy.ActionDecideDeletion, policy.ActionAdministerShops} {
		assert.NoError(t, policy.Authorize(p, a, shop), a)
	}
}

func TestResponsible_SoloSusBoutiques(t *testing.T) {
	own := policy.FromClaims("resp", "responsible")
	other := policy.FromClaims("otro", "responsible")

	assert.NoError(t, policy.Authorize(own, policy.ActionSetStock, shop))
	assert.NoError(t, policy.Authorize(own, policy.ActionManageShop, shop))
	assert.ErrorIs(t, policy.Authorize(other, policy.ActionSetStock, shop), domain.ErrNotAuthorized)
	assert.ErrorIs(t, policy.Authorize(own, policy.ActionImport, nil), domain.ErrNotAuthorized)
}

func TestManager_OperaStockPeroNoDecide(t *testing.T) {
	m := policy.FromClaims("mgr", "manager")
	assert.NoError(t, policy.Authorize(m, policy.ActionSell, shop))
	assert.NoError(t, policy.Authorize(m, policy.ActionProposeDeletion, nil))
	assert.ErrorIs(t, policy.Authorize(m, policy.ActionDecideDeletion, shop), domain.ErrNotAuthorized)
	assert.ErrorIs(t, policy.Authorize(m, policy.ActionManageShop, shop), domain.ErrNotAuthorized)
}

func TestFromClaims_RolDesconocidoEsAnonimo(t *testing.T) {
	_, ok := policy.FromClaims("u1", "vendedor").(policy.Anonymous)
	assert.True(t, ok)
}
