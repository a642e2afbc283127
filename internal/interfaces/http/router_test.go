package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eboutique-api/internal/application/archive"
	"github.com/jhoicas/eboutique-api/internal/application/auth"
	"github.com/jhoicas/eboutique-api/internal/application/deletion"
	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/importer"
	"github.com/jhoicas/eboutique-api/internal/application/search"
	"github.com/jhoicas/eboutique-api/internal/application/stock"
	"github.com/jhoicas/eboutique-api/internal/application/usecase"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/eboutique-api/internal/interfaces/http"
	"github.com/jhoicas/eboutique-api/pkg/geo"
	pkgjwt "github.com/jhoicas/eboutique-api/pkg/jwt"
)

var paris = geo.Point{Lat: 48.8566, Lon: 2.3522}

// newAPI monta el router completo sobre el store en memoria.
func newAPI(store *memory.Store) *fiber.App {
	repos := store.Repos()
	tx := memory.NewTxRunner(store)
	ledger := stock.NewLedger(tx, repos.Stock, repos.Shops, repos.Alerts, nil, stock.DefaultPolicy(), nil)
	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		UserUC:    usecase.NewUserUseCase(tx, repos.Users),
		ShopUC:    usecase.NewShopUseCase(tx, repos.Shops, repos.Users, nil, nil),
		BrandUC:   usecase.NewBrandUseCase(repos.Brands, repos.Models),
		ProductUC: usecase.NewProductUseCase(tx, repos.Products, repos.Shops, ledger),
		Ledger:    ledger,
		Deletion:  deletion.NewWorkflow(tx, repos.Deletions, nil),
		Search:    search.NewService(repos.Shops, repos.Stock, nil, nil, search.DefaultOptions(), nil),
		Archive:   archive.NewUseCase(repos.Archive),
		Importer:  importer.NewImporter(tx, ledger, nil),
		JWTSecret: testJWTSecret,
	})
	return app
}

func qty(n int) dto.QuantityRequest {
	return dto.QuantityRequest{Quantity: &n}
}

func bearer(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, u.Role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call lanza la petición con body JSON opcional.
func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRouter_VentaStockInsuficienteYOtraBoutique(t *testing.T) {
	store := memory.NewStore()
	manager := store.SeedUser("gestion@b.fr", entity.RoleManager)
	shop := store.SeedShop("Rivoli", &paris, "", manager.ID)
	other := store.SeedShop("Bellecour", nil, "")
	p := store.SeedProduct("Apple", "iPhone 15", "iPhone 15 128", 999)
	store.SeedStock(shop.ID, p.ID, 3, 1)
	store.SeedStock(other.ID, p.ID, 3, 1)
	app := newAPI(store)

	resp := call(t, app, http.MethodPost, "/api/stock/"+shop.ID+"/"+p.ID+"/sell", bearer(t, manager), qty(2))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entry dto.StockEntryResponse
	decode(t, resp, &entry)
	assert.Equal(t, 1, entry.Quantity)

	resp = call(t, app, http.MethodPost, "/api/stock/"+shop.ID+"/"+p.ID+"/sell", bearer(t, manager), qty(5))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp))
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/stock/"+other.ID+"/"+p.ID+"/sell", bearer(t, manager), qty(1))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "no gestiona esa boutique")
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/stock/"+shop.ID+"/"+p.ID+"/sell", "", qty(1))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// la venta quedó en el historial
	assert.Len(t, store.ArchiveEntries(entity.ArchiveKindSale), 1)

	resp = call(t, app, http.MethodGet, "/api/stock/"+shop.ID+"/"+p.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &entry)
	assert.Equal(t, 1, entry.Quantity)
}

func TestRouter_BusquedaDistingueSinBoutiquesYSinStock(t *testing.T) {
	store := memory.NewStore()
	shop := store.SeedShop("Rivoli", &paris, "")
	p := store.SeedProduct("Samsung", "S24", "Galaxy S24", 899)
	store.SeedStock(shop.ID, p.ID, 0, 1)
	app := newAPI(store)

	resp := call(t, app, http.MethodGet, "/api/shops/nearby?lat=45.76&lon=4.83&radius=5000", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NO_SHOPS_IN_RADIUS", errorCode(t, resp))
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/shops/nearby?lat=48.857&lon=2.352", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NO_STOCK_IN_RADIUS", errorCode(t, resp))
	resp.Body.Close()

	store.SeedStock(shop.ID, p.ID, 4, 1)
	resp = call(t, app, http.MethodGet, "/api/shops/nearby?lat=48.857&lon=2.352&product=galaxy", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var results []dto.NearbyResultDTO
	decode(t, resp, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "Rivoli", results[0].ShopName)
	assert.Equal(t, 4, results[0].Quantity)

	resp = call(t, app, http.MethodGet, "/api/shops/nearby?lat=200&lon=2.352", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/shops/nearby?lon=2.352", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "lat requerida")
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/shops/nearby/address?address=1+rue+de+Rivoli", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "sin geocoder la dirección no se resuelve")
	assert.Equal(t, "ADDRESS_NOT_FOUND", errorCode(t, resp))
	resp.Body.Close()
}

func TestRouter_FlujoDeEliminacion(t *testing.T) {
	store := memory.NewStore()
	responsible := store.SeedUser("resp@b.fr", entity.RoleResponsible)
	manager := store.SeedUser("gestion@b.fr", entity.RoleManager)
	shop := store.SeedShop("Rivoli", &paris, responsible.ID, manager.ID)
	p := store.SeedProduct("Apple", "iPhone 15", "iPhone 15 128", 999)
	store.SeedStock(shop.ID, p.ID, 2, 1)
	app := newAPI(store)

	resp := call(t, app, http.MethodPost, "/api/products/"+p.ID+"/request-deletion", bearer(t, manager), dto.RequestDeletionRequest{Reason: "fin de serie"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-Deletion-Requests-Created"))
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/products/"+p.ID+"/request-deletion", bearer(t, manager), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_PENDING", errorCode(t, resp))
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/deletion-requests/pending", bearer(t, responsible), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending []dto.DeletionRequestResponse
	decode(t, resp, &pending)
	require.Len(t, pending, 1)
	reqID := pending[0].ID

	resp = call(t, app, http.MethodPost, "/api/deletion-requests/"+reqID+"/approve", bearer(t, manager), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "un gestionario no decide")
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/deletion-requests/"+reqID+"/approve", bearer(t, responsible), dto.DecisionRequest{Comment: "ok"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var decision dto.DeletionDecisionResponse
	decode(t, resp, &decision)
	assert.Equal(t, entity.DeletionStatusApproved, decision.Request.Status)
	require.NotNil(t, decision.Archived)
	assert.Equal(t, "Apple", decision.Archived.Brand)

	resp = call(t, app, http.MethodGet, "/api/products/"+p.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/deletion-requests/"+reqID+"/cancel", bearer(t, responsible), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NOT_PENDING", errorCode(t, resp))
	resp.Body.Close()
}

func TestRouter_SetQuantityCeroArchivaProducto(t *testing.T) {
	store := memory.NewStore()
	responsible := store.SeedUser("resp@b.fr", entity.RoleResponsible)
	shop := store.SeedShop("Rivoli", &paris, responsible.ID)
	p := store.SeedProduct("Apple", "iPhone 15", "iPhone 15 128", 999)
	store.SeedStock(shop.ID, p.ID, 2, 1)
	app := newAPI(store)

	resp := call(t, app, http.MethodPut, "/api/stock/"+shop.ID+"/"+p.ID, bearer(t, responsible), qty(0))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.SetQuantityResponse
	decode(t, resp, &out)
	assert.Nil(t, out.Entry)
	require.NotNil(t, out.Archived)
	assert.Equal(t, p.ID, out.Archived.OriginalID)
	assert.Len(t, store.ArchiveEntries(entity.ArchiveKindProduct), 1)
}

func TestRouter_SetQuantityCeroEnOtraBoutiqueNoEliminaProducto(t *testing.T) {
	store := memory.NewStore()
	manager := store.SeedUser("gestion@b.fr", entity.RoleManager)
	mine := store.SeedShop("Rivoli", &paris, "", manager.ID)
	theirs := store.SeedShop("Bellecour", nil, "")
	p := store.SeedProduct("Apple", "iPhone 15", "iPhone 15 128", 999)
	store.SeedStock(theirs.ID, p.ID, 4, 1)
	app := newAPI(store)

	resp := call(t, app, http.MethodPut, "/api/stock/"+mine.ID+"/"+p.ID, bearer(t, manager), qty(0))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
	resp.Body.Close()
	assert.Empty(t, store.ArchiveEntries(entity.ArchiveKindProduct))

	resp = call(t, app, http.MethodGet, "/api/stock/"+theirs.ID+"/"+p.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entry dto.StockEntryResponse
	decode(t, resp, &entry)
	assert.Equal(t, 4, entry.Quantity)
}

func TestRouter_CantidadAusenteEsValidacion(t *testing.T) {
	store := memory.NewStore()
	responsible := store.SeedUser("resp@b.fr", entity.RoleResponsible)
	shop := store.SeedShop("Rivoli", &paris, responsible.ID)
	p := store.SeedProduct("Apple", "iPhone 15", "iPhone 15 128", 999)
	store.SeedStock(shop.ID, p.ID, 2, 1)
	app := newAPI(store)

	base := "/api/stock/" + shop.ID + "/" + p.ID
	cases := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPut, base, map[string]int{"qty": 7}},
		{http.MethodPut, base, map[string]int{}},
		{http.MethodPost, base + "/sell", map[string]int{}},
		{http.MethodPost, base + "/restock", map[string]int{"qty": 1}},
	}
	for _, tc := range cases {
		resp := call(t, app, tc.method, tc.path, bearer(t, responsible), tc.body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, tc.method+" "+tc.path)
		assert.Equal(t, "VALIDATION", errorCode(t, resp))
		resp.Body.Close()
	}

	assert.Empty(t, store.ArchiveEntries(entity.ArchiveKindProduct))
	resp := call(t, app, http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entry dto.StockEntryResponse
	decode(t, resp, &entry)
	assert.Equal(t, 2, entry.Quantity)
}

func TestRouter_StockBajoPaginado(t *testing.T) {
	store := memory.NewStore()
	manager := store.SeedUser("gestion@b.fr", entity.RoleManager)
	shop := store.SeedShop("Rivoli", &paris, "")
	a := store.SeedProduct("Apple", "iPhone 15", "iPhone 15", 999)
	b := store.SeedProduct("Apple", "iPhone 14", "iPhone 14", 799)
	c := store.SeedProduct("Apple", "iPhone 13", "iPhone 13", 599)
	store.SeedStock(shop.ID, a.ID, 1, 5)
	store.SeedStock(shop.ID, b.ID, 2, 5)
	store.SeedStock(shop.ID, c.ID, 9, 5)
	app := newAPI(store)

	resp := call(t, app, http.MethodGet, "/api/stock?quantity_lt=5&limit=1", bearer(t, manager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first dto.LowStockPage
	decode(t, resp, &first)
	require.Len(t, first.Items, 1)
	require.NotEmpty(t, first.Next)

	resp = call(t, app, http.MethodGet, "/api/stock?quantity_lt=5&limit=1&after="+first.Next, bearer(t, manager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second dto.LowStockPage
	decode(t, resp, &second)
	require.Len(t, second.Items, 1)
	assert.Empty(t, second.Next)
	assert.NotEqual(t, first.Items[0].ProductID, second.Items[0].ProductID)

	resp = call(t, app, http.MethodGet, "/api/stock?quantity_lt=abc", bearer(t, manager), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/stock/report.pdf", bearer(t, manager), nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "sin generador de PDF")
	resp.Body.Close()
}

func TestRouter_RegistroFuerzaGestionario(t *testing.T) {
	store := memory.NewStore()
	app := newAPI(store)

	resp := call(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "nuevo@b.fr", Password: "secreta123", Role: entity.RoleSuperuser,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var user dto.UserResponse
	decode(t, resp, &user)
	assert.Equal(t, entity.RoleManager, user.Role)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "nuevo@b.fr", Password: "secreta123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decode(t, resp, &login)
	assert.NotEmpty(t, login.Token)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "nuevo@b.fr", Password: "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "nuevo@b.fr", Password: "secreta123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestRouter_SuperusuarioCreaYEliminaUsuarios(t *testing.T) {
	store := memory.NewStore()
	admin := store.SeedUser("admin@b.fr", entity.RoleSuperuser)
	manager := store.SeedUser("gestion@b.fr", entity.RoleManager)
	app := newAPI(store)

	resp := call(t, app, http.MethodPost, "/api/users", bearer(t, admin), dto.RegisterRequest{
		Email: "resp@b.fr", Password: "secreta123", Role: entity.RoleResponsible,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.UserResponse
	decode(t, resp, &created)
	assert.Equal(t, entity.RoleResponsible, created.Role)

	resp = call(t, app, http.MethodDelete, "/api/users/"+created.ID, bearer(t, manager), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodDelete, "/api/users/"+created.ID, bearer(t, admin), dto.DeleteUserRequest{Reason: "baja"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entry dto.ArchiveEntryResponse
	decode(t, resp, &entry)
	assert.Equal(t, string(entity.ArchiveKindUser), entry.Kind)

	resp = call(t, app, http.MethodGet, "/api/users/"+created.ID, bearer(t, admin), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/archives?kind=USER", bearer(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var archived []dto.ArchiveEntryResponse
	decode(t, resp, &archived)
	assert.Len(t, archived, 1)
}

func TestRouter_ImportarBoutiques(t *testing.T) {
	store := memory.NewStore()
	admin := store.SeedUser("admin@b.fr", entity.RoleSuperuser)
	manager := store.SeedUser("gestion@b.fr", entity.RoleManager)
	app := newAPI(store)

	upload := func(token, content string) *http.Response {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("file", "shops.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/import/shops?delimiter=%3B", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	valid := "name;address;city;postal_code;latitude;longitude\n" +
		"Rivoli;1 rue de Rivoli;Paris;75001;48.8606;2.3376\n"
	resp := upload(bearer(t, manager), valid)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = upload(bearer(t, admin), valid)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rep dto.ImportReport
	decode(t, resp, &rep)
	assert.Equal(t, 1, rep.Created)

	resp = upload(bearer(t, admin), "name;address;city;postal_code\nLyon;;Lyon;6900\n")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decode(t, resp, &rep)
	assert.Equal(t, 0, rep.Created)
	require.NotEmpty(t, rep.Errors)
	assert.Equal(t, 2, rep.Errors[0].Line)

	resp = call(t, app, http.MethodGet, "/api/shops", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ShopListResponse
	decode(t, resp, &list)
	assert.Len(t, list.Items, 1)
}

func TestRouter_CatalogoPermisos(t *testing.T) {
	store := memory.NewStore()
	admin := store.SeedUser("admin@b.fr", entity.RoleSuperuser)
	manager := store.SeedUser("gestion@b.fr", entity.RoleManager)
	app := newAPI(store)

	resp := call(t, app, http.MethodPost, "/api/brands", bearer(t, manager), dto.CreateBrandRequest{Name: "Apple"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var brand dto.BrandResponse
	decode(t, resp, &brand)

	resp = call(t, app, http.MethodPost, "/api/brands", bearer(t, manager), dto.CreateBrandRequest{Name: "Apple"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/models", bearer(t, manager), dto.CreateModelRequest{BrandID: brand.ID, Name: "iPhone 15"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/brands/"+brand.ID+"/models", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var models []dto.ModelResponse
	decode(t, resp, &models)
	assert.Len(t, models, 1)

	resp = call(t, app, http.MethodDelete, "/api/brands/"+brand.ID, bearer(t, manager), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "borrar en cascada es solo de superusuario")
	resp.Body.Close()

	resp = call(t, app, http.MethodDelete, "/api/brands/"+brand.ID, bearer(t, admin), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/brands/"+brand.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
