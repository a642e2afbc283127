package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eboutique-api/internal/application/archive"
	"github.com/jhoicas/eboutique-api/internal/application/auth"
	"github.com/jhoicas/eboutique-api/internal/application/deletion"
	"github.com/jhoicas/eboutique-api/internal/application/importer"
	"github.com/jhoicas/eboutique-api/internal/application/search"
	"github.com/jhoicas/eboutique-api/internal/application/stock"
	"github.com/jhoicas/eboutique-api/internal/application/usecase"
	"github.com/jhoicas/eboutique-api/internal/domain/policy"
	"github.com/jhoicas/eboutique-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UserUC    *usecase.UserUseCase
	ShopUC    *usecase.ShopUseCase
	BrandUC   *usecase.BrandUseCase
	ProductUC *usecase.ProductUseCase
	Ledger    *stock.Ledger
	Deletion  *deletion.Workflow
	Search    *search.Service
	Archive   *archive.UseCase
	Importer  *importer.Importer
	JWTSecret string
	Logger    *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Logger != nil {
		errorLog = deps.Logger.Component("http")
	}
	api := app.Group("/api")

	authed := AuthMiddleware(deps.JWTSecret)
	// Lecturas públicas: el token es opcional pero si viene debe ser válido.
	optional, readable := OptionalAuth(deps.JWTSecret), RequireAction(policy.ActionRead)
	public := func(h fiber.Handler) []fiber.Handler { return []fiber.Handler{optional, readable, h} }
	can := func(a policy.Action) fiber.Handler { return RequireAction(a) }
	onShop := func(a policy.Action, param string) fiber.Handler {
		return RequireShopAction(a, deps.ShopUC, param)
	}

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Users
	userHandler := NewUserHandler(deps.AuthUC, deps.UserUC)
	api.Get("/users/me", authed, userHandler.Me)
	api.Post("/users", authed, can(policy.ActionManageUsers), userHandler.Create)
	api.Get("/users/:id", authed, can(policy.ActionManageUsers), userHandler.GetByID)
	api.Delete("/users/:id", authed, can(policy.ActionManageUsers), userHandler.Delete)

	// Búsqueda por proximidad (antes de /shops/:id)
	searchHandler := NewSearchHandler(deps.Search)
	api.Get("/shops/nearby", public(searchHandler.Nearby)...)
	api.Get("/shops/nearby/address", public(searchHandler.NearbyByAddress)...)

	// Shops
	shopHandler := NewShopHandler(deps.ShopUC)
	stockHandler := NewStockHandler(deps.Ledger)
	api.Get("/shops", public(shopHandler.List)...)
	api.Get("/shops/:id", public(shopHandler.GetByID)...)
	api.Get("/shops/:id/stock", public(stockHandler.ListByShop)...)
	api.Post("/shops", authed, can(policy.ActionAdministerShops), shopHandler.Create)
	api.Put("/shops/:id", authed, onShop(policy.ActionManageShop, "id"), shopHandler.Update)
	api.Put("/shops/:id/responsible", authed, can(policy.ActionAdministerShops), shopHandler.AssignResponsible)
	api.Put("/shops/:id/managers", authed, onShop(policy.ActionManageShop, "id"), shopHandler.SetManagers)
	api.Delete("/shops/:id", authed, can(policy.ActionAdministerShops), shopHandler.Delete)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.BrandUC)
	api.Get("/brands", public(catalogHandler.ListBrands)...)
	api.Get("/brands/:id", public(catalogHandler.GetBrand)...)
	api.Get("/brands/:id/models", public(catalogHandler.ListModels)...)
	api.Post("/brands", authed, can(policy.ActionManageCatalog), catalogHandler.CreateBrand)
	api.Put("/brands/:id", authed, can(policy.ActionManageCatalog), catalogHandler.RenameBrand)
	api.Delete("/brands/:id", authed, can(policy.ActionDeleteCatalog), catalogHandler.DeleteBrand)
	api.Post("/models", authed, can(policy.ActionManageCatalog), catalogHandler.CreateModel)
	api.Delete("/models/:id", authed, can(policy.ActionDeleteCatalog), catalogHandler.DeleteModel)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, deps.ShopUC, deps.Deletion, deps.Archive)
	api.Get("/products", public(productHandler.List)...)
	api.Get("/products/:id", public(productHandler.GetByID)...)
	api.Post("/products", authed, can(policy.ActionManageCatalog), productHandler.Create)
	api.Put("/products/:id", authed, can(policy.ActionManageCatalog), productHandler.Update)
	api.Post("/products/:id/approve", authed, productHandler.Approve)
	api.Post("/products/:id/request-deletion", authed, can(policy.ActionProposeDeletion), productHandler.RequestDeletion)
	api.Get("/products/:id/history", authed, can(policy.ActionViewReports), productHandler.History)

	// Stock: las rutas de un segmento y las alertas van antes de /:shop/:product
	api.Get("/stock", authed, can(policy.ActionViewReports), stockHandler.ListLowStock)
	api.Get("/stock/report.pdf", authed, can(policy.ActionViewReports), stockHandler.LowStockReport)
	api.Get("/stock/alerts", authed, can(policy.ActionViewReports), stockHandler.ListAlerts)
	api.Post("/stock/alerts/:id/read", authed, can(policy.ActionViewReports), stockHandler.MarkAlertRead)
	api.Get("/stock/:shop/:product", public(stockHandler.Get)...)
	api.Post("/stock/:shop/:product/sell", authed, onShop(policy.ActionSell, "shop"), stockHandler.Sell)
	api.Post("/stock/:shop/:product/restock", authed, onShop(policy.ActionRestock, "shop"), stockHandler.Restock)
	api.Put("/stock/:shop/:product", authed, onShop(policy.ActionSetStock, "shop"), stockHandler.SetQuantity)
	api.Post("/stock/:shop/:product", authed, onShop(policy.ActionCreateStock, "shop"), stockHandler.Create)

	// Solicitudes de eliminación (la decisión se verifica contra el responsable asignado)
	deletionHandler := NewDeletionHandler(deps.Deletion)
	api.Get("/deletion-requests/pending", authed, deletionHandler.ListPending)
	api.Get("/deletion-requests/:id", authed, deletionHandler.Get)
	api.Post("/deletion-requests/:id/approve", authed, can(policy.ActionDecideDeletion), deletionHandler.Approve)
	api.Post("/deletion-requests/:id/cancel", authed, can(policy.ActionDecideDeletion), deletionHandler.Cancel)

	// Archivo
	archiveHandler := NewArchiveHandler(deps.Archive)
	api.Get("/archives", authed, can(policy.ActionViewReports), archiveHandler.List)
	api.Get("/archives/:id", authed, can(policy.ActionViewReports), archiveHandler.Get)

	// Importación masiva
	importHandler := NewImportHandler(deps.Importer)
	api.Post("/import/shops", authed, can(policy.ActionImport), importHandler.Shops)
	api.Post("/import/products", authed, can(policy.ActionImport), importHandler.Products)
}
