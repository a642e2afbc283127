// Package stock implementa el ledger de stock por (boutique, producto): ventas,
// reposiciones, fijación de cantidad, stock inicial, stock bajo y alertas.
package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/eboutique-api/internal/application/archive"
	"github.com/jhoicas/eboutique-api/internal/application/ports"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
	"github.com/jhoicas/eboutique-api/pkg/logger"
)

// ReasonDepleted motivo de archivo cuando SetQuantity deja el producto sin stock.
const ReasonDepleted = "stock agotado"

// Policy reglas configurables del ledger.
type Policy struct {
	// AlertThreshold umbral por defecto para nuevas filas y para ListLowStock.
	AlertThreshold int
	// ArchiveOnDepletion: SetQuantity con cantidad <= 0 archiva y elimina el producto.
	// Desactivado, una cantidad negativa es inválida y 0 se guarda tal cual.
	ArchiveOnDepletion bool
}

// DefaultPolicy política por defecto (comportamiento heredado).
func DefaultPolicy() Policy {
	return Policy{AlertThreshold: entity.DefaultAlertThreshold, ArchiveOnDepletion: true}
}

// Ledger casos de uso de stock. Toda mutación corre en una transacción con bloqueo de fila.
type Ledger struct {
	txRunner  ports.TxRunner
	stockRepo repository.StockRepository
	shopRepo  repository.ShopRepository
	alertRepo repository.StockAlertRepository
	reporter  ports.LowStockReporter
	policy    Policy
	log       *logger.Logger
}

// NewLedger construye el ledger. reporter puede ser nil (sin reporte PDF).
func NewLedger(
	txRunner ports.TxRunner,
	stockRepo repository.StockRepository,
	shopRepo repository.ShopRepository,
	alertRepo repository.StockAlertRepository,
	reporter ports.LowStockReporter,
	policy Policy,
	log *logger.Logger,
) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{
		txRunner:  txRunner,
		stockRepo: stockRepo,
		shopRepo:  shopRepo,
		alertRepo: alertRepo,
		reporter:  reporter,
		policy:    policy,
		log:       log.Component("stock"),
	}
}

// DefaultThreshold umbral de stock bajo configurado.
func (l *Ledger) DefaultThreshold() int { return l.policy.AlertThreshold }

// AdjustQuantity suma delta a la cantidad. Rechaza con ErrInsufficientStock si el resultado
// fuera negativo (la fila queda igual). Un delta negativo es una venta: en la misma
// transacción se escribe el SaleHistory con los atributos del producto en ese momento.
func (l *Ledger) AdjustQuantity(ctx context.Context, shopID, productID string, delta int, actorID string) (*entity.StockEntry, error) {
	if shopID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if delta == 0 {
		return nil, domain.Invalid("quantity", "la variación no puede ser 0")
	}

	var (
		out   *entity.StockEntry
		alert *entity.StockAlert
	)
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		entry, err := repos.Stock.GetForUpdate(ctx, shopID, productID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		newQty := entry.Quantity + delta
		if newQty < 0 {
			return domain.ErrInsufficientStock
		}
		now := time.Now().UTC()
		entry.Quantity = newQty
		entry.UpdatedAt = now
		if err := repos.Stock.UpdateQuantity(ctx, entry); err != nil {
			return err
		}
		if delta < 0 {
			if err := recordSale(ctx, repos, entry, -delta, actorID, now); err != nil {
				return err
			}
		}
		alert, err = raiseAlert(ctx, repos, entry, now)
		if err != nil {
			return err
		}
		out = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("shop_id", shopID).Str("product_id", productID).Int("delta", delta).
		Int("quantity", out.Quantity).Str("actor_id", actorID).Msg("stock ajustado")
	l.logAlert(alert)
	return out, nil
}

// Sell registra una venta de qty unidades.
func (l *Ledger) Sell(ctx context.Context, shopID, productID string, qty int, sellerID string) (*entity.StockEntry, error) {
	if qty <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que 0")
	}
	return l.AdjustQuantity(ctx, shopID, productID, -qty, sellerID)
}

// Restock repone qty unidades (sin historial).
func (l *Ledger) Restock(ctx context.Context, shopID, productID string, qty int, actorID string) (*entity.StockEntry, error) {
	if qty <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que 0")
	}
	return l.AdjustQuantity(ctx, shopID, productID, qty, actorID)
}

// CreateInitialStock crea la fila del par (boutique, producto). threshold nil usa el umbral por defecto.
// Devuelve ErrDuplicate si el par ya existe (usar SetQuantity).
func (l *Ledger) CreateInitialStock(ctx context.Context, shopID, productID string, qty int, threshold *int) (*entity.StockEntry, error) {
	var out *entity.StockEntry
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		out, err = l.CreateInitialStockTx(ctx, repos, shopID, productID, qty, threshold)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("shop_id", shopID).Str("product_id", productID).Int("quantity", qty).Msg("stock inicial creado")
	return out, nil
}

// CreateInitialStockTx igual que CreateInitialStock pero dentro de la transacción del caller
// (alta de producto, importación).
func (l *Ledger) CreateInitialStockTx(ctx context.Context, repos repository.TxRepos, shopID, productID string, qty int, threshold *int) (*entity.StockEntry, error) {
	if shopID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if qty < 0 {
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	}
	th := l.policy.AlertThreshold
	if threshold != nil {
		th = *threshold
	}
	if th < 0 {
		return nil, domain.Invalid("alert_threshold", "no puede ser negativo")
	}
	shop, err := repos.Shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now().UTC()
	entry := &entity.StockEntry{
		ID:             uuid.New().String(),
		ShopID:         shopID,
		ProductID:      productID,
		Quantity:       qty,
		AlertThreshold: th,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repos.Stock.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// SetResult resultado de SetQuantity: la fila resultante, o el producto archivado
// cuando la cantidad pedida fue <= 0 con ArchiveOnDepletion activo.
type SetResult struct {
	Entry    *entity.StockEntry
	Archived *archive.RetiredProduct
}

// SetQuantity fija la cantidad (upsert idempotente). Con ArchiveOnDepletion, una cantidad <= 0
// archiva el producto con motivo "stock agotado" y lo elimina junto con todas sus filas de stock.
func (l *Ledger) SetQuantity(ctx context.Context, shopID, productID string, qty int, actorID string) (*SetResult, error) {
	if shopID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if qty <= 0 && l.policy.ArchiveOnDepletion {
		return l.depleteAndRetire(ctx, shopID, productID, actorID)
	}
	if qty < 0 {
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	}

	var (
		out   *entity.StockEntry
		alert *entity.StockAlert
	)
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		shop, err := repos.Shops.GetByID(ctx, shopID)
		if err != nil {
			return err
		}
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if shop == nil || product == nil {
			return domain.ErrNotFound
		}
		prev, err := repos.Stock.GetForUpdate(ctx, shopID, productID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		entry := &entity.StockEntry{
			ID:             uuid.New().String(),
			ShopID:         shopID,
			ProductID:      productID,
			Quantity:       qty,
			AlertThreshold: l.policy.AlertThreshold,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if prev != nil {
			entry.ID = prev.ID
			entry.AlertThreshold = prev.AlertThreshold
			entry.CreatedAt = prev.CreatedAt
		}
		out, err = repos.Stock.Upsert(ctx, entry)
		if err != nil {
			return err
		}
		// Alertas solo si la fila ya existía y la cantidad cambió: repetir el mismo PUT no genera nada.
		if prev != nil && prev.Quantity != qty {
			alert, err = raiseAlert(ctx, repos, out, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("shop_id", shopID).Str("product_id", productID).Int("quantity", out.Quantity).
		Str("actor_id", actorID).Msg("stock fijado")
	l.logAlert(alert)
	return &SetResult{Entry: out}, nil
}

func (l *Ledger) depleteAndRetire(ctx context.Context, shopID, productID, actorID string) (*SetResult, error) {
	var retired *archive.RetiredProduct
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		exists, err := repos.Products.LockByID(ctx, productID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		shop, err := repos.Shops.GetByID(ctx, shopID)
		if err != nil {
			return err
		}
		if shop == nil {
			return domain.ErrNotFound
		}
		// Solo se agota lo que esta boutique tiene en stock.
		entry, err := repos.Stock.GetForUpdate(ctx, shopID, productID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		retired, err = archive.RetireProduct(ctx, repos, productID, actorID, ReasonDepleted)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.log.Warn().Str("shop_id", shopID).Str("product_id", productID).Str("actor_id", actorID).
		Str("archive_id", retired.Entry.ID).Msg("producto archivado por stock agotado")
	return &SetResult{Archived: retired}, nil
}

// Get devuelve la fila del par (boutique, producto).
func (l *Ledger) Get(ctx context.Context, shopID, productID string) (*entity.StockEntry, error) {
	entry, err := l.stockRepo.Get(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// ListByShop devuelve el stock de una boutique.
func (l *Ledger) ListByShop(ctx context.Context, shopID string) ([]*entity.StockEntryView, error) {
	shop, err := l.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	return l.stockRepo.ListByShop(ctx, shopID)
}

func recordSale(ctx context.Context, repos repository.TxRepos, entry *entity.StockEntry, qty int, sellerID string, now time.Time) error {
	product, err := repos.Products.GetDetails(ctx, entry.ProductID)
	if err != nil {
		return err
	}
	shop, err := repos.Shops.GetByID(ctx, entry.ShopID)
	if err != nil {
		return err
	}
	if product == nil || shop == nil {
		return domain.ErrNotFound
	}
	sale := entity.SaleHistory{
		ShopID:       shop.ID,
		ShopName:     shop.Name,
		ProductID:    product.ID,
		ProductName:  product.Name,
		Brand:        product.BrandName,
		Model:        product.ModelName,
		Color:        product.Color,
		Capacity:     product.Capacity,
		UnitPrice:    product.Price,
		QuantitySold: qty,
		Total:        product.Price.Mul(decimal.NewFromInt(int64(qty))),
		SellerID:     sellerID,
		SoldAt:       now,
	}
	_, err = archive.Record(ctx, repos.Archive, entity.ArchiveKindSale, product.ID, sale, sellerID, "venta")
	return err
}

func raiseAlert(ctx context.Context, repos repository.TxRepos, entry *entity.StockEntry, now time.Time) (*entity.StockAlert, error) {
	if entry.Quantity >= entry.AlertThreshold {
		return nil, nil
	}
	alert := &entity.StockAlert{
		ID:        uuid.New().String(),
		ShopID:    entry.ShopID,
		ProductID: entry.ProductID,
		Type:      entity.AlertTypeLow,
		Quantity:  entry.Quantity,
		Threshold: entry.AlertThreshold,
		CreatedAt: now,
	}
	if entry.Quantity == 0 {
		alert.Type = entity.AlertTypeOut
	}
	if err := repos.Alerts.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (l *Ledger) logAlert(a *entity.StockAlert) {
	if a == nil {
		return
	}
	l.log.Warn().Str("shop_id", a.ShopID).Str("product_id", a.ProductID).Str("type", a.Type).
		Int("quantity", a.Quantity).Int("threshold", a.Threshold).Msg("alerta de stock")
}
