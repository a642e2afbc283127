package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
)

var (
	_ repository.StockRepository      = (*StockRepo)(nil)
	_ repository.StockAlertRepository = (*StockAlertRepo)(nil)
)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `se.id, se.shop_id, se.product_id, se.quantity, se.alert_threshold, se.created_at, se.updated_at`

func scanStock(row pgx.Row, e *entity.StockEntry, extra ...any) error {
	dest := []any{&e.ID, &e.ShopID, &e.ProductID, &e.Quantity, &e.AlertThreshold, &e.CreatedAt, &e.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

func collectViews(rows pgx.Rows) ([]*entity.StockEntryView, error) {
	defer rows.Close()
	var out []*entity.StockEntryView
	for rows.Next() {
		var v entity.StockEntryView
		if err := scanStock(rows, &v.StockEntry, &v.ShopName, &v.ProductName); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

// isCheckViolation verifica 23514 (quantity >= 0).
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

// Create inserta la fila. Par existente -> ErrDuplicate; boutique o producto inexistente -> ErrNotFound.
func (r *StockRepo) Create(ctx context.Context, e *entity.StockEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_entries (id, shop_id, product_id, quantity, alert_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.ShopID, e.ProductID, e.Quantity, e.AlertThreshold, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

func (r *StockRepo) get(ctx context.Context, shopID, productID, suffix string) (*entity.StockEntry, error) {
	var e entity.StockEntry
	err := scanStock(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_entries se WHERE se.shop_id = $1 AND se.product_id = $2`+suffix,
		shopID, productID), &e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &e, nil
}

// Get obtiene el stock del par (nil si no existe).
func (r *StockRepo) Get(ctx context.Context, shopID, productID string) (*entity.StockEntry, error) {
	return r.get(ctx, shopID, productID, "")
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, shopID, productID string) (*entity.StockEntry, error) {
	return r.get(ctx, shopID, productID, " FOR UPDATE")
}

// UpdateQuantity persiste la cantidad. Negativa -> ErrInsufficientStock (CHECK de la tabla).
func (r *StockRepo) UpdateQuantity(ctx context.Context, e *entity.StockEntry) error {
	cmd, err := r.q.Exec(ctx, `UPDATE stock_entries SET quantity = $3, updated_at = $4 WHERE shop_id = $1 AND product_id = $2`,
		e.ShopID, e.ProductID, e.Quantity, e.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Upsert inserta o actualiza la cantidad del par y devuelve la fila resultante.
func (r *StockRepo) Upsert(ctx context.Context, e *entity.StockEntry) (*entity.StockEntry, error) {
	var out entity.StockEntry
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_entries AS se (id, shop_id, product_id, quantity, alert_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (shop_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING `+stockColumns,
		e.ID, e.ShopID, e.ProductID, e.Quantity, e.AlertThreshold, e.CreatedAt, e.UpdatedAt,
	).Scan(&out.ID, &out.ShopID, &out.ProductID, &out.Quantity, &out.AlertThreshold, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		switch {
		case isCheckViolation(err):
			return nil, domain.ErrInsufficientStock
		case isForeignKeyViolation(err):
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("upsert stock: %w", err)
	}
	return &out, nil
}

const stockViewQuery = `
	SELECT ` + stockColumns + `, s.name, p.name
	FROM stock_entries se
	JOIN shops s ON s.id = se.shop_id
	JOIN products p ON p.id = se.product_id`

func (r *StockRepo) ListByShop(ctx context.Context, shopID string) ([]*entity.StockEntryView, error) {
	rows, err := r.q.Query(ctx, stockViewQuery+` WHERE se.shop_id = $1 ORDER BY se.product_id`, shopID)
	if err != nil {
		return nil, fmt.Errorf("list stock by shop: %w", err)
	}
	return collectViews(rows)
}

func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, `SELECT `+stockColumns+` FROM stock_entries se WHERE se.product_id = $1 ORDER BY se.shop_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockEntry
	for rows.Next() {
		var e entity.StockEntry
		if err := scanStock(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// ListAvailableByShop filas con cantidad > 0 y el detalle del producto, por nombre.
func (r *StockRepo) ListAvailableByShop(ctx context.Context, shopID string) ([]repository.AvailableStock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+stockColumns+`, `+productColumns+`, m.name, b.id, b.name
		FROM stock_entries se
		JOIN products p ON p.id = se.product_id
		JOIN models m ON m.id = p.model_id
		JOIN brands b ON b.id = m.brand_id
		WHERE se.shop_id = $1 AND se.quantity > 0
		ORDER BY p.name, p.id`, shopID)
	if err != nil {
		return nil, fmt.Errorf("list available stock: %w", err)
	}
	defer rows.Close()
	var out []repository.AvailableStock
	for rows.Next() {
		var a repository.AvailableStock
		p := &a.Product.Product
		err := scanStock(rows, &a.Entry,
			&p.ID, &p.ModelID, &p.Name, &p.Price, &p.Color, &p.Capacity, &p.RAM,
			&p.OwnerUserID, &p.ImageRef, &p.Approved, &p.CreatedAt, &p.UpdatedAt,
			&a.Product.ModelName, &a.Product.BrandID, &a.Product.BrandName)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListLowStock paginación por clave (shop_id, product_id) sobre filas con cantidad < threshold.
func (r *StockRepo) ListLowStock(ctx context.Context, threshold int, after *entity.StockCursor, limit int) ([]*entity.StockEntryView, error) {
	var afterShop, afterProduct *string
	if after != nil {
		afterShop, afterProduct = &after.ShopID, &after.ProductID
	}
	rows, err := r.q.Query(ctx, stockViewQuery+`
		WHERE se.quantity < $1
		  AND ($2::text IS NULL OR (se.shop_id, se.product_id) > ($2::text, $3::text))
		ORDER BY se.shop_id, se.product_id
		LIMIT $4`, threshold, afterShop, afterProduct, limit)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectViews(rows)
}

// StockAlertRepo implementación de StockAlertRepository sobre PostgreSQL.
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador de alertas.
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

func (r *StockAlertRepo) Create(ctx context.Context, a *entity.StockAlert) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_alerts (id, shop_id, product_id, type, quantity, threshold, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.ShopID, a.ProductID, a.Type, a.Quantity, a.Threshold, a.Read, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock alert: %w", err)
	}
	return nil
}

// List alertas más recientes primero.
func (r *StockAlertRepo) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]*entity.StockAlert, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, shop_id, product_id, type, quantity, threshold, read, created_at
		FROM stock_alerts
		WHERE NOT $1 OR NOT read
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, unreadOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock alerts: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockAlert
	for rows.Next() {
		var a entity.StockAlert
		if err := rows.Scan(&a.ID, &a.ShopID, &a.ProductID, &a.Type, &a.Quantity, &a.Threshold, &a.Read, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *StockAlertRepo) MarkRead(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `UPDATE stock_alerts SET read = true WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("mark alert read: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
