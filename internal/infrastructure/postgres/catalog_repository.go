package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
)

var (
	_ repository.BrandRepository   = (*BrandRepo)(nil)
	_ repository.ModelRepository   = (*ModelRepo)(nil)
	_ repository.ProductRepository = (*ProductRepo)(nil)
)

// BrandRepo implementación de BrandRepository sobre PostgreSQL.
type BrandRepo struct {
	q Querier
}

// NewBrandRepository construye el adaptador de marcas. Pasar pool o tx (Querier).
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

// Create inserta la marca. Nombre repetido -> ErrDuplicate.
func (r *BrandRepo) Create(ctx context.Context, b *entity.Brand) error {
	_, err := r.q.Exec(ctx, `INSERT INTO brands (id, name, created_at) VALUES ($1, $2, $3)`, b.ID, b.Name, b.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

// GetByID obtiene una marca (nil si no existe).
func (r *BrandRepo) GetByID(ctx context.Context, id string) (*entity.Brand, error) {
	var b entity.Brand
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM brands WHERE id = $1`, id).Scan(&b.ID, &b.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return &b, nil
}

// List lista marcas por nombre.
func (r *BrandRepo) List(ctx context.Context, limit, offset int) ([]*entity.Brand, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM brands ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	var out []*entity.Brand
	for rows.Next() {
		var b entity.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// Update renombra la marca.
func (r *BrandRepo) Update(ctx context.Context, b *entity.Brand) error {
	cmd, err := r.q.Exec(ctx, `UPDATE brands SET name = $2 WHERE id = $1`, b.ID, b.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update brand: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HasModels indica si algún modelo referencia la marca.
func (r *BrandRepo) HasModels(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM models WHERE brand_id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("brand has models: %w", err)
	}
	return exists, nil
}

// Delete elimina la marca; modelos y productos caen en cascada.
func (r *BrandRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ModelRepo implementación de ModelRepository sobre PostgreSQL.
type ModelRepo struct {
	q Querier
}

// NewModelRepository construye el adaptador de modelos.
func NewModelRepository(q Querier) *ModelRepo {
	return &ModelRepo{q: q}
}

// Create inserta el modelo. Marca inexistente -> ErrNotFound.
func (r *ModelRepo) Create(ctx context.Context, m *entity.Model) error {
	_, err := r.q.Exec(ctx, `INSERT INTO models (id, brand_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		m.ID, m.BrandID, m.Name, m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert model: %w", err)
	}
	return nil
}

func (r *ModelRepo) GetByID(ctx context.Context, id string) (*entity.Model, error) {
	var m entity.Model
	err := r.q.QueryRow(ctx, `SELECT id, brand_id, name, created_at FROM models WHERE id = $1`, id).
		Scan(&m.ID, &m.BrandID, &m.Name, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get model: %w", err)
	}
	return &m, nil
}

func (r *ModelRepo) ListByBrand(ctx context.Context, brandID string) ([]*entity.Model, error) {
	rows, err := r.q.Query(ctx, `SELECT id, brand_id, name, created_at FROM models WHERE brand_id = $1 ORDER BY name, id`, brandID)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()
	var out []*entity.Model
	for rows.Next() {
		var m entity.Model
		if err := rows.Scan(&m.ID, &m.BrandID, &m.Name, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *ModelRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM models WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `p.id, p.model_id, p.name, p.price, p.color, p.capacity, p.ram,
	COALESCE(p.owner_user_id, ''), p.image_ref, p.approved, p.created_at, p.updated_at`

const productDetailsQuery = `
	SELECT ` + productColumns + `, m.name, b.id, b.name
	FROM products p
	JOIN models m ON m.id = p.model_id
	JOIN brands b ON b.id = m.brand_id`

func scanProduct(row pgx.Row, p *entity.Product, extra ...any) error {
	dest := []any{&p.ID, &p.ModelID, &p.Name, &p.Price, &p.Color, &p.Capacity, &p.RAM,
		&p.OwnerUserID, &p.ImageRef, &p.Approved, &p.CreatedAt, &p.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

func scanProductDetails(row pgx.Row) (*entity.ProductDetails, error) {
	var d entity.ProductDetails
	if err := scanProduct(row, &d.Product, &d.ModelName, &d.BrandID, &d.BrandName); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create persiste un nuevo producto. Modelo inexistente -> ErrNotFound.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, model_id, name, price, color, capacity, ram, owner_user_id, image_ref, approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ModelID, p.Name, p.Price, p.Color, p.Capacity, p.RAM,
		nullIfEmpty(p.OwnerUserID), p.ImageRef, p.Approved, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetDetails obtiene el producto con marca y modelo.
func (r *ProductRepo) GetDetails(ctx context.Context, id string) (*entity.ProductDetails, error) {
	d, err := scanProductDetails(r.q.QueryRow(ctx, productDetailsQuery+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product details: %w", err)
	}
	return d, nil
}

// LockByID bloquea la fila del producto hasta el fin de la transacción.
func (r *ProductRepo) LockByID(ctx context.Context, id string) (bool, error) {
	var got string
	err := r.q.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, id).Scan(&got)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lock product: %w", err)
	}
	return true, nil
}

// List lista productos con marca y modelo, por nombre.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.ProductDetails, error) {
	rows, err := r.q.Query(ctx, productDetailsQuery+` ORDER BY p.name, p.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var out []*entity.ProductDetails
	for rows.Next() {
		d, err := scanProductDetails(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update actualiza los atributos del producto (no toca approved ni el dueño).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET model_id = $2, name = $3, price = $4, color = $5, capacity = $6, ram = $7, image_ref = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.ModelID, p.Name, p.Price, p.Color, p.Capacity, p.RAM, p.ImageRef, p.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) SetApproved(ctx context.Context, id string, approved bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET approved = $2, updated_at = now() WHERE id = $1`, id, approved)
	if err != nil {
		return fmt.Errorf("approve product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el producto; stock_entries cae en cascada.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
