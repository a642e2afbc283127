package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
	"github.com/jhoicas/eboutique-api/pkg/geo"
)

var _ repository.ShopRepository = (*ShopRepo)(nil)

// ShopRepo implementación de ShopRepository sobre PostgreSQL + PostGIS.
type ShopRepo struct {
	q Querier
}

// NewShopRepository construye el adaptador de boutiques. Pasar pool o tx (Querier).
func NewShopRepository(q Querier) *ShopRepo {
	return &ShopRepo{q: q}
}

const shopColumns = `s.id, s.name, s.address, s.city, s.postal_code, s.department,
	ST_Y(s.location::geometry), ST_X(s.location::geometry), s.phone, COALESCE(s.email, ''),
	COALESCE(s.responsible_id, ''),
	COALESCE((SELECT array_agg(sm.user_id ORDER BY sm.user_id) FROM shop_managers sm WHERE sm.shop_id = s.id), '{}'),
	s.active, s.created_at, s.updated_at`

func scanShop(row pgx.Row, extra ...any) (*entity.Shop, error) {
	var (
		s        entity.Shop
		lat, lon *float64
	)
	dest := []any{&s.ID, &s.Name, &s.Address, &s.City, &s.PostalCode, &s.Department,
		&lat, &lon, &s.Phone, &s.Email, &s.ResponsibleID, &s.ManagerIDs, &s.Active, &s.CreatedAt, &s.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		s.Location = &geo.Point{Lat: *lat, Lon: *lon}
	}
	return &s, nil
}

func collectShops(rows pgx.Rows) ([]*entity.Shop, error) {
	defer rows.Close()
	var out []*entity.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func locationWKT(p *geo.Point) *string {
	if p == nil {
		return nil
	}
	wkt := p.WKT()
	return &wkt
}

func shopWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s shop: %w", op, err)
}

// Create inserta la boutique y sus gestionarios. Email repetido -> ErrDuplicate.
func (r *ShopRepo) Create(ctx context.Context, s *entity.Shop) error {
	query := `
		INSERT INTO shops (id, name, address, city, postal_code, department, location, phone, email, responsible_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, ST_GeogFromText($7::text), $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Address, s.City, s.PostalCode, s.Department, locationWKT(s.Location),
		s.Phone, nullIfEmpty(s.Email), nullIfEmpty(s.ResponsibleID), s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return shopWriteError("insert", err)
	}
	if len(s.ManagerIDs) > 0 {
		return r.SetManagers(ctx, s.ID, s.ManagerIDs)
	}
	return nil
}

// GetByID obtiene una boutique (nil si no existe).
func (r *ShopRepo) GetByID(ctx context.Context, id string) (*entity.Shop, error) {
	s, err := scanShop(r.q.QueryRow(ctx, `SELECT `+shopColumns+` FROM shops s WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return s, nil
}

func (r *ShopRepo) List(ctx context.Context, limit, offset int) ([]*entity.Shop, error) {
	rows, err := r.q.Query(ctx, `SELECT `+shopColumns+` FROM shops s ORDER BY s.name, s.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	return collectShops(rows)
}

// Update actualiza datos y ubicación. Responsable y gestionarios tienen sus propias operaciones.
func (r *ShopRepo) Update(ctx context.Context, s *entity.Shop) error {
	query := `
		UPDATE shops SET name = $2, address = $3, city = $4, postal_code = $5, department = $6,
			location = ST_GeogFromText($7::text), phone = $8, email = $9, active = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Address, s.City, s.PostalCode, s.Department, locationWKT(s.Location),
		s.Phone, nullIfEmpty(s.Email), s.Active, s.UpdatedAt,
	)
	if err != nil {
		return shopWriteError("update", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetResponsible asigna (o quita con "") el responsable.
func (r *ShopRepo) SetResponsible(ctx context.Context, shopID, userID string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE shops SET responsible_id = $2, updated_at = now() WHERE id = $1`, shopID, nullIfEmpty(userID))
	if err != nil {
		return shopWriteError("set responsible", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetManagers reemplaza el conjunto de gestionarios.
func (r *ShopRepo) SetManagers(ctx context.Context, shopID string, userIDs []string) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shops WHERE id = $1)`, shopID).Scan(&exists); err != nil {
		return fmt.Errorf("set managers: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM shop_managers WHERE shop_id = $1`, shopID); err != nil {
		return fmt.Errorf("clear managers: %w", err)
	}
	if len(userIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO shop_managers (shop_id, user_id)
		SELECT $1, u FROM unnest($2::text[]) AS u
		ON CONFLICT DO NOTHING`, shopID, userIDs)
	if err != nil {
		return shopWriteError("set managers", err)
	}
	return nil
}

// Delete elimina la boutique; stock y gestionarios caen en cascada.
func (r *ShopRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByProduct boutiques con una fila de stock del producto.
func (r *ShopRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Shop, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+shopColumns+`
		FROM shops s JOIN stock_entries se ON se.shop_id = s.id
		WHERE se.product_id = $1
		ORDER BY s.id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list shops by product: %w", err)
	}
	return collectShops(rows)
}

// ListWithinRadius boutiques a distancia geodésica <= radiusMeters, por distancia ascendente.
func (r *ShopRepo) ListWithinRadius(ctx context.Context, center geo.Point, radiusMeters float64) ([]entity.ShopDistance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+shopColumns+`, ST_Distance(s.location, ST_GeogFromText($1)) AS distance
		FROM shops s
		WHERE s.location IS NOT NULL AND ST_DWithin(s.location, ST_GeogFromText($1), $2)
		ORDER BY distance, s.id`, center.WKT(), radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("list shops within radius: %w", err)
	}
	defer rows.Close()
	var out []entity.ShopDistance
	for rows.Next() {
		var d float64
		s, err := scanShop(rows, &d)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.ShopDistance{Shop: s, Distance: d})
	}
	return out, rows.Err()
}
