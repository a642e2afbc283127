package importer

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
)

var (
	productRequired = []string{"name", "model_id", "price", "shop_id", "quantity"}
	productOptional = []string{"color", "capacity", "ram", "alert_threshold"}
)

type productRow struct {
	product   *entity.Product
	shopID    string
	quantity  int
	threshold *int
}

// ImportProducts valida e inserta productos con su stock inicial. Columnas: name, model_id,
// price, shop_id, quantity, color, capacity, ram, alert_threshold.
func (im *Importer) ImportProducts(ctx context.Context, src io.Reader, ownerID string, opts Options) (*dto.ImportReport, error) {
	rows, err := readRows(src, opts, productRequired, productOptional)
	if err != nil {
		return report(0, 0, err), err
	}
	created := 0
	err = im.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		items, err := im.validateProducts(ctx, repos, rows, ownerID)
		if err != nil {
			return err
		}
		for i, it := range items {
			if err := repos.Products.Create(ctx, it.product); err != nil {
				return writeError(rows[i].line, "name", err)
			}
			if _, err := im.stocker.CreateInitialStockTx(ctx, repos, it.shopID, it.product.ID, it.quantity, it.threshold); err != nil {
				return writeError(rows[i].line, "shop_id", err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		im.log.Warn().Err(err).Int("rows", len(rows)).Msg("importación de productos rechazada")
		return report(len(rows), 0, err), err
	}
	im.log.Info().Int("rows", len(rows)).Int("created", created).Msg("productos importados")
	return report(len(rows), created, nil), nil
}

func (im *Importer) validateProducts(ctx context.Context, repos repository.TxRepos, rows []row, ownerID string) ([]productRow, error) {
	var (
		c      collector
		out    = make([]productRow, 0, len(rows))
		models = map[string]bool{}
		shops  = map[string]bool{}
		now    = time.Now().UTC()
	)
	exists := func(cache map[string]bool, id string, get func(string) (bool, error)) (bool, error) {
		if ok, seen := cache[id]; seen {
			return ok, nil
		}
		ok, err := get(id)
		if err != nil {
			return false, err
		}
		cache[id] = ok
		return ok, nil
	}
	for _, r := range rows {
		c.required(r, productRequired...)
		p := &entity.Product{
			ID:          uuid.New().String(),
			ModelID:     r.get("model_id"),
			Name:        r.get("name"),
			Color:       r.get("color"),
			OwnerUserID: ownerID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if v := r.get("price"); v != "" {
			price, err := decimal.NewFromString(strings.Replace(v, ",", ".", 1))
			switch {
			case err != nil:
				c.add(r.line, "price", "debe ser numérico")
			case price.IsNegative():
				c.add(r.line, "price", "no puede ser negativo")
			default:
				p.Price = price
			}
		}
		if v := r.get("capacity"); v != "" {
			capacity, err := decimal.NewFromString(strings.Replace(v, ",", ".", 1))
			switch {
			case err != nil:
				c.add(r.line, "capacity", "debe ser numérico")
			case capacity.IsNegative():
				c.add(r.line, "capacity", "no puede ser negativa")
			default:
				p.Capacity = capacity
			}
		}
		if ram := c.optionalInt(r, "ram", 0); ram != nil {
			p.RAM = *ram
		}
		item := productRow{product: p, shopID: r.get("shop_id")}
		if r.get("quantity") != "" {
			if q := c.optionalInt(r, "quantity", 1); q != nil {
				item.quantity = *q
			}
		}
		item.threshold = c.optionalInt(r, "alert_threshold", 0)

		if p.ModelID != "" {
			ok, err := exists(models, p.ModelID, func(id string) (bool, error) {
				m, err := repos.Models.GetByID(ctx, id)
				return m != nil, err
			})
			if err != nil {
				return nil, err
			}
			if !ok {
				c.add(r.line, "model_id", domain.ErrNotFound.Error())
			}
		}
		if item.shopID != "" {
			ok, err := exists(shops, item.shopID, func(id string) (bool, error) {
				s, err := repos.Shops.GetByID(ctx, id)
				return s != nil, err
			})
			if err != nil {
				return nil, err
			}
			if !ok {
				c.add(r.line, "shop_id", domain.ErrNotFound.Error())
			}
		}
		out = append(out, item)
	}
	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return out, nil
}
