package importer

import (
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
	"github.com/jhoicas/eboutique-api/pkg/geo"
)

var (
	shopRequired = []string{"name", "address", "city", "postal_code"}
	shopOptional = []string{"department", "latitude", "longitude", "phone", "email", "responsible_id"}

	postalCodeRe = regexp.MustCompile(`^[0-9]{5}$`)
	emailRe      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ImportShops valida e inserta boutiques. Columnas: name, address, city, postal_code,
// department, latitude, longitude, phone, email, responsible_id.
func (im *Importer) ImportShops(ctx context.Context, src io.Reader, opts Options) (*dto.ImportReport, error) {
	rows, err := readRows(src, opts, shopRequired, shopOptional)
	if err != nil {
		return report(0, 0, err), err
	}
	created := 0
	err = im.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		shops, err := im.validateShops(ctx, repos, rows)
		if err != nil {
			return err
		}
		for i, s := range shops {
			if err := repos.Shops.Create(ctx, s); err != nil {
				return writeError(rows[i].line, "email", err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		im.log.Warn().Err(err).Int("rows", len(rows)).Msg("importación de boutiques rechazada")
		return report(len(rows), 0, err), err
	}
	im.log.Info().Int("rows", len(rows)).Int("created", created).Msg("boutiques importadas")
	return report(len(rows), created, nil), nil
}

func (im *Importer) validateShops(ctx context.Context, repos repository.TxRepos, rows []row) ([]*entity.Shop, error) {
	var (
		c      collector
		out    = make([]*entity.Shop, 0, len(rows))
		emails = map[string]int{}
		users  = map[string]bool{}
		now    = time.Now().UTC()
	)
	for _, r := range rows {
		c.required(r, shopRequired...)
		shop := &entity.Shop{
			ID:         uuid.New().String(),
			Name:       r.get("name"),
			Address:    r.get("address"),
			City:       r.get("city"),
			PostalCode: r.get("postal_code"),
			Department: r.get("department"),
			Phone:      r.get("phone"),
			Email:      strings.ToLower(r.get("email")),
			Active:     true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if shop.PostalCode != "" && !postalCodeRe.MatchString(shop.PostalCode) {
			c.add(r.line, "postal_code", "debe tener 5 dígitos")
		}
		if shop.Email != "" {
			if !emailRe.MatchString(shop.Email) {
				c.add(r.line, "email", "formato inválido")
			} else if first, dup := emails[shop.Email]; dup {
				c.add(r.line, "email", "repetido en la línea "+strconv.Itoa(first))
			} else {
				emails[shop.Email] = r.line
			}
		}
		if (r.get("latitude") == "") != (r.get("longitude") == "") {
			c.add(r.line, "latitude/longitude", "se requieren ambas coordenadas")
		} else if lat, lon := c.optionalFloat(r, "latitude"), c.optionalFloat(r, "longitude"); lat != nil && lon != nil {
			p, err := geo.NewPoint(*lat, *lon)
			if err != nil {
				c.add(r.line, "latitude/longitude", err.Error())
			} else {
				shop.Location = &p
			}
		}
		if id := r.get("responsible_id"); id != "" {
			ok, seen := users[id]
			if !seen {
				u, err := repos.Users.GetByID(ctx, id)
				if err != nil {
					return nil, err
				}
				ok = u != nil
				users[id] = ok
			}
			if !ok {
				c.add(r.line, "responsible_id", "usuario inexistente")
			}
			shop.ResponsibleID = id
		}
		out = append(out, shop)
	}
	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return out, nil
}
