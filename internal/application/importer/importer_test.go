package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/eboutique-api/internal/application/stock"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/infrastructure/memory"
)

func newImporter(store *memory.Store) *Importer {
	repos := store.Repos()
	tx := memory.NewTxRunner(store)
	ledger := stock.NewLedger(tx, repos.Stock, repos.Shops, repos.Alerts, nil, stock.DefaultPolicy(), nil)
	return NewImporter(tx, ledger, nil)
}

func fieldErrors(t *testing.T, err error) domain.ValidationErrors {
	t.Helper()
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs), "se esperaba ValidationErrors, fue %v", err)
	return verrs
}

func TestImportShops_CreaTodasLasFilas(t *testing.T) {
	store := memory.NewStore()
	resp := store.SeedUser("resp@boutique.fr", entity.RoleResponsible)
	csv := "name,address,city,postal_code,latitude,longitude,email,responsible_id\n" +
		"Rivoli,1 rue de Rivoli,Paris,75001,48.8606,2.3376,rivoli@b.fr," + resp.ID + "\n" +
		"\n" +
		"Bellecour,2 place Bellecour,Lyon,69002,,,,\n"

	rep, err := newImporter(store).ImportShops(context.Background(), strings.NewReader(csv), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Rows)
	assert.Equal(t, 2, rep.Created)
	assert.Empty(t, rep.Errors)

	shops, err := store.Repos().Shops.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, shops, 2)
	byName := map[string]*entity.Shop{}
	for _, s := range shops {
		byName[s.Name] = s
	}
	require.NotNil(t, byName["Rivoli"].Location)
	assert.Equal(t, resp.ID, byName["Rivoli"].ResponsibleID)
	assert.Nil(t, byName["Bellecour"].Location)
}

func TestImportShops_ErroresPorLineaYNadaSeEscribe(t *testing.T) {
	store := memory.NewStore()
	csv := "name,address,city,postal_code,latitude,longitude,email,responsible_id\n" +
		"Rivoli,1 rue de Rivoli,Paris,75001,,,a@b.fr,\n" +
		",2 rue X,Paris,7500,,,a@b.fr,\n" +
		"Lyon,3 rue Y,Lyon,69002,45.7,,,no-existe\n"

	rep, err := newImporter(store).ImportShops(context.Background(), strings.NewReader(csv), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, rep.Created)

	lines := map[string]int{}
	for _, fe := range fieldErrors(t, err) {
		lines[fe.Field] = fe.Line
	}
	assert.Equal(t, 3, lines["name"])
	assert.Equal(t, 3, lines["postal_code"])
	assert.Equal(t, 3, lines["email"])
	assert.Equal(t, 4, lines["latitude/longitude"])
	assert.Equal(t, 4, lines["responsible_id"])
	assert.Len(t, rep.Errors, 5)

	shops, err := store.Repos().Shops.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, shops)
}

func TestImportShops_EmailExistenteHaceRollback(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	existing := store.SeedShop("Existente", nil, "")
	existing.Email = "dup@b.fr"
	require.NoError(t, store.Repos().Shops.Update(ctx, existing))

	csv := "name,address,city,postal_code,email\n" +
		"Nueva,1 rue A,Paris,75001,nueva@b.fr\n" +
		"Otra,2 rue B,Paris,75002,DUP@b.fr\n"
	_, err := newImporter(store).ImportShops(ctx, strings.NewReader(csv), Options{})
	verrs := fieldErrors(t, err)
	require.Len(t, verrs, 1)
	assert.Equal(t, 3, verrs[0].Line)

	shops, err := store.Repos().Shops.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, shops, 1)
}

func TestImportShops_Latin1(t *testing.T) {
	store := memory.NewStore()
	raw, err := charmap.ISO8859_1.NewEncoder().String("name;address;city;postal_code\nÉvry Centre;1 allée Agora;Évry;91000\n")
	require.NoError(t, err)

	_, err = newImporter(store).ImportShops(context.Background(), strings.NewReader(raw),
		Options{Charset: CharsetLatin1, Delimiter: ';'})
	require.NoError(t, err)

	shops, err := store.Repos().Shops.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, "Évry Centre", shops[0].Name)
	assert.Equal(t, "Évry", shops[0].City)
}

func TestImportShops_CabeceraIncompleta(t *testing.T) {
	_, err := newImporter(memory.NewStore()).ImportShops(context.Background(),
		strings.NewReader("name,city\nA,Paris\n"), Options{})
	verrs := fieldErrors(t, err)
	require.Len(t, verrs, 2)
	assert.Equal(t, 1, verrs[0].Line)
	assert.Equal(t, "address", verrs[0].Field)
	assert.Equal(t, "postal_code", verrs[1].Field)
}

func TestImportShops_ArchivoVacioOCharsetDesconocido(t *testing.T) {
	im := newImporter(memory.NewStore())
	_, err := im.ImportShops(context.Background(), strings.NewReader(""), Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = im.ImportShops(context.Background(), strings.NewReader("name,address,city,postal_code\n"), Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = im.ImportShops(context.Background(), strings.NewReader("x"), Options{Charset: "utf-16"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImportProducts_CreaProductoYStock(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seed := store.SeedProduct("Apple", "iPhone 13", "iPhone 13", 900)
	shop := store.SeedShop("Rivoli", nil, "")
	csv := "name,model_id,price,shop_id,quantity,color,capacity,ram,alert_threshold\n" +
		"iPhone 13 Azul," + seed.ModelID + ",899.90," + shop.ID + ",4,azul,128,4,2\n" +
		"iPhone 13 Rojo," + seed.ModelID + ",\"899,90\"," + shop.ID + ",1,rojo,,,\n"

	rep, err := newImporter(store).ImportProducts(ctx, strings.NewReader(csv), "u-1", Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Created)

	views, err := store.Repos().Stock.ListByShop(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	qty := map[string]int{}
	for _, v := range views {
		qty[v.ProductName] = v.Quantity
	}
	assert.Equal(t, 4, qty["iPhone 13 Azul"])
	assert.Equal(t, 1, qty["iPhone 13 Rojo"])
}

func TestImportProducts_ReferenciasYValoresInvalidos(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seed := store.SeedProduct("Apple", "iPhone 13", "iPhone 13", 900)
	shop := store.SeedShop("Rivoli", nil, "")
	csv := "name,model_id,price,shop_id,quantity\n" +
		"A,no-existe,10," + shop.ID + ",1\n" +
		"B," + seed.ModelID + ",-1," + shop.ID + ",0\n" +
		"C," + seed.ModelID + ",abc,no-existe,x\n"

	rep, err := newImporter(store).ImportProducts(ctx, strings.NewReader(csv), "u-1", Options{})
	verrs := fieldErrors(t, err)
	assert.Equal(t, 3, rep.Rows)
	assert.Equal(t, 0, rep.Created)

	got := map[int][]string{}
	for _, fe := range verrs {
		got[fe.Line] = append(got[fe.Line], fe.Field)
	}
	assert.Equal(t, []string{"model_id"}, got[2])
	assert.ElementsMatch(t, []string{"price", "quantity"}, got[3])
	assert.ElementsMatch(t, []string{"price", "quantity", "shop_id"}, got[4])

	products, err := store.Repos().Products.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
