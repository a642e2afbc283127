// import_csv importa boutiques o productos desde un CSV con las mismas reglas que
// POST /api/import/{shops|products}: todas las filas se validan y nada se escribe si hay errores.
//
// Uso:
//
//	go run ./cmd/import_csv -kind shops -file boutiques.csv [-charset iso-8859-1] [-delimiter ';']
//	go run ./cmd/import_csv -kind products -file productos.csv -owner <user_id>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/importer"
	"github.com/jhoicas/eboutique-api/internal/application/stock"
	"github.com/jhoicas/eboutique-api/internal/infrastructure/postgres"
	"github.com/jhoicas/eboutique-api/pkg/config"
	"github.com/jhoicas/eboutique-api/pkg/logger"
)

func main() {
	kind := flag.String("kind", "", "shops | products")
	file := flag.String("file", "", "ruta del CSV")
	charset := flag.String("charset", importer.CharsetUTF8, "utf-8 | iso-8859-1")
	delimiter := flag.String("delimiter", ",", "separador de columnas")
	owner := flag.String("owner", "", "usuario propietario de los productos importados")
	flag.Parse()

	if *file == "" || (*kind != "shops" && *kind != "products") {
		flag.Usage()
		os.Exit(2)
	}
	delim, size := utf8.DecodeRuneInString(*delimiter)
	if size == 0 || size != len(*delimiter) {
		fmt.Fprintln(os.Stderr, "el separador debe ser un solo carácter")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema de base de datos")
	}

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	ledger := stock.NewLedger(txRunner, repos.Stock, repos.Shops, repos.Alerts, nil,
		stock.Policy{AlertThreshold: cfg.Stock.AlertThreshold, ArchiveOnDepletion: cfg.Stock.ArchiveOnDepletion}, log)
	imp := importer.NewImporter(txRunner, ledger, log)

	opts := importer.Options{Charset: *charset, Delimiter: delim}
	var rep *dto.ImportReport
	if *kind == "shops" {
		rep, err = imp.ImportShops(ctx, f, opts)
	} else {
		rep, err = imp.ImportProducts(ctx, f, *owner, opts)
	}
	if rep != nil {
		for _, e := range rep.Errors {
			fmt.Fprintln(os.Stderr, e.String())
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importación rechazada: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d filas leídas, %d %s creados\n", rep.Rows, rep.Created, *kind)
}
