// Package importer implementa la importación masiva de boutiques y productos desde CSV.
// Todas las filas se validan antes de escribir; cualquier error deja la base intacta.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/ports"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
	"github.com/jhoicas/eboutique-api/pkg/logger"
)

// MaxRows límite de filas de datos por archivo.
const MaxRows = 10000

// Charsets aceptados.
const (
	CharsetUTF8   = "utf-8"
	CharsetLatin1 = "iso-8859-1"
)

// Options opciones de lectura del CSV.
type Options struct {
	Charset   string // utf-8 (por defecto) o iso-8859-1
	Delimiter rune   // ',' por defecto
}

// InitialStocker crea la fila de stock inicial dentro de la transacción de importación.
type InitialStocker interface {
	CreateInitialStockTx(ctx context.Context, repos repository.TxRepos, shopID, productID string, qty int, threshold *int) (*entity.StockEntry, error)
}

// Importer importación all-or-nothing de boutiques y productos.
type Importer struct {
	txRunner ports.TxRunner
	stocker  InitialStocker
	log      *logger.Logger
}

// NewImporter construye el importador.
func NewImporter(txRunner ports.TxRunner, stocker InitialStocker, log *logger.Logger) *Importer {
	if log == nil {
		log = logger.Nop()
	}
	return &Importer{txRunner: txRunner, stocker: stocker, log: log.Component("importer")}
}

// row fila de datos con su número de línea en el archivo (la cabecera es la línea 1).
type row struct {
	line   int
	values map[string]string
}

func (r row) get(col string) string { return strings.TrimSpace(r.values[col]) }

// readRows lee el CSV completo, valida la cabecera y devuelve las filas no vacías.
func readRows(src io.Reader, opts Options, required, optional []string) ([]row, error) {
	var in io.Reader = src
	switch strings.ToLower(opts.Charset) {
	case "", CharsetUTF8, "utf8":
	case CharsetLatin1, "latin1", "latin-1":
		in = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, domain.Invalid("charset", "debe ser utf-8 o iso-8859-1")
	}
	r := csv.NewReader(in)
	if opts.Delimiter != 0 {
		r.Comma = opts.Delimiter
	}
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.Invalid("file", "archivo vacío")
	}
	if err != nil {
		return nil, domain.ValidationErrors{{Line: 1, Field: "file", Message: err.Error()}}
	}
	cols := make([]string, len(header))
	index := map[string]bool{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		cols[i] = h
		index[h] = true
	}
	var missing domain.ValidationErrors
	for _, c := range required {
		if !index[c] {
			missing = append(missing, domain.FieldError{Line: 1, Field: c, Message: "columna obligatoria ausente"})
		}
	}
	if len(missing) > 0 {
		return nil, missing
	}
	known := map[string]bool{}
	for _, c := range append(append([]string{}, required...), optional...) {
		known[c] = true
	}

	var rows []row
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, domain.ValidationErrors{{Line: line, Field: "file", Message: err.Error()}}
		}
		line, _ := r.FieldPos(0)
		values := map[string]string{}
		empty := true
		for i, v := range rec {
			if i < len(cols) && known[cols[i]] {
				values[cols[i]] = v
				if strings.TrimSpace(v) != "" {
					empty = false
				}
			}
		}
		if empty {
			continue
		}
		if len(rows) == MaxRows {
			return nil, domain.Invalid("file", fmt.Sprintf("máximo %d filas", MaxRows))
		}
		rows = append(rows, row{line: line, values: values})
	}
	if len(rows) == 0 {
		return nil, domain.Invalid("file", "sin filas de datos")
	}
	return rows, nil
}

// collector acumula errores por fila.
type collector struct {
	errs domain.ValidationErrors
}

func (c *collector) add(line int, field, msg string) {
	c.errs = append(c.errs, domain.FieldError{Line: line, Field: field, Message: msg})
}

func (c *collector) required(r row, cols ...string) {
	for _, col := range cols {
		if r.get(col) == "" {
			c.add(r.line, col, "obligatorio")
		}
	}
}

func (c *collector) optionalInt(r row, col string, min int) *int {
	v := r.get(col)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.add(r.line, col, "debe ser un entero")
		return nil
	}
	if n < min {
		c.add(r.line, col, fmt.Sprintf("debe ser >= %d", min))
		return nil
	}
	return &n
}

func (c *collector) optionalFloat(r row, col string) *float64 {
	v := strings.Replace(r.get(col), ",", ".", 1)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.add(r.line, col, "debe ser numérico")
		return nil
	}
	return &f
}

// writeError convierte un fallo de escritura en error de la fila cuando es un conflicto conocido.
func writeError(line int, field string, err error) error {
	switch {
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrNotFound):
		return domain.ValidationErrors{{Line: line, Field: field, Message: err.Error()}}
	}
	return fmt.Errorf("línea %d: %w", line, err)
}

func report(rows, created int, err error) *dto.ImportReport {
	rep := &dto.ImportReport{Rows: rows, Created: created}
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		rep.Errors = verrs
		rep.Created = 0
	}
	return rep
}
