// Package catalog lee el catálogo de productos desde CSV (id,name,price,quantity).
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

// Options de lectura.
type Options struct {
	// Latin1 decodifica la entrada como ISO-8859-1 (exportes de hojas de cálculo).
	Latin1 bool
}

// Read parsea y valida el catálogo. La primera fila se omite si es un encabezado.
// Separador "," o ";". IDs repetidos son un error.
func Read(r io.Reader, opts Options) ([]entity.Product, error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}

	cr := csv.NewReader(strings.NewReader(string(raw)))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 4
	cr.Comment = '#'
	if firstLine(string(raw), ';') {
		cr.Comma = ';'
	}

	var (
		products []entity.Product
		seen     = make(map[int64]int)
	)
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catálogo: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if first && isHeader(rec) {
			continue
		}
		p, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("catálogo línea %d: %w", line, err)
		}
		if prev, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("catálogo línea %d: producto %d repetido (línea %d)", line, p.ID, prev)
		}
		seen[p.ID] = line
		products = append(products, p)
	}
	return products, nil
}

// ReadFile abre path y delega en Read.
func ReadFile(path string, opts Options) ([]entity.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir catálogo: %w", err)
	}
	defer f.Close()
	return Read(f, opts)
}

func parseRecord(rec []string) (entity.Product, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
	if err != nil {
		return entity.Product{}, validation.Invalid("id %q no numérico", rec[0])
	}
	price, err := strconv.ParseInt(strings.TrimSpace(rec[2]), 10, 64)
	if err != nil {
		return entity.Product{}, validation.Invalid("price %q no numérico", rec[2])
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(rec[3]), 10, 64)
	if err != nil {
		return entity.Product{}, validation.Invalid("quantity %q no numérico", rec[3])
	}
	p := entity.Product{ID: id, Name: strings.TrimSpace(rec[1]), Price: price, Quantity: qty}
	if err := validation.Validate(p, validation.ProductRules()...); err != nil {
		return entity.Product{}, err
	}
	return p, nil
}

func isHeader(rec []string) bool {
	return strings.EqualFold(strings.TrimSpace(rec[0]), "id")
}

// firstLine indica si la primera línea no comentada usa sep como separador.
func firstLine(s string, sep rune) bool {
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		return strings.ContainsRune(l, sep) && !strings.ContainsRune(l, ',')
	}
	return false
}
