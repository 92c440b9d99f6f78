// seed_products genera un script SQL para poblar el catálogo de productos
// a partir de un CSV (id,name,price,quantity).
//
// Uso: go run ./cmd/seed_products -in productos.csv [-latin1] [-out ruta.sql]
// Por defecto escribe: internal/infrastructure/postgres/migrations/002_seed_products.sql
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/catalog"
)

func main() {
	in := flag.String("in", "productos.csv", "CSV de entrada (id,name,price,quantity)")
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1")
	out := flag.String("out", "", "script SQL de salida")
	flag.Parse()

	products, err := catalog.ReadFile(*in, catalog.Options{Latin1: *latin1})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_products.sql")
	}
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeSQL(w, *in, products); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generado %s: %d productos\n", outPath, len(products))
}

// writeSQL escribe un único INSERT … ON CONFLICT ordenado por id para salida estable.
func writeSQL(w io.Writer, source string, products []entity.Product) error {
	sorted := append([]entity.Product(nil), products...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var b strings.Builder
	b.WriteString("-- Catálogo de productos\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", filepath.Base(source))
	if len(sorted) == 0 {
		b.WriteString("-- (sin productos)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("INSERT INTO products (id, name, price, quantity) VALUES\n")
	for i, p := range sorted {
		sep := ","
		if i == len(sorted)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  (%d, '%s', %d, %d)%s\n", p.ID, escapeSQL(p.Name), p.Price, p.Quantity, sep)
	}
	b.WriteString("ON CONFLICT (id) DO UPDATE\n")
	b.WriteString("SET name = EXCLUDED.name, price = EXCLUDED.price, quantity = EXCLUDED.quantity;\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
