// seed_categories genera la migración SQL que puebla la tabla categories
// a partir de un archivo de texto con una categoría por línea: "nombre|descripción".
// Las líneas vacías y las que empiezan por # se ignoran.
//
// Uso: go run ./cmd/seed_categories [ruta/categories.txt]
// El archivo puede estar en UTF-8 o en ISO-8859-1 (exportaciones de Excel); se detecta solo.
// Escribe: internal/infrastructure/postgres/migrations/000002_seed_categories.{up,down}.sql
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type category struct {
	name        string
	description string
}

func main() {
	path := filepath.Join("cmd", "seed_categories", "categories.txt")
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer archivo: %v\n", err)
		os.Exit(1)
	}

	cats, err := parseCategories(decode(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Procesar archivo: %v\n", err)
		os.Exit(1)
	}
	if len(cats) == 0 {
		fmt.Fprintln(os.Stderr, "El archivo no contiene categorías")
		os.Exit(1)
	}

	dir := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations")
	if err := os.WriteFile(filepath.Join(dir, "000002_seed_categories.up.sql"), []byte(upSQL(cats)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir up: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(filepath.Join(dir, "000002_seed_categories.down.sql"), []byte(downSQL(cats)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir down: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d categorías\n", dir, len(cats))
}

// decode devuelve raw como UTF-8. Si no es UTF-8 válido se asume ISO-8859-1.
func decode(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

func parseCategories(r io.Reader) ([]category, error) {
	var out []category
	seen := make(map[string]bool)
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, desc, _ := strings.Cut(line, "|")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("línea %d: nombre vacío", n)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("línea %d: categoría duplicada %q", n, name)
		}
		seen[strings.ToLower(name)] = true
		out = append(out, category{name: name, description: strings.TrimSpace(desc)})
	}
	return out, sc.Err()
}

func upSQL(cats []category) string {
	var b strings.Builder
	b.WriteString("-- Generado con cmd/seed_categories.\n")
	b.WriteString("INSERT INTO categories (name, description) VALUES\n")
	for i, c := range cats {
		sep := ","
		if i == len(cats)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    ('%s', '%s')%s\n", escapeSQL(c.name), escapeSQL(c.description), sep)
	}
	b.WriteString("ON CONFLICT (name) DO NOTHING;\n")
	return b.String()
}

func downSQL(cats []category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = "'" + escapeSQL(c.name) + "'"
	}
	return "DELETE FROM categories WHERE name IN (\n    " + strings.Join(names, ", ") + "\n);\n"
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
