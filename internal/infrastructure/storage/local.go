// Package storage almacenamiento de imágenes en el sistema de archivos local (desarrollo y despliegues sin Supabase).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
)

var _ ports.BlobStorage = (*Local)(nil)

// Local guarda los objetos en dir/<bucket>/<path>; se sirven estáticos bajo publicBaseURL.
type Local struct {
	dir           string
	publicBaseURL string
}

// NewLocal crea el directorio raíz si no existe.
func NewLocal(dir, publicBaseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de uploads: %w", err)
	}
	return &Local{dir: dir, publicBaseURL: strings.TrimSuffix(publicBaseURL, "/")}, nil
}

// Dir directorio raíz (para montarlo como estático).
func (l *Local) Dir() string { return l.dir }

func (l *Local) resolve(bucket, p string) (string, error) {
	clean := path.Clean("/" + bucket + "/" + p)
	if bucket == "" || strings.ContainsAny(bucket, `/\.`) || !strings.HasPrefix(clean, "/"+bucket+"/") {
		return "", fmt.Errorf("ruta inválida %q", p)
	}
	return filepath.Join(l.dir, filepath.FromSlash(clean)), nil
}

// Upload escribe el archivo. Falla si ya existe.
func (l *Local) Upload(_ context.Context, bucket, p, _ string, body io.Reader, _ int64) error {
	dst, err := l.resolve(bucket, p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("crear carpeta: %w", err)
	}
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("crear archivo: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("escribir archivo: %w", err)
	}
	return f.Close()
}

// Delete elimina los archivos; los que no existen se ignoran.
func (l *Local) Delete(_ context.Context, bucket string, paths ...string) error {
	for _, p := range paths {
		dst, err := l.resolve(bucket, p)
		if err != nil {
			return err
		}
		if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("eliminar archivo: %w", err)
		}
	}
	return nil
}

// PublicURL URL bajo la que Fiber sirve el archivo.
func (l *Local) PublicURL(bucket, p string) string {
	return l.publicBaseURL + "/" + bucket + "/" + strings.TrimPrefix(p, "/")
}
