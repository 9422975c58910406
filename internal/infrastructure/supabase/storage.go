// Package supabase adaptadores para los servicios alojados de Supabase: Storage (REST) y Realtime (websocket).
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
)

var _ ports.BlobStorage = (*Storage)(nil)

// Storage cliente del API REST de Supabase Storage.
type Storage struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewStorage construye el cliente. httpClient nil usa uno con timeout de 30s.
func NewStorage(baseURL, serviceKey string, httpClient *http.Client) (*Storage, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("supabase: URL requerida")
	}
	if serviceKey == "" {
		return nil, fmt.Errorf("supabase: service key requerida")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Storage{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     serviceKey,
		httpClient: httpClient,
	}, nil
}

// Upload sube el objeto sin sobrescribir (x-upsert: false) con cache-control de una hora.
func (s *Storage) Upload(ctx context.Context, bucket, path, contentType string, body io.Reader, size int64) error {
	reqURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, url.PathEscape(bucket), escapePath(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if size > 0 {
		req.ContentLength = size
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "3600")
	req.Header.Set("x-upsert", "false")
	return s.do(req)
}

// Delete borra objetos del bucket.
func (s *Storage) Delete(ctx context.Context, bucket string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	body, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return fmt.Errorf("marshal prefixes: %w", err)
	}
	reqURL := fmt.Sprintf("%s/storage/v1/object/%s", s.baseURL, url.PathEscape(bucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

// PublicURL URL pública del objeto (bucket público).
func (s *Storage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, url.PathEscape(bucket), escapePath(path))
}

func (s *Storage) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
}

func (s *Storage) do(req *http.Request) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &errResp) == nil {
		if errResp.Message != "" {
			return fmt.Errorf("supabase storage: %s (status %d)", errResp.Message, resp.StatusCode)
		}
		if errResp.Error != "" {
			return fmt.Errorf("supabase storage: %s (status %d)", errResp.Error, resp.StatusCode)
		}
	}
	return fmt.Errorf("supabase storage: status %d", resp.StatusCode)
}

// escapePath escapa cada segmento conservando las barras.
func escapePath(p string) string {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
