package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// S3Config descreve o bucket S3 ou R2 onde ficam originais e variantes.
type S3Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	PublicDomain string
	HTTPClient   *http.Client
}

func (cfg S3Config) validate() error {
	switch {
	case strings.TrimSpace(cfg.Endpoint) == "":
		return errors.New("storage: endpoint do S3 ausente")
	case !strings.HasPrefix(cfg.Endpoint, "http://") && !strings.HasPrefix(cfg.Endpoint, "https://"):
		return errors.New("storage: endpoint deve incluir protocolo http/https")
	case strings.TrimSpace(cfg.Region) == "":
		return errors.New("storage: região do S3 ausente")
	case strings.TrimSpace(cfg.Bucket) == "":
		return errors.New("storage: bucket do S3 ausente")
	case strings.TrimSpace(cfg.AccessKey) == "", strings.TrimSpace(cfg.SecretKey) == "":
		return errors.New("storage: credenciais do S3 ausentes")
	}
	return nil
}

// S3Store grava, lê e remove objetos por requisições path-style assinadas com SigV4.
type S3Store struct {
	endpoint     string
	bucket       string
	publicDomain string
	signer       *signer
	client       *http.Client
}

// NewS3Store valida a configuração e monta o cliente.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &S3Store{
		endpoint:     strings.TrimRight(cfg.Endpoint, "/"),
		bucket:       cfg.Bucket,
		publicDomain: strings.TrimRight(strings.TrimSpace(cfg.PublicDomain), "/"),
		signer:       newSigner(cfg.AccessKey, cfg.SecretKey, cfg.Region, "s3"),
		client:       client,
	}, nil
}

// Upload grava o objeto e devolve a URL pública quando PublicDomain está definido.
func (s *S3Store) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if len(input.Body) == 0 {
		return nil, errors.New("storage: corpo vazio")
	}

	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := http.Header{"Content-Type": {contentType}}
	if cc := strings.TrimSpace(input.CacheControl); cc != "" {
		header.Set("Cache-Control", cc)
	}

	resp, err := s.do(ctx, http.MethodPut, input.Key, input.Body, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "upload"); err != nil {
		return nil, err
	}

	target, escaped := s.objectURL(input.Key)
	if s.publicDomain != "" {
		target = s.publicDomain + "/" + escaped
	}
	return &UploadResult{URL: target, ETag: strings.Trim(resp.Header.Get("ETag"), `"`)}, nil
}

// Open devolve o corpo do objeto. O chamador fecha o reader.
func (s *S3Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.do(ctx, http.MethodGet, key, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrObjectNotFound
	}
	if err := checkStatus(resp, "leitura"); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// Delete remove o objeto. Chave inexistente não é erro.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	resp, err := s.do(ctx, http.MethodDelete, key, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return checkStatus(resp, "remoção")
}

func (s *S3Store) do(ctx context.Context, method, key string, body []byte, header http.Header) (*http.Response, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("storage: chave do objeto obrigatória")
	}

	target, _ := s.objectURL(key)
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.ContentLength = int64(len(body))
	if len(body) > 0 {
		req.Header.Set("Content-Length", strconv.Itoa(len(body)))
	}

	sum := sha256.Sum256(body)
	s.signer.sign(req, hex.EncodeToString(sum[:]))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: %s %s: %w", method, key, err)
	}
	return resp, nil
}

func (s *S3Store) objectURL(key string) (string, string) {
	escaped := (&url.URL{Path: strings.TrimLeft(key, "/")}).EscapedPath()
	return s.endpoint + "/" + s.bucket + "/" + escaped, escaped
}

func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("storage: %s falhou (%d): %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
}
