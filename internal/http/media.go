package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gestaozabele/midia/internal/media"
	"github.com/gestaozabele/midia/internal/storage"
)

const headerMediaSource = "X-Adaptive-Media-Source"

// ServeMedia resolve a variante do caminho e transmite o conteúdo.
func (h *Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.EscapedPath(), strings.TrimRight(h.cfg.MediaPathPrefix, "/"))

	result, err := h.resolver.Resolve(r.Context(), &media.Request{Path: path})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível resolver a mídia", nil)
		return
	}
	if !result.Found() {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "mídia não encontrada", nil)
		return
	}

	// HEAD responde só com os metadados da variante, sem ler o storage
	if r.Method == http.MethodHead {
		setMediaHeaders(w.Header(), result)
		w.WriteHeader(http.StatusOK)
		return
	}

	body, err := result.Variant.Open(r.Context())
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "conteúdo não encontrado", nil)
			return
		}
		h.logger.Error().Err(err).Str("path", path).Msg("http: falha ao abrir conteúdo")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "conteúdo indisponível", nil)
		return
	}
	defer body.Close()

	setMediaHeaders(w.Header(), result)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn().Err(err).Str("path", path).Msg("http: transmissão interrompida")
	}
}

func setMediaHeaders(header http.Header, result media.Result) {
	attrs := result.Variant.Attributes

	contentType, ok := attrs.ContentType()
	if !ok {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	if length, ok := attrs.ContentLength(); ok {
		header.Set("Content-Length", strconv.FormatInt(length, 10))
	}
	if name, ok := attrs.FileName(); ok {
		header.Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))
	}
	header.Set(headerMediaSource, string(result.Source))
	if result.Source == media.SourceExact {
		header.Set("Cache-Control", "public, max-age=86400")
	} else {
		// variante provisória até a regeneração terminar
		header.Set("Cache-Control", "public, max-age=60")
	}
}
