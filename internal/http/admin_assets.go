package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gestaozabele/midia/internal/asset"
	httpmiddleware "github.com/gestaozabele/midia/internal/http/middleware"
	"github.com/gestaozabele/midia/internal/variant"
)

const maxUploadBytes = 32 << 20

// RegisterAsset recebe o corpo bruto de uma nova versão de arquivo.
// Query: fileName obrigatório, assetId opcional para nova versão de um arquivo existente.
func (h *Handler) RegisterAsset(w http.ResponseWriter, r *http.Request) {
	var assetID uuid.UUID
	if raw := strings.TrimSpace(r.URL.Query().Get("assetId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", "assetId inválido", nil)
			return
		}
		assetID = id
	}

	body, ok := readUpload(w, r)
	if !ok {
		return
	}

	rec, err := h.assets.Register(r.Context(), asset.RegisterInput{
		TenantID: httpmiddleware.GetTenant(r.Context()),
		AssetID:  assetID,
		FileName: r.URL.Query().Get("fileName"),
		MimeType: r.Header.Get("Content-Type"),
		Body:     body,
	})
	if err != nil {
		writeServiceError(w, err, "não foi possível registrar arquivo")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// RegisterVariant grava uma variante produzida para a versão informada.
// Query: configurationUuid, width e height obrigatórios; fileName opcional.
func (h *Handler) RegisterVariant(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(chi.URLParam(r, "assetID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "assetID inválido", nil)
		return
	}
	versionID, err := strconv.ParseInt(chi.URLParam(r, "versionID"), 10, 64)
	if err != nil || versionID <= 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION", "versionID inválido", nil)
		return
	}
	query := r.URL.Query()
	width, errW := strconv.Atoi(query.Get("width"))
	height, errH := strconv.Atoi(query.Get("height"))
	if errW != nil || errH != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "width e height são obrigatórios", nil)
		return
	}

	a, err := h.assets.Lookup(r.Context(), assetID, versionID)
	if err != nil {
		writeServiceError(w, err, "não foi possível carregar arquivo")
		return
	}
	tenantID := httpmiddleware.GetTenant(r.Context())
	if a.TenantID != tenantID {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "arquivo não encontrado", nil)
		return
	}

	configurationUUID := strings.TrimSpace(query.Get("configurationUuid"))
	if configurationUUID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "configurationUuid é obrigatório", nil)
		return
	}
	entry, found, err := h.configurations.Resolve(r.Context(), tenantID, configurationUUID)
	if err != nil {
		h.logger.Error().Err(err).Str("configuration", configurationUUID).Msg("http: falha ao buscar configuração")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar configuração", nil)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "configuração não encontrada", nil)
		return
	}

	body, ok := readUpload(w, r)
	if !ok {
		return
	}

	rec, err := h.variants.Register(r.Context(), variant.RegisterInput{
		Asset:             a,
		ConfigurationUUID: entry.UUID,
		FileName:          query.Get("fileName"),
		MimeType:          r.Header.Get("Content-Type"),
		Width:             width,
		Height:            height,
		Body:              body,
	})
	if err != nil {
		writeServiceError(w, err, "não foi possível registrar variante")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "VALIDATION", "arquivo excede o limite", nil)
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return nil, false
	}
	return body, true
}
