package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gestaozabele/midia/internal/configuration"
	httpmiddleware "github.com/gestaozabele/midia/internal/http/middleware"
)

type configurationPayload struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxWidth    int    `json:"maxWidth"`
	MaxHeight   int    `json:"maxHeight"`
	Enabled     *bool  `json:"enabled"`
}

// ListConfigurations devolve as configurações do tenant.
func (h *Handler) ListConfigurations(w http.ResponseWriter, r *http.Request) {
	entries, err := h.configurations.List(r.Context(), httpmiddleware.GetTenant(r.Context()))
	if err != nil {
		writeServiceError(w, err, "não foi possível listar configurações")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"configurations": entries})
}

// CreateConfiguration cadastra uma configuração.
func (h *Handler) CreateConfiguration(w http.ResponseWriter, r *http.Request) {
	var payload configurationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	entry, err := h.configurations.Create(r.Context(), configuration.CreateInput{
		TenantID:    httpmiddleware.GetTenant(r.Context()),
		UUID:        payload.UUID,
		Name:        payload.Name,
		Description: payload.Description,
		MaxWidth:    payload.MaxWidth,
		MaxHeight:   payload.MaxHeight,
		Enabled:     payload.Enabled,
	})
	if err != nil {
		writeServiceError(w, err, "não foi possível criar configuração")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// GetConfiguration devolve uma configuração.
func (h *Handler) GetConfiguration(w http.ResponseWriter, r *http.Request) {
	entry, ok, err := h.configurations.Resolve(r.Context(), httpmiddleware.GetTenant(r.Context()), configurationParam(r))
	if err != nil {
		writeServiceError(w, err, "não foi possível carregar configuração")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "configuração não encontrada", nil)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// UpdateConfiguration altera nome, descrição e dimensões.
func (h *Handler) UpdateConfiguration(w http.ResponseWriter, r *http.Request) {
	var payload configurationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	err := h.configurations.Update(r.Context(), httpmiddleware.GetTenant(r.Context()), configurationParam(r), configuration.UpdateInput{
		Name:        payload.Name,
		Description: payload.Description,
		MaxWidth:    payload.MaxWidth,
		MaxHeight:   payload.MaxHeight,
	})
	if err != nil {
		writeServiceError(w, err, "não foi possível atualizar configuração")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteConfiguration remove a configuração.
func (h *Handler) DeleteConfiguration(w http.ResponseWriter, r *http.Request) {
	if err := h.configurations.Delete(r.Context(), httpmiddleware.GetTenant(r.Context()), configurationParam(r)); err != nil {
		writeServiceError(w, err, "não foi possível remover configuração")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EnableConfiguration habilita a configuração.
func (h *Handler) EnableConfiguration(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, true)
}

// DisableConfiguration desabilita a configuração.
func (h *Handler) DisableConfiguration(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, false)
}

func (h *Handler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	if err := h.configurations.SetEnabled(r.Context(), httpmiddleware.GetTenant(r.Context()), configurationParam(r), enabled); err != nil {
		writeServiceError(w, err, "não foi possível alterar configuração")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func configurationParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "configurationUUID"))
}
