package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gestaozabele/midia/internal/asset"
	"github.com/gestaozabele/midia/internal/configuration"
	"github.com/gestaozabele/midia/internal/variant"
)

// envelope é o formato comum das respostas JSON: {data, error}.
type envelope struct {
	Data  any       `json:"data"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: &apiError{Code: code, Message: message, Details: details}})
}

// serviceErrors mapeia sentinelas de domínio para status HTTP. A primeira que casar vence.
var serviceErrors = []struct {
	target  error
	status  int
	code    string
	message string
}{
	{configuration.ErrInvalidConfiguration, http.StatusBadRequest, "VALIDATION", ""},
	{asset.ErrInvalidInput, http.StatusBadRequest, "VALIDATION", ""},
	{variant.ErrInvalidInput, http.StatusBadRequest, "VALIDATION", ""},
	{configuration.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "configuração não encontrada"},
	{asset.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "arquivo não encontrado"},
	{configuration.ErrConflict, http.StatusConflict, "CONFLICT", "configuração já existe"},
}

// writeServiceError traduz erros de domínio. Mensagens vazias repassam err.Error();
// erros desconhecidos viram 500 com fallback.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			writeError(w, m.status, m.code, msg, nil)
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "INTERNAL", fallback, nil)
}
