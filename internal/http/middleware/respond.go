package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError segue o envelope {data, error} das respostas da API.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":  nil,
		"error": map[string]string{"code": code, "message": message},
	})
}
