package middleware

import (
	"encoding/json"
	"net/http"

	"go-shop-api/internal/model"
)

func writeError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Status:  model.StatusError,
		Code:    code,
		Message: message,
	})
}
