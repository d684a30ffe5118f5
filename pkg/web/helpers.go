package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// maxCodeLength caps the product code accepted in a URL path.
const maxCodeLength = 50

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// ParseCode extracts the product code from the request path. Empty or
// oversized values can never name a live record, so they are answered with
// not-found. Returns the code and a boolean indicating success.
func ParseCode(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	code := r.PathValue("code")
	if code == "" || len(code) > maxCodeLength {
		RespondError(w, logger, http.StatusNotFound, fmt.Sprintf("Product with code %q not found", code))
		return "", false
	}
	return code, true
}
