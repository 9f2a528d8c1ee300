package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-crypto-dash/apimodel"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeDetail writes the {"detail": ...} body the token endpoints use.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, apimodel.ErrorResponse{Detail: detail})
}

// writeError writes the {"error": ...} body the signup endpoint uses.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apimodel.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
