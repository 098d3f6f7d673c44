package http

import (
	"encoding/json"
	"net/http"
)

// successEnvelope is the standard success wrapper:
// {"success":true,"data":...}.
type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(successEnvelope{Success: true, Data: data})
}
