package rest

import (
	"encoding/json"
	"net/http"

	"github.com/bathroomcodes/bathroomcodes_api/util"
	"github.com/bathroomcodes/bathroomcodes_api/util/tracing"
)

// ServerResponse is the error body shape. Successful search and list
// responses are bare JSON payloads; only failures are wrapped.
type ServerResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSONResponse(w http.ResponseWriter, v interface{}, statusCode int) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"message":"unable to marshal server response","status":"error"}`,
			http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}

func writeErrorResponse(w http.ResponseWriter, status, message string, tc *tracing.Context) {
	resp := ServerResponse{
		Message: message,
		Status:  status,
	}
	if tc != nil {
		resp.RequestID = tc.RequestID
	}
	writeJSONResponse(w, resp, util.StatusCode(status))
}
