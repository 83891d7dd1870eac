package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/ladderflow/pkg/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code     errors.Code `json:"code,omitempty"`
	Error    string      `json:"error"`
	Problems []string    `json:"problems,omitempty"`
}

// writeProblem maps the error's code to a status and writes the standard
// error envelope.
func writeProblem(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	resp := errorResponse{Code: code, Error: errors.UserMessage(err)}
	if p := errors.Problems(err); len(p) > 1 {
		resp.Problems = p
	}
	writeJSON(w, statusOf(code), resp)
}

func statusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidIdentifier:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidRung, errors.ErrCodeInvalidFlow, errors.ErrCodeInvalidProject:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
