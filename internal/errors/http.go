package errors

import (
	"encoding/json"
	"net/http"
)

// HTTPError is the JSON body written for failed API requests.
type HTTPError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// HTTPStatus returns the HTTP status code for an error. Plain errors map to
// 500; nil maps to 200.
func HTTPStatus(err error) int {
	return GetCode(err).HTTPStatus()
}

// WriteHTTP writes err as a JSON error response with the status derived from
// its code. Internal error details stay out of the body; only the
// user-friendly message and metadata are exposed.
func WriteHTTP(w http.ResponseWriter, err error) {
	body := HTTPError{
		Code:    GetCode(err).String(),
		Message: GetMessage(err),
		Meta:    GetMeta(err),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(err))

	// Encoding a flat struct of strings and a map cannot realistically
	// fail; ignore the error the same way http.Error does.
	_ = json.NewEncoder(w).Encode(body)
}
