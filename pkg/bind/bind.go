// Package bind decodes JSON request bodies and runs validation in one step.
package bind

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/ecomstore/pkg/validate"
)

// ErrBadJSON is returned when the request body is not valid JSON.
var ErrBadJSON = errors.New("bind: malformed JSON body")

// JSON decodes the request body into dest and validates it.
// Returns the field-level validation errors (empty when valid) and a
// non-nil error only for undecodable bodies.
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	if r.Body == nil {
		return nil, ErrBadJSON
	}
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return nil, ErrBadJSON
	}
	return validate.Struct(dest), nil
}
