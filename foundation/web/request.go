package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dimfeld/httptreemux/v5"
	"github.com/francefarms/bioestate/foundation/validate"
)

// Param returns the web call parameters from the request.
func Param(r *http.Request, key string) string {
	m := httptreemux.ContextParams(r.Context())
	return m[key]
}

// Decode reads the body of an HTTP request looking for a JSON document. The
// body is decoded into the provided value.
//
// If the provided value is a struct then it is checked for validation tags.
func Decode(r *http.Request, val any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(val); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	if err := validate.Check(val); err != nil {
		return err
	}

	return nil
}

// FormDecoder is implemented by values that know how to read themselves
// from url encoded form values.
type FormDecoder interface {
	DecodeForm(form url.Values) error
}

// DecodeForm parses the url encoded body of the request and decodes it into
// the provided value before checking its validation tags.
func DecodeForm(r *http.Request, val FormDecoder) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("unable to parse form: %w", err)
	}

	if err := val.DecodeForm(r.PostForm); err != nil {
		return fmt.Errorf("unable to decode form: %w", err)
	}

	if err := validate.Check(val); err != nil {
		return err
	}

	return nil
}
