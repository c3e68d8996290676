package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tailscale/hujson"
)

// JSONOptions configures how JSON request bodies are decoded. Property names
// are always matched ignoring case.
type JSONOptions struct {
	// AllowTrailingCommas accepts trailing commas and comments in objects and
	// arrays.
	AllowTrailingCommas bool
	// DisallowUnknownFields rejects objects with properties that don't exist
	// in the target type.
	DisallowUnknownFields bool
	// UseNumber decodes numbers into json.Number instead of float64, when the
	// target is an interface value.
	UseNumber bool
}

// DefaultJSONOptions returns the options used by MapJSON.
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{AllowTrailingCommas: true}
}

// ReadJSON decodes the request body into a value of type T. It returns a
// *DeserializationError if the body isn't valid JSON, or doesn't match T.
//
// Like ReadString, it consumes the request body.
func ReadJSON[T any](c *Context, opts JSONOptions) (T, error) {
	var v T

	if c.Request.Body == nil {
		return v, &DeserializationError{Err: errors.New("empty request body")}
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return v, fmt.Errorf("failed reading request body: %w", err)
	}

	if opts.AllowTrailingCommas {
		if data, err = hujson.Standardize(data); err != nil {
			return v, &DeserializationError{Err: err}
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if opts.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if opts.UseNumber {
		dec.UseNumber()
	}

	if err = dec.Decode(&v); err != nil {
		return v, &DeserializationError{Err: err}
	}
	if _, err = dec.Token(); !errors.Is(err, io.EOF) {
		return v, &DeserializationError{Err: errors.New("unexpected data after top-level value")}
	}

	return v, nil
}
