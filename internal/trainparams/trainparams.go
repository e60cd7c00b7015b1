// Package trainparams parses and bounds-checks the clustering and
// classification hyperparameters submitted with a training request.
package trainparams

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// DefaultKMeansJSON is the text the training form starts with.
const DefaultKMeansJSON = `{
  "n_clusters": 3,
  "n_init": "auto",
  "max_iter": 300
}`

// DefaultSVMJSON is the text the training form starts with.
const DefaultSVMJSON = `{
  "C": 1.0,
  "kernel": "rbf",
  "gamma": "scale",
  "probability": true
}`

// ErrSyntax marks parameter text that is not a single JSON object.
var ErrSyntax = errors.New("invalid JSON syntax")

// FieldError reports a recognized key with an unacceptable value, or an unknown key.
type FieldError struct {
	Group string // "K-Means" or "SVM"
	Field string // JSON key
	Msg   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s parameter %q %s", e.Group, e.Field, e.Msg)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator, reporting JSON key names.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// decodeStrict decodes exactly one JSON object into v, rejecting unknown keys.
// Blank text is a syntax error; an empty set of parameters is written "{}".
func decodeStrict(group, text string, v any) error {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return fmt.Errorf("%s: %w", group, ErrSyntax)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var fieldErr *FieldError
		switch {
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
			return fmt.Errorf("%s: %w", group, ErrSyntax)
		case errors.As(err, &typeErr):
			return &FieldError{Group: group, Field: typeErr.Field, Msg: "must be " + jsonKindName(typeErr.Type)}
		case errors.As(err, &fieldErr):
			fieldErr.Group = group
			return fieldErr
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			name := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return &FieldError{Group: group, Field: name, Msg: "is not a recognized parameter"}
		default:
			return fmt.Errorf("%s: %w", group, ErrSyntax)
		}
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%s: %w", group, ErrSyntax)
	}
	return nil
}

// checkStruct runs the tag-based bounds and converts the first failure.
func checkStruct(group string, v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &FieldError{Group: group, Msg: err.Error()}
	}
	fe := verrs[0]
	return &FieldError{Group: group, Field: fe.Field(), Msg: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

func jsonKindName(t reflect.Type) string {
	if t == nil {
		return "a value of another type"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int64, reflect.Int32:
		return "an integer"
	case reflect.Float64, reflect.Float32:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	default:
		return "a value of another type"
	}
}

// canonical re-serializes parsed parameters as compact JSON.
func canonical(v any) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
