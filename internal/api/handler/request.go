package handler

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/haikudo/backend/internal/core/domain"
	"github.com/haikudo/backend/internal/core/ports"
)

var bodyBinder = &echo.DefaultBinder{}

// bindBody decodes the JSON body into req and validates it. Decoding
// failures are reported as a ValidationError naming the offending field.
func bindBody(c echo.Context, req any) error {
	if err := bodyBinder.BindBody(c, req); err != nil {
		var te *json.UnmarshalTypeError
		if !errors.As(err, &te) {
			return decodeError(err)
		}
		// The decoder keeps filling the other fields after a type mismatch,
		// so they are validated as well.
		field := typeErrorField(te)
		out := domain.NewFieldError(field, "must be of type "+jsonType(te.Type))
		var ve *domain.ValidationError
		if errors.As(c.Validate(req), &ve) {
			for _, f := range ve.Fields {
				if f.Field != field {
					out.Add(f.Field, f.Reason)
				}
			}
		}
		return out
	}
	return c.Validate(req)
}

func typeErrorField(te *json.UnmarshalTypeError) string {
	if te.Field == "" {
		return "body"
	}
	return te.Field
}

func decodeError(err error) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return domain.NewFieldError("body", "malformed JSON")
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Internal == nil {
		// e.g. 415 for a non-JSON content type
		return he
	}
	return domain.NewFieldError("body", "invalid request body")
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float64:
		return "number"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return t.Kind().String()
	}
}

// pathID parses the named path parameter as a UUID.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domain.NewFieldError(name, "must be a valid UUID")
	}
	return id, nil
}

// queryParams binds optional query parameters and collects every failure.
type queryParams struct {
	c    echo.Context
	errs domain.ValidationError
}

func newQueryParams(c echo.Context) *queryParams {
	return &queryParams{c: c}
}

// page binds page and limit, applying the defaults.
func (q *queryParams) page() ports.PageRequest {
	lq := listQuery{Page: 1, Limit: ports.DefaultPageLimit}
	for _, err := range echo.QueryParamsBinder(q.c).
		FailFast(false).
		Int("page", &lq.Page).
		Int("limit", &lq.Limit).
		BindErrors() {
		var be *echo.BindingError
		if errors.As(err, &be) {
			q.errs.Add(be.Field, "must be an integer")
		}
	}
	if err := q.c.Validate(&lq); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			q.errs.Fields = append(q.errs.Fields, ve.Fields...)
		}
	}
	return ports.PageRequest{Page: lq.Page, Limit: lq.Limit}
}

func (q *queryParams) optionalBool(name string) *bool {
	raw := q.c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.errs.Add(name, "must be a boolean")
		return nil
	}
	return &v
}

func (q *queryParams) optionalUUID(name string) *uuid.UUID {
	raw := q.c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := uuid.Parse(raw)
	if err != nil {
		q.errs.Add(name, "must be a valid UUID")
		return nil
	}
	return &v
}

func (q *queryParams) err() error {
	return q.errs.OrNil()
}
