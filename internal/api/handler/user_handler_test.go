package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/haikudo/backend/internal/core/domain"
	"github.com/haikudo/backend/internal/core/ports"
)

type stubUserService struct {
	createFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	listFn   func(ctx context.Context, in ports.ListUsersInput) (*ports.Page[*domain.User], error)
	updateFn func(ctx context.Context, id uuid.UUID, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) List(ctx context.Context, in ports.ListUsersInput) (*ports.Page[*domain.User], error) {
	return s.listFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, id uuid.UUID, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func requireValidationError(t *testing.T, err error) *domain.ValidationError {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *domain.ValidationError, got %T (%v)", err, err)
	}
	return ve
}

func fieldNames(ve *domain.ValidationError) map[string]string {
	out := make(map[string]string, len(ve.Fields))
	for _, f := range ve.Fields {
		out[f.Field] = f.Reason
	}
	return out
}

func TestUserHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	id := uuid.New()
	stub := &stubUserService{
		createFn: func(_ context.Context, in ports.CreateUserInput) (*domain.User, error) {
			if in.Email != "ann@example.com" || in.Password != "pw" || in.FullName != "Ann" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.IsActive != nil {
				t.Fatalf("is_active should be left to the service default")
			}
			return &domain.User{
				ID:           id,
				Email:        in.Email,
				FullName:     in.FullName,
				IsActive:     true,
				PasswordHash: "$2a$10$hash",
				CreatedAt:    time.Now(),
			}, nil
		},
	}
	h := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/users", `{"email":"ann@example.com","password":"pw","full_name":"Ann"}`), rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("response leaks the password hash: %s", rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != id.String() || resp["is_active"] != true {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Create_ReportsEveryInvalidField(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/users", `{"email":"not-an-email"}`), httptest.NewRecorder())

	ve := requireValidationError(t, h.Create(c))
	fields := fieldNames(ve)
	if fields["email"] != "must be a valid email" {
		t.Fatalf("unexpected email reason: %q", fields["email"])
	}
	if fields["password"] != "is required" {
		t.Fatalf("unexpected password reason: %q", fields["password"])
	}
}

func TestUserHandler_Create_WrongType(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/users", `{"email":123,"password":"pw"}`), httptest.NewRecorder())

	ve := requireValidationError(t, h.Create(c))
	if got := fieldNames(ve)["email"]; got != "must be of type string" {
		t.Fatalf("unexpected reason: %q", got)
	}
}

func TestUserHandler_Create_WrongTypeStillValidatesOtherFields(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/users", `{"email":"not-an-email","password":123}`), httptest.NewRecorder())

	ve := requireValidationError(t, h.Create(c))
	fields := fieldNames(ve)
	if fields["password"] != "must be of type string" {
		t.Fatalf("unexpected password reason: %q", fields["password"])
	}
	if fields["email"] != "must be a valid email" {
		t.Fatalf("unexpected email reason: %q", fields["email"])
	}
	if len(ve.Fields) != 2 {
		t.Fatalf("expected one entry per field, got %+v", ve.Fields)
	}
}

func TestUserHandler_Create_MalformedJSON(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/users", `{"email":`), httptest.NewRecorder())

	ve := requireValidationError(t, h.Create(c))
	if _, ok := fieldNames(ve)["body"]; !ok {
		t.Fatalf("expected a body error, got %+v", ve.Fields)
	}
}

func TestUserHandler_Create_PropagatesConflict(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		createFn: func(context.Context, ports.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/users", `{"email":"a@example.com","password":"pw"}`), httptest.NewRecorder())

	if err := h.Create(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUserHandler_Get_BadID(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		getFn: func(context.Context, uuid.UUID) (*domain.User, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/users/abc", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("abc")

	ve := requireValidationError(t, h.Get(c))
	if got := fieldNames(ve)["id"]; got != "must be a valid UUID" {
		t.Fatalf("unexpected reason: %q", got)
	}
}

func TestUserHandler_List_Query(t *testing.T) {
	e := newTestEcho()

	t.Run("defaults", func(t *testing.T) {
		h := NewUserHandler(&stubUserService{
			listFn: func(_ context.Context, in ports.ListUsersInput) (*ports.Page[*domain.User], error) {
				if in.Page != 1 || in.Limit != ports.DefaultPageLimit || in.Active != nil {
					t.Fatalf("unexpected input: %+v", in)
				}
				return ports.NewPage[*domain.User](nil, 0, in.PageRequest), nil
			},
		})
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/users", nil), rec)

		if err := h.List(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var resp struct {
			Data       []any              `json:"data"`
			Pagination paginationResponse `json:"pagination"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp.Data == nil || len(resp.Data) != 0 {
			t.Fatalf("expected an empty data array, got %s", rec.Body.String())
		}
		if resp.Pagination.Limit != ports.DefaultPageLimit {
			t.Fatalf("unexpected pagination: %+v", resp.Pagination)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		h := NewUserHandler(&stubUserService{})
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/users?page=x&limit=500&active=maybe", nil), httptest.NewRecorder())

		fields := fieldNames(requireValidationError(t, h.List(c)))
		for _, name := range []string{"page", "limit", "active"} {
			if _, ok := fields[name]; !ok {
				t.Fatalf("expected %s in %+v", name, fields)
			}
		}
	})

	t.Run("page too large", func(t *testing.T) {
		h := NewUserHandler(&stubUserService{})
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/users?page=9223372036854775807&limit=2", nil), httptest.NewRecorder())

		fields := fieldNames(requireValidationError(t, h.List(c)))
		if fields["page"] != "must be less than or equal to 1000000" {
			t.Fatalf("unexpected page reason: %q", fields["page"])
		}
	})
}

func TestUserHandler_Delete(t *testing.T) {
	e := newTestEcho()
	id := uuid.New()
	h := NewUserHandler(&stubUserService{
		deleteFn: func(_ context.Context, got uuid.UUID) error {
			if got != id {
				t.Fatalf("unexpected id %s", got)
			}
			return nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/v1/users/"+id.String(), nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 204, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestUserHandler_Update_PartialFields(t *testing.T) {
	e := newTestEcho()
	id := uuid.New()
	h := NewUserHandler(&stubUserService{
		updateFn: func(_ context.Context, _ uuid.UUID, in ports.UpdateUserInput) (*domain.User, error) {
			if in.Email != nil || in.Password != nil || in.IsActive != nil {
				t.Fatalf("only full_name should be set: %+v", in)
			}
			if in.FullName == nil || *in.FullName != "Ann B" {
				t.Fatalf("unexpected full_name: %v", in.FullName)
			}
			return &domain.User{ID: id, FullName: *in.FullName}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/api/v1/users/"+id.String(), `{"full_name":"Ann B"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
