package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/markpoint/marker-api/internal/api"
	"github.com/markpoint/marker-api/internal/api/handler"
	"github.com/markpoint/marker-api/internal/api/middleware"
	"github.com/markpoint/marker-api/internal/core/domain"
	"github.com/markpoint/marker-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn    func(ctx context.Context, username, password string) (*domain.User, error)
	loginFn       func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	logoutFn      func(ctx context.Context, sessionID string) error
	currentUserFn func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error {
	return s.logoutFn(ctx, sessionID)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Identity, error) {
	panic("not used")
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.currentUserFn(ctx, userID)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())
	return e
}

func doJSON(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func invoke(e *echo.Echo, c echo.Context, fn echo.HandlerFunc) {
	if err := fn(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, username, password string) (*domain.User, error) {
			if username != "alice1" || password != "Abcdef1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.User{ID: "user1", Username: username}, nil
		},
	}
	h := handler.NewAuthHandler(stub, false)

	c, rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"alice1","password":"Abcdef1"}`)
	invoke(e, c, h.Register)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "Abcdef1") {
		t.Fatal("response must not echo the password")
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrDuplicateUsername
		},
	}
	h := handler.NewAuthHandler(stub, false)

	c, rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"alice1","password":"Abcdef1"}`)
	invoke(e, c, h.Register)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_PolicyViolation(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.NewFieldError("password", "password must contain at least one uppercase letter, one lowercase letter, and one number")
		},
	}
	h := handler.NewAuthHandler(stub, false)

	c, rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"alice1","password":"abcdef1"}`)
	invoke(e, c, h.Register)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (*domain.User, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	h := handler.NewAuthHandler(stub, false)

	c, rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"alice1"}`)
	invoke(e, c, h.Register)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	expires := time.Now().Add(time.Hour)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*ports.LoginResult, error) {
			return &ports.LoginResult{
				Token:     "token123",
				SessionID: "sess1",
				User:      &domain.User{ID: "user1", Username: username},
				ExpiresAt: expires,
			}, nil
		},
	}
	h := handler.NewAuthHandler(stub, false)

	c, rec := doJSON(e, http.MethodPost, "/api/auth/login", `{"username":"alice1","password":"Abcdef1"}`)
	invoke(e, c, h.Login)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.User.ID != "user1" || resp.User.Username != "alice1" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	cookies := rec.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, ck := range cookies {
		if ck.Name == middleware.SessionCookie {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie not set")
	}
	if sessionCookie.Value != "sess1" || !sessionCookie.HttpOnly {
		t.Fatalf("unexpected cookie: %+v", sessionCookie)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := handler.NewAuthHandler(stub, false)

	c, rec := doJSON(e, http.MethodPost, "/api/auth/login", `{"username":"nouser","password":"Whatever1"}`)
	invoke(e, c, h.Login)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid username or password") {
		t.Fatalf("expected the generic message, got %s", rec.Body.String())
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("no cookie should be set on failure")
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	revoked := ""
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, sessionID string) error {
			revoked = sessionID
			return nil
		},
	}
	h := handler.NewAuthHandler(stub, false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "sess1"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	invoke(e, c, h.Logout)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if revoked != "sess1" {
		t.Fatalf("expected session sess1 revoked, got %q", revoked)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected the cookie to be cleared, got %+v", cookies)
	}
}

func TestAuthHandler_Logout_NoCookie(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		logoutFn: func(context.Context, string) error {
			t.Fatal("logout should not be called without a cookie")
			return nil
		},
	}
	h := handler.NewAuthHandler(stub, false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	invoke(e, c, h.Logout)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		currentUserFn: func(_ context.Context, userID string) (*domain.User, error) {
			if userID != "user1" {
				t.Fatalf("unexpected user id %q", userID)
			}
			return &domain.User{
				ID:           "user1",
				Username:     "alice1",
				PasswordHash: "$2a$12$secret",
				CreatedAt:    time.Now(),
				LastLogin:    time.Now(),
			}, nil
		},
	}
	h := handler.NewAuthHandler(stub, false)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("identity", domain.Identity{UserID: "user1", Username: "alice1"})
	invoke(e, c, h.Me)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatal("response must not contain the password hash")
	}
	if !strings.Contains(rec.Body.String(), `"username":"alice1"`) {
		t.Fatalf("expected username in response, got %s", rec.Body.String())
	}
}

func TestAuthHandler_Me_NoIdentity(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		currentUserFn: func(context.Context, string) (*domain.User, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	h := handler.NewAuthHandler(stub, false)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	invoke(e, c, h.Me)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
