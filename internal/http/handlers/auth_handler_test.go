package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-search-backend/internal/services"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandlers(t)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	return r
}

func TestRegister_SuccessAndConflict(t *testing.T) {
	r := newAuthRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register",
		RegisterRequest{Username: "alice", Password: "longenough"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp RegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == "" || resp.Username != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	// The password hash must never appear in the response.
	if body := w.Body.String(); strings.Contains(body, "password") || strings.Contains(body, "hash") {
		t.Fatalf("credential material leaked: %s", body)
	}

	dup := doJSON(t, r, http.MethodPost, "/auth/register",
		RegisterRequest{Username: "alice", Password: "otherpassword"}, nil)
	if dup.Code != http.StatusConflict {
		t.Fatalf("duplicate: status = %d, want 409", dup.Code)
	}
}

func TestRegister_Validation(t *testing.T) {
	r := newAuthRouter(t)

	cases := []RegisterRequest{
		{Username: "", Password: "longenough"},
		{Username: "bob", Password: "short"},
		{Username: "bob", Password: ""},
	}
	for _, req := range cases {
		w := doJSON(t, r, http.MethodPost, "/auth/register", req, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%+v: status = %d, want 400", req, w.Code)
		}
	}
}

func TestLogin_SuccessAndFailure(t *testing.T) {
	r := newAuthRouter(t)

	if w := doJSON(t, r, http.MethodPost, "/auth/register",
		RegisterRequest{Username: "alice", Password: "longenough"}, nil); w.Code != http.StatusCreated {
		t.Fatalf("register: %d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/auth/login",
		LoginRequest{Username: "alice", Password: "longenough"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var pair services.TokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.ExpiresIn <= 0 {
		t.Fatalf("bad pair: %+v", pair)
	}

	bad := doJSON(t, r, http.MethodPost, "/auth/login",
		LoginRequest{Username: "alice", Password: "wrongpassword"}, nil)
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status = %d, want 401", bad.Code)
	}
	unknown := doJSON(t, r, http.MethodPost, "/auth/login",
		LoginRequest{Username: "nobody", Password: "whatever123"}, nil)
	if unknown.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: status = %d, want 401", unknown.Code)
	}
}

func TestRefresh_RoundTrip(t *testing.T) {
	r := newAuthRouter(t)

	if w := doJSON(t, r, http.MethodPost, "/auth/register",
		RegisterRequest{Username: "alice", Password: "longenough"}, nil); w.Code != http.StatusCreated {
		t.Fatalf("register: %d", w.Code)
	}
	login := doJSON(t, r, http.MethodPost, "/auth/login",
		LoginRequest{Username: "alice", Password: "longenough"}, nil)
	var pair services.TokenPair
	_ = json.Unmarshal(login.Body.Bytes(), &pair)

	w := doJSON(t, r, http.MethodPost, "/auth/refresh",
		RefreshRequest{RefreshToken: pair.RefreshToken}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var next services.TokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &next); err != nil || next.AccessToken == "" {
		t.Fatalf("bad refreshed pair: %s", w.Body.String())
	}

	// Access token is the wrong token type here.
	wrong := doJSON(t, r, http.MethodPost, "/auth/refresh",
		RefreshRequest{RefreshToken: pair.AccessToken}, nil)
	if wrong.Code != http.StatusUnauthorized {
		t.Fatalf("access-as-refresh: status = %d, want 401", wrong.Code)
	}

	garbage := doJSON(t, r, http.MethodPost, "/auth/refresh",
		RefreshRequest{RefreshToken: "garbage"}, nil)
	if garbage.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, want 401", garbage.Code)
	}

	missing := doJSON(t, r, http.MethodPost, "/auth/refresh", map[string]string{}, nil)
	if missing.Code != http.StatusBadRequest {
		t.Fatalf("missing token: status = %d, want 400", missing.Code)
	}
}
