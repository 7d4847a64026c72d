package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "client@site24h.test", "password": "supersecret", "name": "Dup",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if code := errCodeOf(t, w); code != ErrCodeConflict {
		t.Fatalf("code = %q", code)
	}
}

func TestRegister_BadPayload(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", gin.H{"email": "only@site24h.test"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "short@site24h.test", "password": "short", "name": "X",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short password status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": "client@site24h.test", "password": "wrongpass",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestMe_ReturnsAccount(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(t, http.MethodGet, "/auth/me", env.clientToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var u struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decodeBody(t, w, &u)
	if u.ID != env.clientID || u.Email != "client@site24h.test" || u.Role != "USER" {
		t.Fatalf("me = %+v", u)
	}

	if w := env.do(t, http.MethodGet, "/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated me = %d", w.Code)
	}
}
