package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/kyuubik/internal/auth"
	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/httpx"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/mw"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
)

type sessionResponse struct {
	User  *auth.Identity `json:"user"`
	Token string         `json:"token"`
}

type meResponse struct {
	User *auth.Identity `json:"user"`
}

func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := decodeBody(w, r)
		if !ok {
			return
		}
		username, _, okU := b.str("username")
		password, _, okP := b.str("password")
		username = strings.TrimSpace(username)
		if !okU || len([]rune(username)) < auth.MinUsernameLength {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidUsername)
			return
		}
		if !okP || len(password) < auth.MinPasswordLength {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidPassword)
			return
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			internalError(d, w, r, "hash password", err)
			return
		}
		u, err := d.Store.CreateUser(r.Context(), username, hash)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				httpx.Error(w, http.StatusConflict, httpx.CodeUserExists)
				return
			}
			internalError(d, w, r, "create user", err)
			return
		}

		d.Logger.Info("user registered", logger.Int64("user_id", u.ID), logger.String("username", u.Username))
		startSession(d, w, r, u)
	}
}

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := decodeBody(w, r)
		if !ok {
			return
		}
		username, presentU, okU := b.str("username")
		password, presentP, okP := b.str("password")
		if !presentU || !presentP || !okU || !okP {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidBody)
			return
		}

		u, err := d.Store.UserByUsername(r.Context(), strings.TrimSpace(username))
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			internalError(d, w, r, "load user", err)
			return
		}
		if u == nil || !auth.VerifyPassword(u.PasswordHash, password) {
			httpx.Error(w, http.StatusUnauthorized, httpx.CodeWrongCredentials)
			return
		}
		startSession(d, w, r, u)
	}
}

func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, sessionCookie(d, "", -1))
		httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, meResponse{User: identity(r)})
	}
}

func startSession(d deps.Deps, w http.ResponseWriter, r *http.Request, u *domain.User) {
	token, err := d.Tokens.Sign(u)
	if err != nil {
		internalError(d, w, r, "sign token", err)
		return
	}
	http.SetCookie(w, sessionCookie(d, token, int(d.Tokens.TTL()/time.Second)))
	httpx.JSON(w, http.StatusOK, sessionResponse{
		User:  &auth.Identity{ID: u.ID, Username: u.Username},
		Token: token,
	})
}

func sessionCookie(d deps.Deps, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   d.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
