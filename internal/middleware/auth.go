package middleware

import (
	"crypto/hmac"
	"net/http"
	"strings"
)

// AuthMiddleware valida un token bearer estático en los endpoints de
// administración. Con token vacío la validación queda deshabilitada.
type AuthMiddleware struct {
	token string
}

// NewAuthMiddleware crea el middleware de autenticación con el token indicado.
func NewAuthMiddleware(token string) *AuthMiddleware {
	return &AuthMiddleware{token: token}
}

// Middleware rechaza con 401 los requests sin el token esperado.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		got, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || !hmac.Equal([]byte(got), []byte(a.token)) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
