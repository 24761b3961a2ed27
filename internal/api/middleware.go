package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/quicksortapp/quicksort/internal/model"
)

type contextKey struct{ name string }

var userKey = contextKey{"user"}

// requireAuth resolves the bearer token and stores the user on the request
// context, rejecting the request with 401 otherwise.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		user, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the authenticated user stored by requireAuth.
func currentUser(r *http.Request) *model.UserAccount {
	user, _ := r.Context().Value(userKey).(*model.UserAccount)
	return user
}
