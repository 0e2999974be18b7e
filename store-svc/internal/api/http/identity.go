package httpapi

import (
	"context"
	"net/http"
	"strings"

	"curry-craft/store-svc/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"
)

// Identity is set by the gateway after it authenticated the caller.
type Identity struct {
	ID   string
	Name string
	Role domain.Role
}

type identityKey struct{}

func identityFromHeaders(r *http.Request) (Identity, bool) {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if id == "" {
		return Identity{}, false
	}
	role := domain.Role(strings.ToUpper(strings.TrimSpace(r.Header.Get(HeaderUserRole))))
	if role == "" {
		role = domain.RoleUser
	}
	return Identity{ID: id, Name: r.Header.Get(HeaderUserName), Role: role}, true
}

func userFrom(r *http.Request) Identity {
	user, _ := r.Context().Value(identityKey{}).(Identity)
	return user
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := identityFromHeaders(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, user)))
	})
}

func requireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !userFrom(r).Role.IsStaff() {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Staff access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
