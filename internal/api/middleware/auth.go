package middleware

import (
	"context"
	"net/http"
	"strings"
	"vortex_api/internal/common"
	"vortex_api/internal/common/security"
	"vortex_api/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const requesterCtxKey contextKey = "requester"

// Authenticator requires a valid bearer token and stores the resolved
// requester in the context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context()) // Extracts token from Authorization header

		if err != nil {
			if strings.Contains(err.Error(), "token not found") || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			}
			return
		}

		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		requester, err := requesterFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(withRequester(r.Context(), requester)))
	})
}

// OptionalAuthenticator resolves a requester when a valid token is
// present and treats everything else as anonymous. Read routes that
// serve both visitors and owners use this.
func OptionalAuthenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			next.ServeHTTP(w, r)
			return
		}
		requester, err := requesterFromClaims(claims)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(withRequester(r.Context(), requester)))
	})
}

// ModeratorOnly gates a route on moderator-or-above.
func ModeratorOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requester := GetRequester(r.Context())
		if !requester.CanModerate() {
			common.RespondWithError(w, http.StatusForbidden, "Moderator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requesterFromClaims(claims map[string]interface{}) (*model.Requester, error) {
	userID, err := security.GetUserIDFromClaims(claims)
	if err != nil {
		return nil, err
	}
	role, err := security.GetUserRoleFromClaims(claims)
	if err != nil {
		return nil, err
	}
	return &model.Requester{ID: userID, Role: model.Role(role)}, nil
}

func withRequester(ctx context.Context, requester *model.Requester) context.Context {
	return context.WithValue(ctx, requesterCtxKey, requester)
}

// GetRequester returns the authenticated requester, or nil for an
// anonymous caller.
func GetRequester(ctx context.Context) *model.Requester {
	requester, _ := ctx.Value(requesterCtxKey).(*model.Requester)
	return requester
}
