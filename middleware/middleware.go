package middleware

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/auth"
	"github.com/lugerh/TaskTree-API/logging"
	"github.com/lugerh/TaskTree-API/utils"
)

// JWTAuthMiddleware resolves the caller identity from the request credential
// and stores it in the request context. The token is read from the
// Authorization header or, failing that, the access_token cookie set at
// login.
func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerToken(r)
		if tokenStr == "" {
			logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_CREDENTIAL, Description: No credential for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Authorization token required", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		callerID, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			logging.Logger.Warnf("Event ID: JWT_AUTH_BAD_SUBJECT, Description: Token carries a malformed user id: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		caller := auth.Caller{
			ID:       callerID,
			Username: claims.Username,
			Role:     claims.Role,
		}
		next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), caller)))
	})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}
