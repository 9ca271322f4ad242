package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/auth"
	"github.com/lugerh/TaskTree-API/models"
	"github.com/lugerh/TaskTree-API/utils"
)

func TestJWTAuthMiddlewareResolvesCaller(t *testing.T) {
	id := primitive.NewObjectID()
	token, err := utils.GenerateToken(id.Hex(), "alice", models.RoleUser)
	require.NoError(t, err)

	var got auth.Caller
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = auth.CallerFrom(r.Context())
	})

	// Bearer header.
	req := httptest.NewRequest(http.MethodPost, "/api/project/get", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	JWTAuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, models.RoleUser, got.Role)

	// Cookie fallback.
	req = httptest.NewRequest(http.MethodPost, "/api/project/get", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec = httptest.NewRecorder()
	ok = false
	JWTAuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ok)
}

func TestJWTAuthMiddlewareRejectsBadCredentials(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a valid token")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/project/get", nil)
	rec := httptest.NewRecorder()
	JWTAuthMiddleware(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/project/get", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	JWTAuthMiddleware(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
