package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/models"
)

func TestTokenRoundTrip(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	token, err := GenerateToken(id, "alice", models.RoleGroupAdmin)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.ID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleGroupAdmin, claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

// The signing key comes from the environment at the time a token is minted or
// checked, not at package init. A key set after startup (the .env path) must
// be honored, and a token signed under a different key must not verify.
func TestSecretReadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "real-secret-from-dotenv")

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		ID:       primitive.NewObjectID().Hex(),
		Username: "mallory",
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	// Signed with the empty key, as if the secret had never been loaded.
	forgedStr, err := forged.SignedString([]byte(""))
	require.NoError(t, err)
	_, err = ValidateToken(forgedStr)
	assert.Error(t, err)

	// A token minted under the current key still round-trips.
	token, err := GenerateToken(primitive.NewObjectID().Hex(), "alice", models.RoleUser)
	require.NoError(t, err)
	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	// And stops verifying once the key changes.
	t.Setenv("JWT_SECRET", "rotated")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hashed)
	assert.True(t, CheckPassword(hashed, "correct-horse"))
	assert.False(t, CheckPassword(hashed, "wrong"))
}
