//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"eventhub/internal/domain/user"
	"eventhub/internal/pkg/config"
	"eventhub/internal/pkg/jwt"
	"eventhub/tests/common/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const defaultTokenTTL = 15 * time.Minute

type JWTHelper struct {
	service *jwt.Service
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{service: jwt.NewService(cfg.Secret)}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := h.service.GenerateToken(userID, role, defaultTokenTTL)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := h.service.GenerateToken(userID, role, -time.Minute)
	require.NoError(t, err)
	return token
}

// CreateUserWithToken inserts a user row and returns its id with a valid access token.
func (h *JWTHelper) CreateUserWithToken(t *testing.T, db dbtest.DBLike, email string, role user.Role) (uuid.UUID, string) {
	t.Helper()
	userID := dbtest.CreateTestUser(t, db, email, role.String())
	return userID, h.GenerateToken(t, userID, role)
}
