package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/storefront/internal/models"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("a-sufficiently-long-secret", 5*time.Minute)

	token, err := tm.GenerateDeliveryToken("admin@example.com")
	require.NoError(t, err)

	claims, err := tm.ValidateDeliveryToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.UserID)
	assert.Equal(t, "storefront", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("first-secret-value", time.Minute).GenerateDeliveryToken("u")
	require.NoError(t, err)

	_, err = NewTokenManager("second-secret-value", time.Minute).ValidateDeliveryToken(token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("a-sufficiently-long-secret", time.Minute)
	issued := time.Now()
	tm.now = func() time.Time { return issued }

	token, err := tm.GenerateDeliveryToken("u")
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tm.ValidateDeliveryToken(token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret-secret", time.Minute).ValidateDeliveryToken("not.a.token")
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}
