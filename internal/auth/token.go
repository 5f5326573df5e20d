package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BradenHooton/storefront/internal/models"
)

const (
	tokenIssuer           = "storefront"
	notificationsAudience = "notifications"
)

// DeliveryClaims are carried by the bearer token sent to the notification API
type DeliveryClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenManager signs short-lived bearer tokens for outbound notification delivery
type TokenManager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, expiry time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// GenerateDeliveryToken creates a token identifying userID to the notification API
func (tm *TokenManager) GenerateDeliveryToken(userID string) (string, error) {
	now := tm.now()
	claims := &DeliveryClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{notificationsAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign delivery token: %w", err)
	}

	return tokenString, nil
}

// ValidateDeliveryToken verifies a token produced by GenerateDeliveryToken
func (tm *TokenManager) ValidateDeliveryToken(tokenString string) (*DeliveryClaims, error) {
	claims := &DeliveryClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(notificationsAudience),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, models.ErrInvalidToken
	}

	return claims, nil
}
