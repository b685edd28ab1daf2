package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims identifies the signed-in identity.
type AuthClaims struct {
	IdentityId string `json:"identityId"`
	jwt.RegisteredClaims
}

// GenToken signs an HS256 access token for identityId.
func GenToken(identityId, issuer string, secretKey []byte, expire time.Duration, now time.Time) (string, error) {
	claims := &AuthClaims{
		IdentityId: identityId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identityId,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParseToken verifies aToken and returns its claims. An expired token
// yields jwt.ErrTokenExpired.
func ParseToken(aToken string, secretKey []byte) (*AuthClaims, error) {
	claims := new(AuthClaims)
	token, err := jwt.ParseWithClaims(aToken, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, jwt.ErrTokenExpired
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.IdentityId == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
