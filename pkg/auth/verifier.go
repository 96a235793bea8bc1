package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried by a session token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Verifier validates session tokens signed either with a shared HS256 secret
// or with RS256 keys published at a JWKS endpoint.
type Verifier struct {
	secret []byte
	keys   *KeySet
}

// NewVerifier accepts an empty secret or a nil key set to disable that algorithm family.
func NewVerifier(secret string, keys *KeySet) *Verifier {
	return &Verifier{secret: []byte(secret), keys: keys}
}

// Verify parses tokenString and returns its claims. The subject must be present.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(v.secret) == 0 {
			return nil, errors.New("HS256 token received but JWT_SECRET is not configured")
		}
		return v.secret, nil
	case *jwt.SigningMethodRSA:
		if v.keys == nil {
			return nil, errors.New("RS256 token received but JWKS_URL is not configured")
		}
		return v.keys.KeyFunc(token)
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
}
