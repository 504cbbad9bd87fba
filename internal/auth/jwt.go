package auth

import (
	"crypto"
	"errors"

	"github.com/golang-jwt/jwt/v4"
)

// ErrMissingSubject is returned for valid token which doesn't identify an admin
var ErrMissingSubject = errors.New("token has no subject")

// JwtClaims represents JWT claims of admin access token, subject is admin identity
type JwtClaims struct {
	jwt.RegisteredClaims
}

// JwtValidator verifies tokens issued by external auth service
type JwtValidator struct {
	method    jwt.SigningMethod
	publicKey crypto.PublicKey
}

// NewJwtValidator builds new JwtValidator
func NewJwtValidator(method jwt.SigningMethod, key crypto.PublicKey) *JwtValidator {
	return &JwtValidator{publicKey: key, method: method}
}

// Verify checks signature and expiration, token must carry a subject
func (j *JwtValidator) Verify(rawToken string) (JwtClaims, error) {
	var claims JwtClaims
	if _, err := jwt.ParseWithClaims(rawToken, &claims, j.keyFunc); err != nil {
		return JwtClaims{}, err
	}

	if claims.Subject == "" {
		return JwtClaims{}, ErrMissingSubject
	}
	return claims, nil
}

func (j *JwtValidator) keyFunc(token *jwt.Token) (any, error) {
	if token.Method.Alg() != j.method.Alg() {
		return nil, errors.New("failed to verify signing algorithm")
	}
	return j.publicKey, nil
}
