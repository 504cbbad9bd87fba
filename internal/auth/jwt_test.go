package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	signed, err := jwt.NewWithClaims(method, JwtClaims{RegisteredClaims: claims}).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestJwtValidator(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	validator := NewJwtValidator(jwt.SigningMethodEdDSA, pub)
	now := time.Now()

	t.Log("valid token exposes subject")
	{
		token := sign(t, jwt.SigningMethodEdDSA, priv, jwt.RegisteredClaims{
			Subject:   "admin@wedocheapies.co.za",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		})

		claims, err := validator.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "admin@wedocheapies.co.za", claims.Subject)
	}

	t.Log("expired token is rejected")
	{
		token := sign(t, jwt.SigningMethodEdDSA, priv, jwt.RegisteredClaims{
			Subject:   "admin@wedocheapies.co.za",
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		})

		_, err := validator.Verify(token)
		require.Error(t, err)
	}

	t.Log("token without subject is rejected")
	{
		token := sign(t, jwt.SigningMethodEdDSA, priv, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		})

		_, err := validator.Verify(token)
		require.ErrorIs(t, err, ErrMissingSubject)
	}

	t.Log("token signed with another algorithm is rejected")
	{
		token := sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.RegisteredClaims{
			Subject:   "admin@wedocheapies.co.za",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		})

		_, err := validator.Verify(token)
		require.Error(t, err)
	}
}
