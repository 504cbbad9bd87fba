package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writePublicKey(t *testing.T) (string, ed25519.PublicKey) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "jwt.pub.pem")
	err = os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600)
	require.NoError(t, err)
	return path, pub
}

func TestBuild(t *testing.T) {
	keyFile, pub := writePublicKey(t)

	t.Setenv("POSTGRES_USER", "carwash")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "carwash")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("REDIS_CUSTOMER_TTL", "5m")
	t.Setenv("HTTP_ALLOW_ORIGINS", "https://wedocheapies.co.za,http://localhost:5173")
	t.Setenv("AUTH_JWT_PUBLIC_KEY_FILE", keyFile)

	cfg, err := Build()
	require.NoError(t, err)

	t.Log("environment and defaults are applied")
	{
		require.Equal(t, 8080, cfg.HttpCfg.Port)
		require.Equal(t, []string{"https://wedocheapies.co.za", "http://localhost:5173"}, cfg.HttpCfg.AllowOrigins)
		require.Equal(t, 5*time.Minute, cfg.RedisCfg.TimeToLive)
		require.False(t, cfg.ResendCfg.Enabled())
		require.Equal(t, "postgres://carwash:secret@db:5432/carwash?sslmode=disable&pool_max_conns=20", cfg.PostgresCfg.ConnString())
	}

	t.Log("jwt public key is loaded")
	{
		require.Equal(t, jwtSigningAlgorithmEd25519, cfg.JwtCfg.SigningMethod.Alg())
		require.Equal(t, pub, cfg.JwtCfg.PublicKey)
	}
}

func TestBuildMissingRequired(t *testing.T) {
	keyFile, _ := writePublicKey(t)
	t.Setenv("AUTH_JWT_PUBLIC_KEY_FILE", keyFile)
	os.Unsetenv("POSTGRES_USER")

	_, err := Build()
	require.Error(t, err, "postgres user has no default and must be required")
}
