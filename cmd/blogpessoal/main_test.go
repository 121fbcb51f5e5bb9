// ABOUTME: Tests for CLI helpers: config paths, generated config, bootstrap flags and user creation
// ABOUTME: The generated config is round-tripped through config.Load

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/2389/blogpessoal/internal/auth"
	"github.com/2389/blogpessoal/internal/config"
	"github.com/2389/blogpessoal/internal/store"
)

func TestGetConfigPath(t *testing.T) {
	t.Setenv("BLOG_CONFIG", "/etc/blog.yaml")
	assert.Equal(t, "/etc/blog.yaml", getConfigPath())

	t.Setenv("BLOG_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "blogpessoal", "config.yaml"), getConfigPath())
}

func TestRenderConfig_LoadsBack(t *testing.T) {
	secret, err := generateSecret()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(secret), config.MinSecretLength)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := renderConfig(initAnswers{
		HTTPAddr:  "localhost:9090",
		Driver:    config.DriverSQLite,
		DBPath:    filepath.Join(dir, "blog.db"),
		Secret:    secret,
		LogLevel:  "debug",
		LogFormat: "json",
		Metrics:   true,
	})
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9090", cfg.Server.HTTPAddr)
	assert.Equal(t, secret, cfg.Auth.JWTSecret)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestParseBootstrapFlags(t *testing.T) {
	o, err := parseBootstrapFlags([]string{"--login", "root@root.com", "--password=rootroot"})
	require.NoError(t, err)
	assert.Equal(t, "root@root.com", o.Login)
	assert.Equal(t, "root@root.com", o.Name, "name defaults to the login")

	t.Setenv("BLOG_BOOTSTRAP_PASSWORD", "fromenv123")
	o, err = parseBootstrapFlags([]string{"-l", "root@root.com", "-n", "Root"})
	require.NoError(t, err)
	assert.Equal(t, "fromenv123", o.Password)
	assert.Equal(t, "Root", o.Name)
}

func TestParseBootstrapFlags_Errors(t *testing.T) {
	t.Setenv("BLOG_BOOTSTRAP_PASSWORD", "")

	tests := []struct {
		name string
		args []string
	}{
		{"missing login", []string{"--password", "rootroot"}},
		{"invalid login", []string{"--login", "root", "--password", "rootroot"}},
		{"short password", []string{"--login", "root@root.com", "--password", "short"}},
		{"unknown flag", []string{"--login", "root@root.com", "--password", "rootroot", "--admin"}},
		{"extra argument", []string{"--login", "root@root.com", "--password", "rootroot", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseBootstrapFlags(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestBootstrapUser(t *testing.T) {
	ctx := context.Background()
	s := store.NewMockStore()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens, err := auth.NewTokenService([]byte("bootstrap-test-secret-of-32-byte"))
	require.NoError(t, err)

	o := &bootstrapOptions{Login: "root@root.com", Name: "Root", Password: "rootroot"}
	u, token, err := bootstrapUser(ctx, s, hasher, tokens, o)
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	sub, err := tokens.ExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "root@root.com", sub)

	stored, err := s.GetUserByLogin(ctx, "root@root.com")
	require.NoError(t, err)
	ok, err := hasher.Verify("rootroot", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	// Running it again does not overwrite the user.
	_, _, err = bootstrapUser(ctx, s, hasher, tokens, o)
	assert.ErrorContains(t, err, "already complete")
}
