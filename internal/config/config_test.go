package config_test

import (
	"testing"
	"time"

	"github.com/Sajjadhussain197/umsfront/internal/config"
	"github.com/stretchr/testify/require"
)

func TestEnvVars_Defaults(t *testing.T) {
	for _, name := range []string{"PORT", "APP_NAME", "BASE_URL", "IDENTITY_URL", "IDENTITY_TIMEOUT", "SESSION_MAX_AGE", "METRICS_ENABLED", "ENV"} {
		t.Setenv(name, "")
	}
	c := config.New()

	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "User Management System", c.GetAppName())
	require.Equal(t, "http://localhost:8080", c.GetBaseURL())
	require.Equal(t, "http://localhost:8000", c.GetIdentityURL())
	require.Equal(t, 10*time.Second, c.GetIdentityTimeout())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, 30*24*time.Hour, c.GetMaxSessionAge())
	require.Equal(t, "session_token", c.GetSessionCookieName())
	require.False(t, c.GetMetricsEnabled())
}

func TestEnvVars_Overrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("IDENTITY_URL", "https://identity.example.com/")
	t.Setenv("IDENTITY_TIMEOUT", "3s")
	t.Setenv("SESSION_MAX_AGE", "12h")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("ENV", "PROD")
	c := config.New()

	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, "https://identity.example.com", c.GetIdentityURL())
	require.Equal(t, 3*time.Second, c.GetIdentityTimeout())
	require.Equal(t, 12*time.Hour, c.GetMaxSessionAge())
	require.True(t, c.GetMetricsEnabled())
	require.Equal(t, "PROD", c.GetEnv())
}

func TestGetDuration(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "unset", value: "", want: time.Minute},
		{name: "valid", value: "90s", want: 90 * time.Second},
		{name: "garbage", value: "soon", want: time.Minute},
		{name: "negative", value: "-5s", want: time.Minute},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tc.value)
			require.Equal(t, tc.want, config.GetDuration("TEST_DURATION", time.Minute))
		})
	}
}

func TestParseAllowedOrigins(t *testing.T) {
	origins := config.ParseAllowedOrigins(" https://b.example.com,https://a.example.com ,, ")

	require.Len(t, origins, 2)
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.False(t, origins.IsAllowedOrigin("https://c.example.com"))
	require.Equal(t, "https://a.example.com, https://b.example.com", origins.String())
	require.Empty(t, config.ParseAllowedOrigins(""))
}

func TestGetSessionSecret(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
		secret, err := config.New().GetSessionSecret()
		require.NoError(t, err)
		require.Equal(t, []byte("0123456789abcdef0123456789abcdef"), secret)
	})

	t.Run("too short", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "short")
		_, err := config.New().GetSessionSecret()
		require.Error(t, err)
	})

	t.Run("required outside DEV", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "")
		t.Setenv("ENV", "PROD")
		_, err := config.New().GetSessionSecret()
		require.Error(t, err)
	})

	t.Run("generated once in DEV", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "")
		t.Setenv("ENV", "DEV")
		first, err := config.New().GetSessionSecret()
		require.NoError(t, err)
		require.Len(t, first, 32)

		second, err := config.New().GetSessionSecret()
		require.NoError(t, err)
		require.Equal(t, first, second)
	})
}

func TestGetAccessRules(t *testing.T) {
	rules := config.New().GetAccessRules()
	require.NoError(t, rules.Validate())
	require.Equal(t, "/login", rules.LoginPath)
}
