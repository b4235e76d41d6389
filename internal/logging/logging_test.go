package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Sajjadhussain197/umsfront/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	env, level, file string
}

func (c testConfig) GetEnv() string      { return c.env }
func (c testConfig) GetLogLevel() string { return c.level }
func (c testConfig) GetLogFile() string  { return c.file }

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name    string
		level   string
		env     string
		want    zerolog.Level
		wantErr bool
	}{
		{name: "dev default", env: "DEV", want: zerolog.DebugLevel},
		{name: "prod default", env: "PROD", want: zerolog.InfoLevel},
		{name: "explicit", level: "error", env: "DEV", want: zerolog.ErrorLevel},
		{name: "mixed case", level: " Warn ", env: "PROD", want: zerolog.WarnLevel},
		{name: "warning alias", level: "warning", env: "PROD", want: zerolog.WarnLevel},
		{name: "unknown", level: "loud", env: "PROD", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			level, err := logging.ParseLevel(tc.level, tc.env)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, level)
		})
	}
}

func TestInit_LogFile(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })

	path := filepath.Join(t.TempDir(), "logs", "umsfront.log")
	closer, err := logging.Init(testConfig{env: "PROD", level: "info", file: path})
	require.NoError(t, err)

	log.Info().Str("component", "test").Msg("hello from the log file")
	log.Debug().Msg("filtered out")
	require.NoError(t, closer.Close())

	files, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	require.Len(t, files, 1)

	contents, err := os.ReadFile(files[0])
	require.NoError(t, err)
	require.Contains(t, string(contents), "hello from the log file")
	require.Contains(t, string(contents), `"component":"test"`)
	require.NotContains(t, string(contents), "filtered out")
}

func TestInit_InvalidLevel(t *testing.T) {
	_, err := logging.Init(testConfig{env: "DEV", level: "loud"})
	require.Error(t, err)
}
