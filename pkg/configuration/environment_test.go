package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_LoadsExistingFilesOnly(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "HRCONSOLE_TEST_ENV_LOAD=ok\n")
	_ = os.Unsetenv("HRCONSOLE_TEST_ENV_LOAD")
	t.Cleanup(func() { _ = os.Unsetenv("HRCONSOLE_TEST_ENV_LOAD") })

	n, err := LoadEnv([]string{".env", ".env.local"})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "ok", os.Getenv("HRCONSOLE_TEST_ENV_LOAD"))
}

func TestNew_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", "/home/hr")

	c, err := New()
	require.NoError(t, err)
	t.Cleanup(c.Unload)

	require.Equal(t, "http://localhost:5000/api", c.API.URL)
	require.Equal(t, "X-Request-ID", c.API.RequestIDHeader)
	require.Equal(t, SessionBackendFile, c.Session.Backend)
	require.Equal(t, "/home/hr/.hrconsole/session.json", c.Session.Path)
	require.Equal(t, "token", c.Session.Key)
	require.Equal(t, 10, c.PageSize)
	require.Equal(t, 3*time.Second, c.BannerTTL)
	require.False(t, c.LegacyClientIDs)
	require.Equal(t, logrus.ErrorLevel, c.LogrusLogLevel())
	require.NotNil(t, c.Logger())
}

func TestNew_TrimsTrailingSlashFromAPIURL(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_URL", "https://hr.example.com/api/")

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, "https://hr.example.com/api", c.API.URL)
}

func TestNew_RejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"relative api url":    {"API_URL": "/api"},
		"ftp api url":         {"API_URL": "ftp://host/api"},
		"unknown backend":     {"SESSION_BACKEND": "cookie"},
		"redis without url":   {"SESSION_BACKEND": "redis"},
		"zero page size":      {"PAGE_SIZE": "0"},
		"negative banner ttl": {"BANNER_TTL": "-1s"},
		"empty session key":   {"SESSION_KEY": " "},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := New()
			require.Error(t, err)
		})
	}
}

func TestNew_FileLogger(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "hrconsole.log")
	t.Setenv("LOG_PATH", path)
	t.Setenv("LOG_LEVEL", "debug")

	c, err := New()
	require.NoError(t, err)
	t.Cleanup(c.Unload)

	require.Equal(t, logrus.DebugLevel, c.Logger().GetLevel())
	require.FileExists(t, path)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	origWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(dir))
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
