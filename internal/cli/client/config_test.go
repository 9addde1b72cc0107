package client

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempConfig points the profile at a fresh temp dir for one test.
func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(envConfigDir, dir)
	return filepath.Join(dir, profileFile)
}

func TestConfigDir(t *testing.T) {
	t.Setenv(envConfigDir, "")
	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
	assert.True(t, strings.HasSuffix(dir, "greenplate"))

	path := useTempConfig(t)
	got, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestLoadProfile_FileNotExists(t *testing.T) {
	useTempConfig(t)

	config, err := LoadProfile()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestLoadProfile_ValidFile(t *testing.T) {
	configPath := useTempConfig(t)

	data, _ := json.Marshal(Profile{UserID: 7, APIURL: "http://localhost:8080"})
	require.NoError(t, os.WriteFile(configPath, data, 0600))

	config, err := LoadProfile()
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, int64(7), config.UserID)
	assert.Equal(t, "http://localhost:8080", config.APIURL)
}

func TestLoadProfile_InvalidJSON(t *testing.T) {
	configPath := useTempConfig(t)
	require.NoError(t, os.WriteFile(configPath, []byte("{invalid json}"), 0600))

	config, err := LoadProfile()
	require.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "parse ")
}

func TestSaveProfile_SetCorrectPermissions(t *testing.T) {
	configPath := useTempConfig(t)

	require.NoError(t, SaveProfile(&Profile{UserID: 3, APIURL: "http://localhost:8080"}))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSaveProfile_NilConfig(t *testing.T) {
	err := SaveProfile(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile is nil")
}

func TestDeleteProfile(t *testing.T) {
	configPath := useTempConfig(t)

	require.NoError(t, SaveProfile(&Profile{UserID: 3}))
	require.NoError(t, DeleteProfile())
	_, err := os.Stat(configPath)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op.
	require.NoError(t, DeleteProfile())
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseUserID(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_FlagBeatsEnv(t *testing.T) {
	useTempConfig(t)
	t.Setenv(envUserID, "9")
	t.Setenv(envAPIURL, "http://env:8080")

	id, err := Resolve(5, "http://flag:8080")
	require.NoError(t, err)
	assert.Equal(t, SourceFlag, id.UserSource)
	assert.Equal(t, int64(5), id.UserID)
	assert.Equal(t, "http://flag:8080", id.APIURL)
}

func TestResolve_EnvBeatsProfile(t *testing.T) {
	useTempConfig(t)
	require.NoError(t, SaveProfile(&Profile{UserID: 11, APIURL: "http://profile:8080", SortBy: "rating"}))
	t.Setenv(envUserID, "9")
	t.Setenv(envAPIURL, "")

	id, err := Resolve(0, "")
	require.NoError(t, err)
	assert.Equal(t, SourceEnv, id.UserSource)
	assert.Equal(t, int64(9), id.UserID)
	// Fields resolve independently.
	assert.Equal(t, "http://profile:8080", id.APIURL)
	assert.Equal(t, "rating", id.SortBy)
}

func TestResolve_Profile(t *testing.T) {
	useTempConfig(t)
	t.Setenv(envUserID, "")
	t.Setenv(envAPIURL, "")
	require.NoError(t, SaveProfile(&Profile{UserID: 11}))

	id, err := Resolve(0, "")
	require.NoError(t, err)
	assert.Equal(t, SourceProfile, id.UserSource)
	assert.Equal(t, int64(11), id.UserID)
	assert.Equal(t, defaultAPIURL, id.APIURL)
}

func TestResolve_Anonymous(t *testing.T) {
	useTempConfig(t)
	t.Setenv(envUserID, "")
	t.Setenv(envAPIURL, "")

	id, err := Resolve(0, "")
	require.NoError(t, err)
	assert.Equal(t, SourceNone, id.UserSource)
	assert.Zero(t, id.UserID)
	assert.Equal(t, defaultAPIURL, id.APIURL)
}

func TestResolve_InvalidEnvUser(t *testing.T) {
	useTempConfig(t)
	t.Setenv(envUserID, "chef")

	_, err := Resolve(0, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), envUserID)
}
