package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

const (
	envConfigDir = "GREENPLATE_CONFIG_DIR"
	profileFile  = "config.json"
)

// Profile is what `greenplate auth login` remembers between runs.
type Profile struct {
	UserID int64  `json:"user_id"`
	APIURL string `json:"api_url,omitempty"`
	// SortBy is used when a listing command is run without --sort-by.
	SortBy string `json:"sort_by,omitempty"`
}

// ConfigDir is $GREENPLATE_CONFIG_DIR, or greenplate/ under the user
// config directory.
func ConfigDir() (string, error) {
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(base, "greenplate"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, profileFile), nil
}

// LoadProfile returns nil without error when nobody has logged in.
func LoadProfile() (*Profile, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &p, nil
}

// SaveProfile replaces config.json atomically with mode 0600.
func SaveProfile(p *Profile) error {
	if p == nil {
		return errors.New("profile is nil")
	}
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	tmp, err := os.CreateTemp(dir, profileFile+".*")
	if err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write profile: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, profileFile))
}

// DeleteProfile is a no-op when there is no profile.
func DeleteProfile() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// ParseUserID accepts a positive decimal user id.
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q (expected a positive integer)", raw)
	}
	return id, nil
}

// Source says where the user id came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceProfile Source = "profile"
	SourceNone    Source = "none"
)

// Identity is who the CLI acts as and which API it talks to.
type Identity struct {
	UserID     int64
	UserSource Source
	APIURL     string
	SortBy     string
}

// Resolve applies flag, then environment (.env included), then the saved
// profile, field by field. No user id is not an error: reads are anonymous.
func Resolve(flagUserID int64, flagAPIURL string) (Identity, error) {
	id := Identity{UserSource: SourceNone, APIURL: flagAPIURL}

	switch raw := os.Getenv(envUserID); {
	case flagUserID > 0:
		id.UserID, id.UserSource = flagUserID, SourceFlag
	case raw != "":
		userID, err := ParseUserID(raw)
		if err != nil {
			return Identity{}, fmt.Errorf("%s: %w", envUserID, err)
		}
		id.UserID, id.UserSource = userID, SourceEnv
	}
	if id.APIURL == "" {
		id.APIURL = os.Getenv(envAPIURL)
	}

	profile, err := LoadProfile()
	if err != nil {
		return Identity{}, err
	}
	if profile != nil {
		if id.UserSource == SourceNone && profile.UserID > 0 {
			id.UserID, id.UserSource = profile.UserID, SourceProfile
		}
		if id.APIURL == "" {
			id.APIURL = profile.APIURL
		}
		id.SortBy = profile.SortBy
	}

	if id.APIURL == "" {
		id.APIURL = defaultAPIURL
	}
	return id, nil
}
