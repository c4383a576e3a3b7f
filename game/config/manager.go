package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/inconshreveable/log15/v3"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("invalid profile")
)

const profileExt = ".toml"

// Manager handles profile loading and caching
type Manager struct {
	configDir      string
	defaultProfile *Profile
	profiles       map[string]*Profile
	mu             sync.RWMutex
	log            log15.Logger
}

// NewManager creates a new profile manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		profiles:  make(map[string]*Profile),
		log:       log15.New("pkg", "config"),
	}

	if err := m.loadDefaultProfile(); err != nil {
		return nil, fmt.Errorf("failed to load default profile: %w", err)
	}

	return m, nil
}

// LoadProfile loads a profile by name
func (m *Manager) LoadProfile(name string) (*Profile, error) {
	name = strings.TrimSuffix(name, profileExt)

	m.mu.RLock()
	if p, exists := m.profiles[name]; exists {
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if p, exists := m.profiles[name]; exists {
		return p, nil
	}

	p, err := m.readProfile(name)
	if err != nil {
		return nil, err
	}

	m.profiles[name] = p
	return p, nil
}

func (m *Manager) readProfile(name string) (*Profile, error) {
	path := filepath.Join(m.configDir, name+profileExt)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var p Profile
	meta, err := toml.Decode(string(data), &p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		m.log.Warn("unknown profile keys", "profile", name, "keys", fmt.Sprint(undecoded))
	}

	if p.Name == "" {
		p.Name = name
	}
	p.FillDefaults(MinimalProfile())

	if err := ValidateProfile(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return &p, nil
}

// ListProfiles returns information about all valid profiles
func (m *Manager) ListProfiles() ([]*ProfileInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var profiles []*ProfileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), profileExt) {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), profileExt)
		p, err := m.LoadProfile(id)
		if err != nil {
			m.log.Debug("skipping profile", "file", entry.Name(), "err", err)
			continue
		}

		profiles = append(profiles, &ProfileInfo{
			Filename:    entry.Name(),
			ProfileID:   id,
			Name:        p.Name,
			Description: p.Description,
			Server:      p.Server,
		})
	}

	return profiles, nil
}

// GetDefault returns the default profile
func (m *Manager) GetDefault() *Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultProfile
}

// SetDefault sets the default profile by name
func (m *Manager) SetDefault(name string) error {
	p, err := m.LoadProfile(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultProfile = p
	return nil
}

// RefreshCache drops cached profiles and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.profiles = make(map[string]*Profile)
	m.mu.Unlock()

	return m.loadDefaultProfile()
}

// loadDefaultProfile prefers default.toml, then the first valid profile,
// then the built-in minimal profile.
func (m *Manager) loadDefaultProfile() error {
	p, err := m.LoadProfile("default")
	if err != nil {
		profiles, listErr := m.ListProfiles()
		if listErr != nil || len(profiles) == 0 {
			m.setDefault(MinimalProfile())
			return nil
		}

		p, err = m.LoadProfile(profiles[0].ProfileID)
		if err != nil {
			m.setDefault(MinimalProfile())
			return nil
		}
	}

	m.setDefault(p)
	return nil
}

func (m *Manager) setDefault(p *Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultProfile = p
}

// SaveProfile validates p and writes it to disk
func (m *Manager) SaveProfile(name string, p *Profile) error {
	if err := ValidateProfile(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	name = strings.TrimSuffix(name, profileExt)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: bad profile name %q", ErrInvalidProfile, name)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	path := filepath.Join(m.configDir, name+profileExt)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}

	m.mu.Lock()
	m.profiles[name] = p
	m.mu.Unlock()

	return nil
}
