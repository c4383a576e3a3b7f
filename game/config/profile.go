package config

import (
	"fmt"
	"strings"
	"time"
)

// Duration wraps time.Duration so profiles can say "5s"
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ControlConfig configures the local control API
type ControlConfig struct {
	Listen      string `toml:"listen" json:"listen"`
	NgrokDomain string `toml:"ngrok_domain" json:"ngrok_domain,omitempty"`
}

// Profile is one client configuration
type Profile struct {
	Name          string        `toml:"name" json:"name"`
	Description   string        `toml:"description" json:"description,omitempty"`
	Server        string        `toml:"server" json:"server"`
	Code          string        `toml:"code" json:"code,omitempty"`
	Path          string        `toml:"path" json:"path"`
	Width         int           `toml:"width" json:"width"`
	Height        int           `toml:"height" json:"height"`
	PaddleSpeed   int           `toml:"paddle_speed" json:"paddle_speed"`
	NavigateDelay Duration      `toml:"navigate_delay" json:"navigate_delay"`
	JournalDir    string        `toml:"journal_dir" json:"journal_dir,omitempty"`
	Sound         bool          `toml:"sound" json:"sound"`
	Control       ControlConfig `toml:"control" json:"control"`
}

// ProfileInfo describes a profile file
type ProfileInfo struct {
	Filename    string `json:"filename"`
	ProfileID   string `json:"profile_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Server      string `json:"server"`
}

// ValidateProfile checks p for values the client cannot run with.
func ValidateProfile(p *Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}
	if strings.TrimSpace(p.Server) == "" {
		return fmt.Errorf("server is required")
	}
	if strings.Contains(p.Server, "://") {
		return fmt.Errorf("server must be host[:port], got %q", p.Server)
	}
	if p.Path != "" && !strings.HasPrefix(p.Path, "/") {
		return fmt.Errorf("path must start with '/', got %q", p.Path)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("arena size must be positive, got %dx%d", p.Width, p.Height)
	}
	if p.PaddleSpeed <= 0 {
		return fmt.Errorf("paddle_speed must be positive, got %d", p.PaddleSpeed)
	}
	if p.NavigateDelay.Duration < 0 {
		return fmt.Errorf("navigate_delay must not be negative, got %s", p.NavigateDelay)
	}
	return nil
}

// FillDefaults copies unset fields from def.
func (p *Profile) FillDefaults(def *Profile) {
	if p.Server == "" {
		p.Server = def.Server
	}
	if p.Path == "" {
		p.Path = def.Path
	}
	if p.Width == 0 {
		p.Width = def.Width
	}
	if p.Height == 0 {
		p.Height = def.Height
	}
	if p.PaddleSpeed == 0 {
		p.PaddleSpeed = def.PaddleSpeed
	}
	if p.NavigateDelay.Duration == 0 {
		p.NavigateDelay = def.NavigateDelay
	}
	if p.Control.Listen == "" {
		p.Control.Listen = def.Control.Listen
	}
}

// MinimalProfile returns the built-in profile used when no file exists.
func MinimalProfile() *Profile {
	return &Profile{
		Name:          "default",
		Description:   "Local server with standard arena",
		Server:        "localhost:8080",
		Path:          "/ws",
		Width:         1600,
		Height:        800,
		PaddleSpeed:   6,
		NavigateDelay: Duration{5 * time.Second},
		JournalDir:    "",
		Sound:         true,
		Control:       ControlConfig{Listen: "127.0.0.1:8081"},
	}
}
