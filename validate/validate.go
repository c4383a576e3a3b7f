// Command validate checks the client profiles in a configs directory. It
// checks:
//   - TOML syntax and unknown keys
//   - A name and a server given as host[:port]
//   - Arena size, paddle speed and navigation delay after defaults are applied
//   - A control listen address of the form host:port
//   - That the directory's default profile exists
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/pong-client/game/config"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateProfile loads and validates a single profile file.
func validateProfile(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var p config.Profile
	meta, err := toml.Decode(string(data), &p)
	if err != nil {
		result.fail("Invalid TOML: %v", err)
		return result
	}
	for _, key := range meta.Undecoded() {
		result.fail("Unknown key %q", key.String())
	}

	if strings.TrimSpace(p.Name) == "" {
		result.fail("Missing name")
	}
	if strings.TrimSpace(p.Server) == "" {
		result.fail("Missing server")
	} else if err := validateHost(p.Server); err != nil {
		result.fail("Invalid server: %v", err)
	}

	p.FillDefaults(config.MinimalProfile())
	if err := config.ValidateProfile(&p); err != nil {
		result.fail("Invalid profile: %v", err)
	}

	if _, _, err := net.SplitHostPort(p.Control.Listen); err != nil {
		result.fail("Invalid control listen address %q: %v", p.Control.Listen, err)
	}

	if result.Valid {
		result.Errors = append(result.Errors,
			fmt.Sprintf("✓ Server: %s%s", p.Server, p.Path),
			fmt.Sprintf("✓ Arena: %dx%d, paddle speed %d", p.Width, p.Height, p.PaddleSpeed),
			fmt.Sprintf("✓ Control API: %s", p.Control.Listen),
		)
		if p.JournalDir != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Journal: %s", p.JournalDir))
		}
	}
	return result
}

// validateHost accepts host or host:port without a scheme.
func validateHost(server string) error {
	if strings.Contains(server, "://") {
		return fmt.Errorf("%q must not include a scheme", server)
	}
	if strings.ContainsAny(server, "/?#") {
		return fmt.Errorf("%q must not include a path or query", server)
	}
	if !strings.Contains(server, ":") || (strings.HasPrefix(server, "[") && strings.HasSuffix(server, "]")) {
		return nil
	}
	_, port, err := net.SplitHostPort(server)
	if err != nil {
		return err
	}
	if port == "" {
		return fmt.Errorf("%q has an empty port", server)
	}
	return nil
}

// validateDir validates every profile in dir and reports whether the
// directory has a default profile.
func validateDir(dir string) ([]ValidationResult, bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, false, err
	}

	hasDefault := false
	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		if filepath.Base(file) == "default.toml" {
			hasDefault = true
		}
		results = append(results, validateProfile(file))
	}
	return results, hasDefault, nil
}

// main validates a configs directory, printing a concise report and exiting
// with non-zero status if any profile is invalid.
func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "validate client profiles",
		ArgsUsage: "[configs dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = "../configs"
			}
			return run(dir)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(dir string) error {
	results, hasDefault, err := validateDir(dir)
	if err != nil {
		return fmt.Errorf("error finding profiles: %w", err)
	}

	allValid := true
	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if !hasDefault {
		fmt.Println("⚠️  No default.toml; the first profile will be used as the default")
	}
	if !allValid {
		return fmt.Errorf("❌ Some profiles have errors")
	}
	fmt.Println("✅ All profiles are valid!")
	return nil
}
