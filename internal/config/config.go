// Package config defines the build options accepted by the bundling pipeline
// and loads the optional project configuration file. All defaults are resolved
// once, at entry, so later stages never consult ambient state.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/esbundle/internal/errors"
)

// Format is the requested output module format.
type Format string

const (
	FormatESM    Format = "esm"
	FormatCJS    Format = "cjs"
	FormatAMD    Format = "amd"
	FormatSystem Format = "system"
	FormatIIFE   Format = "iife"
	FormatUMD    Format = "umd"
)

// Valid reports whether f is a recognized output format.
func (f Format) Valid() bool {
	switch f {
	case FormatESM, FormatCJS, FormatAMD, FormatSystem, FormatIIFE, FormatUMD:
		return true
	}
	return false
}

// Options configures one build invocation. The struct is caller-owned and
// treated as immutable for the duration of the build.
type Options struct {
	// Log enables human-readable progress and success messages.
	Log bool

	// ProjectPath is the root used for dependency resolution. Defaults to
	// the working directory.
	ProjectPath string

	// RemoveDir destroys and recreates the output directory before writing.
	RemoveDir bool

	// Env is passed through to the resolution plugin (conditional exports,
	// process.env substitution).
	Env map[string]string

	// Sourcemap requests source maps in the output.
	Sourcemap bool

	// MJS, when set, forces (true) or forbids (false) the .mjs extension.
	// Its mere presence suppresses all extension inference.
	MJS *bool

	// Out is the output directory.
	Out string

	// Format is the output module format. Defaults to esm.
	Format Format

	// External lists module specifiers left unbundled.
	External []string

	// Globals maps external specifiers to global variable names for
	// non-esm formats.
	Globals map[string]string

	// Banner is prepended to every output file.
	Banner string

	// ShowGraph prints the per-chunk import graph after a one-shot build.
	ShowGraph bool

	// Watch runs in continuous rebuild mode instead of one-shot.
	Watch bool

	// Target is the syntax target passed through to the engine (es2015 …
	// esnext).
	Target string

	// InlineDeps bundles the project's npm dependencies instead of
	// externalizing them.
	InlineDeps bool
}

// WithDefaults returns a copy of o with every optional field resolved. cwd is
// the working directory passed in explicitly by the caller.
func (o Options) WithDefaults(cwd string) Options {
	if o.ProjectPath == "" {
		o.ProjectPath = cwd
	}
	if o.Out == "" {
		o.Out = "dist"
	}
	if o.Format == "" {
		o.Format = FormatESM
	}
	if o.Target == "" {
		o.Target = "esnext"
	}
	return o
}

// Validate checks option consistency after defaulting.
func (o Options) Validate() error {
	if !o.Format.Valid() {
		return errors.ValidationError("unknown output format").WithContext("format", string(o.Format))
	}
	switch o.Format {
	case FormatIIFE, FormatUMD, FormatAMD:
		if len(o.External) > 0 && len(o.Globals) == 0 {
			return errors.ConfigError("globals mapping is required when external modules are used with a non-esm format").
				WithContext("format", string(o.Format)).
				WithContext("external", o.External)
		}
	}
	return nil
}

// File is the on-disk project configuration (esbundle.yaml). It mirrors the
// flag surface of the build command; flags take precedence over file values.
type File struct {
	Inputs     []string          `yaml:"inputs,omitempty"`
	Entries    map[string]string `yaml:"entries,omitempty"`
	Out        string            `yaml:"out,omitempty"`
	Format     string            `yaml:"format,omitempty"`
	External   []string          `yaml:"external,omitempty"`
	Globals    map[string]string `yaml:"globals,omitempty"`
	Banner     string            `yaml:"banner,omitempty"`
	Sourcemap  bool              `yaml:"sourcemap,omitempty"`
	MJS        *bool             `yaml:"mjs,omitempty"`
	Target     string            `yaml:"target,omitempty"`
	InlineDeps bool              `yaml:"inline_deps,omitempty"`
	RemoveDir  bool              `yaml:"remove_dir,omitempty"`
	ShowGraph  bool              `yaml:"show_graph,omitempty"`
	Env        map[string]string `yaml:"env,omitempty"`
}

// LoadFile reads and parses a project configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &f, nil
}

// LoadEnvFile reads a dotenv file into a map suitable for Options.Env.
func LoadEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return env, nil
}
