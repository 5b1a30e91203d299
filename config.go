package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Options control how a statement is read and how the listing is laid out.
type Options struct {
	// LongNames accepts multi-character names and multi-digit literals
	// instead of single characters.
	LongNames bool

	// SkipWhite skips spaces and tabs between tokens. Newlines are never
	// skipped.
	SkipWhite bool

	// Indent prefixes every instruction line.
	Indent string

	// Logger receives debug records about the translation. Nil discards.
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{Indent: "\t"}
}

// fileOptions mirrors Options with pointer fields so that keys absent
// from a file keep their defaults.
type fileOptions struct {
	LongNames *bool   `toml:"long_names" yaml:"long_names"`
	SkipWhite *bool   `toml:"skip_white" yaml:"skip_white"`
	Indent    *string `toml:"indent" yaml:"indent"`
}

func (f fileOptions) apply(opts *Options) {
	if f.LongNames != nil {
		opts.LongNames = *f.LongNames
	}
	if f.SkipWhite != nil {
		opts.SkipWhite = *f.SkipWhite
	}
	if f.Indent != nil {
		opts.Indent = *f.Indent
	}
}

// LoadOptions reads options from a .toml, .yaml or .yml file on top of
// DefaultOptions.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read config %s: %w", path, err)
	}
	opts, err := parseOptions(data, filepath.Ext(path))
	if err != nil {
		return Options{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return opts, nil
}

func parseOptions(data []byte, ext string) (Options, error) {
	opts := DefaultOptions()
	var f fileOptions
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
		if err != nil {
			return Options{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Options{}, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return Options{}, err
		}
	default:
		return Options{}, fmt.Errorf("unsupported config format %q", ext)
	}
	f.apply(&opts)
	return opts, nil
}
