// Package config loads the YAML configuration file cmd/ippserverd reads at
// startup, in the same defaults-then-file-then-flags precedence the
// teacher's CLI used.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of the server's configuration file.
type File struct {
	Server  ServerConfig  `yaml:"server"`
	Printer PrinterConfig `yaml:"printer"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	TLSCert    string `yaml:"tls_cert"`
	TLSKey     string `yaml:"tls_key"`
	SpoolDir   string `yaml:"spool_dir"`
	Host       string `yaml:"host"`
	Basepath   string `yaml:"basepath"`
}

type PrinterConfig struct {
	Name                string   `yaml:"name"`
	Info                string   `yaml:"info"`
	MakeAndModel        string   `yaml:"make_and_model"`
	DocumentFormats     []string `yaml:"document_formats"`
	DocumentFormatDefault string `yaml:"document_format_default"`
	Media               []string `yaml:"media"`
	MediaDefault        string   `yaml:"media_default"`
	ColorSupported      bool     `yaml:"color_supported"`
	DuplexSupported     bool     `yaml:"duplex_supported"`
	ResolutionsDPI      []string `yaml:"resolutions_dpi"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// Default returns the configuration used when no file is supplied.
func Default() File {
	return File{
		Server: ServerConfig{
			ListenAddr: ":631",
			SpoolDir:   "/var/spool/ippcore",
			Host:       "localhost:631",
			Basepath:   "/",
		},
		Printer: PrinterConfig{
			Name:                  "ippcore",
			Info:                  "ippcore IPP server",
			MakeAndModel:          "ippcore Virtual Printer",
			DocumentFormats:       []string{"application/pdf"},
			DocumentFormatDefault: "application/pdf",
			Media:                 []string{"iso_a4_210x297mm"},
			MediaDefault:          "iso_a4_210x297mm",
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads and parses the YAML file at path, starting from Default()'s
// values so an unset field in the file keeps its default.
func Load(path string) (File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}
