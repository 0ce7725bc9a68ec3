package config

import "github.com/LambdaTest/covdiff/pkg/lumber"

// Model definition for configuration

// Config is the application's configuration. Keys match the command line
// flag names, in config files and, upper cased with a COVDIFF_ prefix, in the
// environment.
type Config struct {
	Config    string `yaml:"config"`
	Verbose   bool   `yaml:"verbose"`
	LogConfig lumber.LoggingConfig

	Classes []string `yaml:"classes"`
	Sources []string `yaml:"sources"`
	Root    string   `yaml:"root"`
	First   []string `yaml:"first"`
	Second  []string `yaml:"second"`
	Exec    []string `yaml:"exec"`
	Report  string   `yaml:"report"`
	Titles  []string `yaml:"titles"`
	Unit    string   `yaml:"unit" validate:"oneof=lines branches instructions"`

	FilterBaseline bool   `yaml:"filter-baseline"`
	Workers        int    `yaml:"workers" validate:"gte=0"`
	Assets         string `yaml:"assets"`
	Archive        bool   `yaml:"archive"`
	Upload         bool   `yaml:"upload"`
	Azure          Azure  `yaml:"azure"`

	// Out is the destination of the merge command.
	Out string `yaml:"out"`
	// Port is the listen port of the serve command.
	Port string `yaml:"port" validate:"required,numeric"`
}

// Azure provides the report storage configuration.
type Azure struct {
	ContainerName      string `yaml:"container"`
	StorageAccountName string `yaml:"account"`
	StorageAccessKey   string `yaml:"key"`
	// ServiceURL overrides the account endpoint, e.g. for a local emulator.
	ServiceURL string `yaml:"service-url" validate:"omitempty,url"`
}

// Suites returns the baseline and comparison execution record files. A
// single --exec list names the baseline first, followed by the comparison files.
func (c *Config) Suites() (baseline, comparison []string) {
	if len(c.Exec) > 0 {
		return c.Exec[:1], c.Exec[1:]
	}
	return c.First, c.Second
}
