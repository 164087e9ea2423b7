package config

import (
	"fmt"
	"os"

	"rectest/internal/domain"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML project config file. All fields are optional;
// pointer fields distinguish "absent" from an explicit false.
type FileConfig struct {
	Command      string   `yaml:"command"`
	Paths        []string `yaml:"paths"`
	TestExt      string   `yaml:"test_ext"`
	RecordExt    string   `yaml:"record_ext"`
	Symbol       string   `yaml:"symbol"`
	Recursive    *bool    `yaml:"recursive"`
	Jobs         int      `yaml:"jobs"`
	TimeoutMS    int      `yaml:"timeout_ms"`
	StrictStatus *bool    `yaml:"strict_status"`
	Ignore       []string `yaml:"ignore"`
}

// LoadFile reads and parses a project config file. A missing or unparsable
// file is a configuration error.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read config file %s: %v", domain.ErrConfig, path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: parse config file %s: %v", domain.ErrConfig, path, err)
	}
	return &fc, nil
}

// LoadDefaultFile loads the per-project config file if one exists in the
// working directory. No file means no overlay and no error.
func LoadDefaultFile() (*FileConfig, error) {
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		return nil, nil
	}
	return LoadFile(DefaultConfigFile)
}
