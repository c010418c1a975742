package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = "talentfit.yaml"

// Server is one deployment of the job board backends
type Server struct {
	Alias     string `yaml:"alias"`
	Auth      string `yaml:"auth"`
	Jobs      string `yaml:"jobs,omitempty"`
	Matching  string `yaml:"matching,omitempty"`
	Assistant string `yaml:"assistant,omitempty"`
}

// Config represents the CLI project configuration file
type Config struct {
	Servers []Server `yaml:"servers"`
}

// DefaultConfig returns a configuration pointing at a local stack
func DefaultConfig() *Config {
	return &Config{
		Servers: []Server{
			{
				Alias:     "local",
				Auth:      "http://localhost:8000/api/v1",
				Jobs:      "http://localhost:8001/api/v1",
				Matching:  "http://localhost:8002/api/v1",
				Assistant: "http://localhost:8003/api/v1",
			},
		},
	}
}

// FindConfigFile searches for talentfit.yaml in current directory and parent directories
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	// Search upwards until we find talentfit.yaml or reach root
	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found in %s or any parent directory", ConfigFileName, currentDir)
}

// Load reads the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	for i, s := range cfg.Servers {
		if s.Alias == "" {
			return nil, fmt.Errorf("server #%d in %s has no alias", i+1, path)
		}
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads config from current directory or parent directories
func LoadFromCurrentDir() (*Config, error) {
	configPath, err := FindConfigFile()
	if err != nil {
		return nil, err
	}

	return Load(configPath)
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetServerByAlias returns a server by its alias
func (c *Config) GetServerByAlias(alias string) (*Server, error) {
	for i := range c.Servers {
		if c.Servers[i].Alias == alias {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with alias '%s' not found", alias)
}

// GetDefaultServer returns the first server in the list
func (c *Config) GetDefaultServer() (*Server, error) {
	if len(c.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", ConfigFileName)
	}
	return &c.Servers[0], nil
}
