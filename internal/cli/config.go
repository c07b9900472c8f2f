package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"gopkg.in/yaml.v3"

	"github.com/TimurManjosov/goevidently/internal/evclient"
)

// Environment variables consulted by ResolveProfile.
const (
	EnvEndpointURL = "EVIDENTLY_ENDPOINT_URL"
	EnvRegion      = "EVIDENTLY_REGION"
	EnvProject     = "EVIDENTLY_PROJECT"
	EnvFeature     = "EVIDENTLY_FEATURE"
)

// Defaults used when no flag, variable or profile names a project or feature.
const (
	DefaultProject = "food"
	DefaultFeature = "sushi"
)

// Config represents the CLI configuration file
type Config struct {
	DefaultProfile string             `yaml:"default_profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile holds connection settings and evaluation defaults.
type Profile struct {
	EndpointURL     string `yaml:"endpoint_url,omitempty"`
	Region          string `yaml:"region,omitempty"`
	Project         string `yaml:"project,omitempty"`
	Feature         string `yaml:"feature,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
}

// Overrides carries command-line values; empty fields are ignored.
type Overrides struct {
	EndpointURL string
	Region      string
	Project     string
	Feature     string
}

// ProfileKeys lists the keys accepted by Profile.Get and Profile.Set.
var ProfileKeys = []string{"endpoint_url", "region", "project", "feature", "access_key_id", "secret_access_key"}

// Get returns the value stored under key.
func (p Profile) Get(key string) (string, error) {
	switch key {
	case "endpoint_url":
		return p.EndpointURL, nil
	case "region":
		return p.Region, nil
	case "project":
		return p.Project, nil
	case "feature":
		return p.Feature, nil
	case "access_key_id":
		return p.AccessKeyID, nil
	case "secret_access_key":
		return p.SecretAccessKey, nil
	default:
		return "", fmt.Errorf("unknown key '%s', valid keys: %v", key, ProfileKeys)
	}
}

// Set stores value under key.
func (p *Profile) Set(key, value string) error {
	switch key {
	case "endpoint_url":
		p.EndpointURL = value
	case "region":
		p.Region = value
	case "project":
		p.Project = value
	case "feature":
		p.Feature = value
	case "access_key_id":
		p.AccessKeyID = value
	case "secret_access_key":
		p.SecretAccessKey = value
	default:
		return fmt.Errorf("unknown key '%s', valid keys: %v", key, ProfileKeys)
	}
	return nil
}

// ClientOptions converts the profile into client factory options.
// Static credentials are only used when an access key is configured.
func (p Profile) ClientOptions() evclient.Options {
	opts := evclient.Options{
		EndpointURL: p.EndpointURL,
		Region:      p.Region,
	}
	if p.AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(p.AccessKeyID, p.SecretAccessKey, "")
	}
	return opts
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".evidently", "config.yaml"), nil
}

// LoadConfig loads the configuration from file
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Profiles: make(map[string]Profile)}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to file
func SaveConfig(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveProfile returns the effective profile and its name.
// Priority: command flags > environment variables > config file > defaults.
// An explicitly requested profile must exist; the default profile may be absent.
func ResolveProfile(name string, o Overrides) (*Profile, string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, "", err
	}

	effective := name
	if effective == "" {
		effective = cfg.DefaultProfile
	}

	var p Profile
	if effective != "" {
		found, ok := cfg.Profiles[effective]
		if !ok && name != "" {
			return nil, "", fmt.Errorf("profile '%s' not found in config", name)
		}
		p = found
	}

	p.EndpointURL = firstNonEmpty(o.EndpointURL, os.Getenv(EnvEndpointURL), p.EndpointURL)
	p.Region = firstNonEmpty(o.Region, os.Getenv(EnvRegion), p.Region)
	p.Project = firstNonEmpty(o.Project, os.Getenv(EnvProject), p.Project, DefaultProject)
	p.Feature = firstNonEmpty(o.Feature, os.Getenv(EnvFeature), p.Feature, DefaultFeature)

	return &p, effective, nil
}

// InitConfig creates a default config file
func InitConfig() error {
	cfg := &Config{
		DefaultProfile: "aws",
		Profiles: map[string]Profile{
			// no region, so AWS_REGION and ~/.aws/config still apply
			"aws": {
				Project: DefaultProject,
				Feature: DefaultFeature,
			},
			"local": {
				EndpointURL:     "http://localhost:2306",
				Region:          evclient.DefaultRegion,
				Project:         DefaultProject,
				Feature:         DefaultFeature,
				AccessKeyID:     "local",
				SecretAccessKey: "local",
			},
		},
	}

	return SaveConfig(cfg)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
