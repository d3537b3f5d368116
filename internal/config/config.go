package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// StorageType selects which backend tiers are in play.
type StorageType string

const (
	StorageCosmos StorageType = "cosmosdb"
	StorageSQLite StorageType = "sqlite"
	StorageGitHub StorageType = "github"
)

// Scope selects whether API calls are enterprise- or organization-wide.
type Scope string

const (
	ScopeOrganization Scope = "organization"
	ScopeEnterprise   Scope = "enterprise"
)

// Config holds every setting the service reads. It is resolved once at
// startup and passed into constructors; nothing looks at the environment
// after Load returns.
type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
	LogDebug   bool   `envconfig:"LOG_DEBUG"`

	Github struct {
		Token        string `envconfig:"GITHUB_TOKEN"`
		BaseURL      string `envconfig:"GITHUB_API_BASEURL" default:"https://api.github.com"`
		Version      string `envconfig:"GITHUB_API_VERSION" default:"2022-11-28"`
		Scope        Scope  `envconfig:"GITHUB_API_SCOPE" default:"organization"`
		Enterprise   string `envconfig:"GITHUB_ENTERPRISE"`
		Organization string `envconfig:"GITHUB_ORGANIZATION"`
	}

	Storage struct {
		Type       StorageType `envconfig:"STORAGE_TYPE" default:"github"`
		SQLitePath string      `envconfig:"SQLITE_DB_PATH"`
	}

	Cosmos struct {
		Endpoint string `envconfig:"AZURE_COSMOSDB_ENDPOINT"`
		Key      string `envconfig:"AZURE_COSMOSDB_KEY"`
	}

	Features struct {
		Dashboard bool `envconfig:"ENABLE_DASHBOARD_FEATURE" default:"true"`
		Seats     bool `envconfig:"ENABLE_SEATS_FEATURE" default:"true"`
	}
}

// Load resolves configuration from the process environment, reading a .env
// file first when one exists. Validation failures are fatal and happen
// before any I/O.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var conf Config
	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	// A variable set to the empty string means "use the default", the same
	// way a missing one does.
	switch conf.Storage.Type {
	case StorageCosmos, StorageSQLite, StorageGitHub:
	case "":
		conf.Storage.Type = StorageGitHub
	default:
		return nil, fmt.Errorf("invalid STORAGE_TYPE %q: must be 'cosmosdb', 'sqlite', or 'github'", conf.Storage.Type)
	}

	switch conf.Github.Scope {
	case ScopeOrganization, ScopeEnterprise:
	case "":
		conf.Github.Scope = ScopeOrganization
	default:
		return nil, fmt.Errorf("invalid GITHUB_API_SCOPE %q: must be 'enterprise' or 'organization'", conf.Github.Scope)
	}

	if conf.Storage.Type == StorageSQLite && conf.Storage.SQLitePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving default sqlite path: %w", err)
		}
		conf.Storage.SQLitePath = filepath.Join(home, ".copilot-metrics", "copilot-metrics.db")
	}

	if conf.Storage.Type == StorageCosmos {
		if conf.Cosmos.Endpoint == "" {
			return nil, fmt.Errorf("AZURE_COSMOSDB_ENDPOINT is required when STORAGE_TYPE is 'cosmosdb'")
		}
		if conf.Cosmos.Key == "" {
			return nil, fmt.Errorf("AZURE_COSMOSDB_KEY is required when STORAGE_TYPE is 'cosmosdb'")
		}
	}

	// Without a database the remote API is the only tier, so GitHub
	// credentials and a scope target stop being optional.
	if conf.Storage.Type == StorageGitHub {
		if conf.Github.Token == "" {
			return nil, fmt.Errorf("GITHUB_TOKEN is required when no database is configured")
		}
		if err := conf.ValidateScopeTarget(); err != nil {
			return nil, err
		}
	}

	return &conf, nil
}

// ValidateScopeTarget checks that the configured scope has a target to query.
func (c *Config) ValidateScopeTarget() error {
	switch c.Github.Scope {
	case ScopeEnterprise:
		if c.Github.Enterprise == "" {
			return fmt.Errorf("GITHUB_ENTERPRISE is required when GITHUB_API_SCOPE is 'enterprise'")
		}
	default:
		if c.Github.Organization == "" {
			return fmt.Errorf("GITHUB_ORGANIZATION is required when GITHUB_API_SCOPE is 'organization'")
		}
	}
	return nil
}

// DatabaseConfigured reports whether any store tier precedes the API tier.
func (c *Config) DatabaseConfigured() bool {
	return c.Storage.Type == StorageCosmos || c.Storage.Type == StorageSQLite
}
