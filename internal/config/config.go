package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	HubSpot     HubSpot     `mapstructure:",squash"`
	License     License     `mapstructure:",squash"`
	Cache       Cache       `mapstructure:",squash"`
	Auth        Auth        `mapstructure:",squash"`
	Methodology Methodology `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	Transport string `mapstructure:"mcp_transport"`
}

type HubSpot struct {
	APIKey                string `mapstructure:"hubspot_api_key"`
	BaseURL               string `mapstructure:"hubspot_base_url"`
	MaxPages              int    `mapstructure:"hubspot_max_pages"`
	PageSize              int    `mapstructure:"hubspot_page_size"`
	BatchSize             int    `mapstructure:"hubspot_batch_size"`
	RequestTimeoutSeconds int    `mapstructure:"hubspot_request_timeout_seconds"`
}

type License struct {
	Key            string `mapstructure:"artefact_license_key"`
	ValidateURL    string `mapstructure:"license_validate_url"`
	StoreID        int    `mapstructure:"license_store_id"`
	ProductID      int    `mapstructure:"license_product_id"`
	CachePath      string `mapstructure:"license_cache_path"`
	CacheTTLHours  int    `mapstructure:"license_cache_ttl_hours"`
	GraceDays      int    `mapstructure:"license_grace_days"`
	RevalidateCron string `mapstructure:"license_revalidate_cron"`
}

type Cache struct {
	Path       string `mapstructure:"cache_path"`
	TTLMinutes int    `mapstructure:"cache_ttl_minutes"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// Methodology points at the optional YAML file carrying custom RFM presets and
// ICP scoring overrides.
type Methodology struct {
	File string `mapstructure:"artefact_methodology_file"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("MCP_TRANSPORT", TransportStdio)

	viper.SetDefault("HUBSPOT_API_KEY", "")
	viper.SetDefault("HUBSPOT_BASE_URL", "https://api.hubapi.com")
	viper.SetDefault("HUBSPOT_MAX_PAGES", 50)
	viper.SetDefault("HUBSPOT_PAGE_SIZE", 100)
	viper.SetDefault("HUBSPOT_BATCH_SIZE", 100)
	viper.SetDefault("HUBSPOT_REQUEST_TIMEOUT_SECONDS", 30)

	viper.SetDefault("ARTEFACT_LICENSE_KEY", "")
	viper.SetDefault("LICENSE_VALIDATE_URL", "https://api.lemonsqueezy.com/v1/licenses/validate")
	viper.SetDefault("LICENSE_STORE_ID", 0)
	viper.SetDefault("LICENSE_PRODUCT_ID", 0)
	viper.SetDefault("LICENSE_CACHE_PATH", "")
	viper.SetDefault("LICENSE_CACHE_TTL_HOURS", 24)
	viper.SetDefault("LICENSE_GRACE_DAYS", 7)
	viper.SetDefault("LICENSE_REVALIDATE_CRON", "0 */6 * * *")

	viper.SetDefault("CACHE_PATH", "")
	viper.SetDefault("CACHE_TTL_MINUTES", 15)

	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("ARTEFACT_METHODOLOGY_FILE", "")

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("no .env file read by viper, relying on environment: ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Server.Transport = strings.ToLower(config.Server.Transport)

	// File-backed caches default to the user's artefact directory.
	if config.License.CachePath == "" || config.Cache.Path == "" {
		base := artefactDir()
		if config.License.CachePath == "" {
			config.License.CachePath = filepath.Join(base, "license.json")
		}
		if config.Cache.Path == "" {
			config.Cache.Path = filepath.Join(base, "crm_cache.db")
		}
	}

	return config, nil
}

func artefactDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".artefact"
	}
	return filepath.Join(home, ".artefact")
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not determine working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("loaded .env from ", location)
			return
		}
	}
}
