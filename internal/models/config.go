package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type MenuConfig struct {
	ItemsPerDay       int    `mapstructure:"items_per_day"`
	AvoidRecentDays   int    `mapstructure:"avoid_recent_days"`
	ExcludeOutOfStock bool   `mapstructure:"exclude_out_of_stock"`
	PreferBestSellers bool   `mapstructure:"prefer_best_sellers"`
	SeedBasedOnDate   bool   `mapstructure:"seed_based_on_date"`
	GeneratedBy       string `mapstructure:"generated_by"`
}

type Config struct {
	ServerAddress   string             `mapstructure:"server_address"`
	Timezone        string             `mapstructure:"timezone"`
	Database        DatabaseConfig     `mapstructure:"database"`
	Menu            MenuConfig         `mapstructure:"menu"`
	KafkaEnabled    bool               `mapstructure:"kafka_enabled"`
	KafkaBrokerList string             `mapstructure:"kafka_broker_list"`
	KafkaOrderTopic string             `mapstructure:"kafka_order_topic"`
	GeminiAPIKey    string             `mapstructure:"gemini_api_key"`
	GeminiModel     string             `mapstructure:"gemini_model"`
	ProductsFile    string             `mapstructure:"products_file"`
	OutputFolder    string             `mapstructure:"output_folder"`
	CloudStorage    CloudStorageConfig `mapstructure:"cloud_storage"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("server_address", ":8080")
	viper.SetDefault("timezone", "Asia/Jakarta")
	viper.SetDefault("menu.items_per_day", 6)
	viper.SetDefault("menu.avoid_recent_days", 2)
	viper.SetDefault("menu.exclude_out_of_stock", true)
	viper.SetDefault("menu.prefer_best_sellers", false)
	viper.SetDefault("menu.seed_based_on_date", true)
	viper.SetDefault("menu.generated_by", "system")
	viper.SetDefault("kafka_order_topic", "order_placed_events")
	viper.SetDefault("output_folder", "exports")
	viper.SetDefault("gemini_model", "gemini-2.5-flash")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

// Location returns the configured timezone, falling back to UTC when the
// name cannot be resolved.
func (cfg *Config) Location() *time.Location {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
