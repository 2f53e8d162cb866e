package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pommerman/eventstats/pkg/core"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "eventstats.cfg.json"

// EnvPrefix prefixes environment overrides, e.g. EVENTSTATS_STORAGE_TYPE.
const EnvPrefix = "EVENTSTATS"

// JSONConfig holds gzip JSON snapshot settings
type JSONConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// SQLiteConfig holds SQLite snapshot settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// DBConfig holds Postgres connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// StorageConfig selects and configures the dataset snapshot backend.
type StorageConfig struct {
	Type     string       `json:"type" mapstructure:"type"`
	JSON     JSONConfig   `json:"json" mapstructure:"json"`
	SQLite   SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
	Postgres DBConfig     `json:"db" mapstructure:"db"`
}

// InfluxConfig holds result export settings.
type InfluxConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Protocol   string `json:"protocol" mapstructure:"protocol"`
	Token      string `json:"token" mapstructure:"token"`
	Org        string `json:"org" mapstructure:"org"`
	Bucket     string `json:"bucket" mapstructure:"bucket"`
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// OTelConfig toggles the OpenTelemetry meter. When enabled, metrics are
// exported to the run's log file.
type OTelConfig struct {
	Enabled        bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName    string        `json:"serviceName" mapstructure:"serviceName"`
	ExportInterval time.Duration `json:"exportInterval" mapstructure:"exportInterval"`
}

// GraylogConfig holds the GELF log sink settings.
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// Load sets default values and reads FileName from configDir when present.
// Environment variables prefixed with EnvPrefix override both.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./eventstats-logs")
	viper.SetDefault("logDir", "./gamelogs")
	viper.SetDefault("workers", 0)

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("storage.type", "json")
	viper.SetDefault("storage.json.path", "./dataset.json.gz")
	viper.SetDefault("storage.sqlite.path", "./dataset.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "eventstats")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "eventstats")
	viper.SetDefault("influx.bucket", "results")
	viper.SetDefault("influx.backupPath", "./influx-backup.lp.gz")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "eventstats")
	viper.SetDefault("otel.exportInterval", "30s")

	vocab := core.DefaultVocabulary()
	agents := make(map[string]string, len(vocab.Agents))
	for id, name := range vocab.Agents {
		agents[strconv.Itoa(int(id))] = name
	}
	radii := make([]int, len(vocab.Radii))
	for i, r := range vocab.Radii {
		radii[i] = int(r)
	}
	viper.SetDefault("vocabulary.agents", agents)
	viper.SetDefault("vocabulary.radii", radii)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the snapshot backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:   viper.GetString("storage.type"),
		JSON:   JSONConfig{Path: viper.GetString("storage.json.path")},
		SQLite: SQLiteConfig{Path: viper.GetString("storage.sqlite.path")},
		Postgres: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
}

// GetInfluxConfig returns the result export settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Protocol:   viper.GetString("influx.protocol"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		ExportInterval: viper.GetDuration("otel.exportInterval"),
	}
}

// GetGraylogConfig returns the GELF sink settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetVocabulary decodes vocabulary.agents (id → name) and vocabulary.radii.
func GetVocabulary() (core.Vocabulary, error) {
	raw := viper.GetStringMapString("vocabulary.agents")
	if len(raw) == 0 {
		return core.Vocabulary{}, fmt.Errorf("vocabulary.agents is empty")
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	vocab := core.Vocabulary{Agents: make(map[core.AgentType]string, len(raw))}
	for _, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			return core.Vocabulary{}, fmt.Errorf("vocabulary.agents: invalid agent id %q: %w", id, err)
		}
		vocab.Agents[core.AgentType(n)] = raw[id]
	}

	for _, r := range viper.GetIntSlice("vocabulary.radii") {
		if r <= 0 {
			return core.Vocabulary{}, fmt.Errorf("vocabulary.radii: radius %d must be positive", r)
		}
		vocab.Radii = append(vocab.Radii, core.Observability(r))
	}
	return vocab, nil
}
