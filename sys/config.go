package sys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// --- Phase 1: Configuration & Environment ---

type Config struct {
	Token        string
	GuildID      string
	DatabasePath string
	OwnerIDs     []string
	Silent       bool

	// Daily question settings
	Timezone        string
	Location        *time.Location
	PostTimes       []string
	ReviewChannelID snowflake.ID
	Fanout          int
	SendInterval    time.Duration
}

var GlobalConfig *Config

// LoadConfig initializes the configuration from the environment, an optional
// config.yaml and the .env file, in that order of precedence.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./data")
	v.AutomaticEnv()

	v.SetDefault("SILENT", false)
	v.SetDefault("QOTD_TIMEZONE", "UTC")
	v.SetDefault("QOTD_TIMES", "09:00,21:00")
	v.SetDefault("QOTD_FANOUT", 4)
	v.SetDefault("QOTD_SEND_INTERVAL", "250ms")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	}

	return configFromViper(v)
}

func configFromViper(v *viper.Viper) (*Config, error) {
	dbPath := v.GetString("DATABASE_PATH")
	if dbPath == "" {
		folder := "."
		if info, err := os.Stat("data"); err == nil && info.IsDir() {
			folder = "./data"
		}
		dbPath = filepath.Join(folder, GetProjectName()+".db")
	}

	cfg := &Config{
		Token:        v.GetString("DISCORD_TOKEN"),
		GuildID:      v.GetString("GUILD_ID"),
		DatabasePath: dbPath,
		OwnerIDs:     splitList(v.GetString("OWNER_IDS")),
		Silent:       v.GetBool("SILENT"),
		Timezone:     v.GetString("QOTD_TIMEZONE"),
		PostTimes:    splitList(v.GetString("QOTD_TIMES")),
		Fanout:       v.GetInt("QOTD_FANOUT"),
	}

	interval, err := time.ParseDuration(v.GetString("QOTD_SEND_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid QOTD_SEND_INTERVAL: %w", err)
	}
	cfg.SendInterval = interval

	if raw := v.GetString("QOTD_REVIEW_CHANNEL_ID"); raw != "" {
		id, err := snowflake.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid QOTD_REVIEW_CHANNEL_ID: %w", err)
		}
		cfg.ReviewChannelID = id
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Silent {
		SetSilentMode(true)
	}

	GlobalConfig = cfg
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.New(MsgConfigMissingToken)
	}
	if c.GuildID != "" && (len(c.GuildID) < 17 || len(c.GuildID) > 20) {
		return fmt.Errorf("invalid GUILD_ID: must be a valid Snowflake")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid QOTD_TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc

	if len(c.PostTimes) == 0 {
		return fmt.Errorf("QOTD_TIMES must list at least one HH:MM time")
	}
	for _, t := range c.PostTimes {
		if _, err := time.Parse("15:04", t); err != nil {
			return fmt.Errorf("invalid QOTD_TIMES entry %q: expected HH:MM", t)
		}
	}

	if c.Fanout < 1 {
		c.Fanout = 1
	}
	return nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func GetProjectName() string {
	exePath, err := os.Executable()
	projectName := "bot"
	if err == nil {
		projectName = filepath.Base(exePath)
		projectName = strings.TrimSuffix(projectName, ".exe")

		if projectName == "main" || strings.HasPrefix(projectName, "go_build_") || strings.HasSuffix(projectName, ".test") {
			if modData, err := os.ReadFile("go.mod"); err == nil {
				lines := strings.Split(string(modData), "\n")
				if len(lines) > 0 && strings.HasPrefix(lines[0], "module ") {
					parts := strings.Split(lines[0], "/")
					projectName = strings.TrimSpace(parts[len(parts)-1])
				}
			}
		}
	}
	return projectName
}
