package main

import (
	"fmt"
	"strings"

	"stars_raffle_bot/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`
	Telegram TelegramConfig    `yaml:"telegram"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	AdminToken string `yaml:"adminToken"`
}

type TelegramConfig struct {
	BotToken string  `yaml:"botToken"`
	AdminIDs []int64 `yaml:"adminIds"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Telegram.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	return &cfg, nil
}
