package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config собирается из необязательного yaml-файла, поверх которого
// ложатся переменные окружения (окружение всегда выигрывает)
type Config struct {
	PostgresConn  string `yaml:"postgres_conn"`
	ServerAddress string `yaml:"server_address"`
	LogLevel      string `yaml:"log_level"`
}

// Load читает файл по пути из BIDTRACK_CONFIG (по умолчанию
// bidtrack.yaml, отсутствие файла не ошибка) и окружение
func Load() (Config, error) {
	cfg := Config{
		ServerAddress: "0.0.0.0:8080",
		LogLevel:      "info",
	}

	path := os.Getenv("BIDTRACK_CONFIG")
	if path == "" {
		path = "bidtrack.yaml"
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if v := os.Getenv("POSTGRES_CONN"); v != "" {
		cfg.PostgresConn = v
	}
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		cfg.ServerAddress = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if cfg.PostgresConn == "" {
		return Config{}, fmt.Errorf("POSTGRES_CONN is not set")
	}
	return cfg, nil
}
