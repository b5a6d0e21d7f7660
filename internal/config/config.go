package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envPattern ищет подстановки формата ${VAR} и ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvWithDefaults расширяет переменные окружения с поддержкой дефолтных значений
// Формат: ${VAR:-default}
func expandEnvWithDefaults(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		matches := envPattern.FindStringSubmatch(match)
		if len(matches) < 2 {
			return match
		}

		varName := matches[1]
		defaultValue := ""
		if len(matches) > 2 {
			defaultValue = matches[2]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}

// Defaults значения по умолчанию для Config
func Defaults() map[string]any {
	return map[string]any{
		"logger.level":                     "info",
		"logger.format":                    "text",
		"server.host":                      "0.0.0.0",
		"server.use_reflection":            false,
		"server.port_grpc":                 50051,
		"server.port_http":                 8080,
		"server.http_read_timeout":         15,
		"server.http_write_timeout":        0,
		"server.http_idle_timeout":         60,
		"server.http_read_header_timeout":  5,
		"server.graceful_shutdown_timeout": 10,
		"gateway.cors_allowed_origins":     "*",
		"gateway.cors_max_age":             86400,
		"gateway.rate_limit_rps":           100,
		"gateway.rate_limit_burst":         10,
		"gateway.swagger_enabled":          true,
		"auth.token":                       "",
		"database.driver":                  "sqlite",
		"database.dsn":                     "notes.db",
		"database.max_open_conns":          10,
		"database.max_idle_conns":          5,
		"database.conn_max_lifetime":       300,
		"database.auto_migrate":            true,
		"database.slow_query_ms":           200,
		"events.redis_url":                 "",
		"events.channel":                   "notes.events",
		"events.buffer_size":               16,
	}
}

// InitConfig читает конфигурационный файл и возвращает экземпляр конфигурации
// Использует generic для работы с произвольным типом конфигурации
func InitConfig[C any](configFile string, defaults map[string]any) (*C, error) {
	v := viper.New()
	for k, value := range defaults {
		v.SetDefault(k, value)
	}

	ext := strings.TrimLeft(filepath.Ext(configFile), ".")

	v.SetConfigFile(configFile)
	v.SetConfigType(ext)
	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("v.ReadInConfig: %w", err)
	}

	// Заменяем переменные окружения формата ${VAR:-default} на их значения
	for _, k := range v.AllKeys() {
		value := v.GetString(k)
		if value == "" || !strings.Contains(value, "${") {
			continue
		}
		expanded := expandEnvWithDefaults(value)

		if expanded == "true" || expanded == "false" {
			boolValue, _ := strconv.ParseBool(expanded)
			v.Set(k, boolValue)
		} else if intValue, err := strconv.Atoi(expanded); err == nil {
			v.Set(k, intValue)
		} else {
			v.Set(k, expanded)
		}
	}

	cfg := new(C)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("v.Unmarshal: %w", err)
	}

	return cfg, nil
}

// Load читает Config из файла с учетом значений по умолчанию
func Load(configFile string) (*Config, error) {
	cfg, err := InitConfig[Config](configFile, Defaults())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные секции и допустимые значения
func (c *Config) Validate() error {
	if c.Logger == nil || c.Server == nil || c.Gateway == nil || c.Auth == nil || c.Database == nil || c.Events == nil {
		return fmt.Errorf("config: missing section")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Driver != "memory" && c.Database.DSN == "" {
		return fmt.Errorf("config: database.dsn is required for driver %q", c.Database.Driver)
	}
	return nil
}
