package config

// ConfigLogger настройки логирования
type ConfigLogger struct {
	Level  string `mapstructure:"level"`  // trace, debug, info, warn, error
	Format string `mapstructure:"format"` // text или json
}

// ConfigServer настройки сервера
type ConfigServer struct {
	Host                    string `mapstructure:"host"`
	UseReflection           bool   `mapstructure:"use_reflection"`
	PortGRPC                int    `mapstructure:"port_grpc"`
	PortHTTP                int    `mapstructure:"port_http"`
	HTTPReadTimeout         int    `mapstructure:"http_read_timeout"`
	HTTPWriteTimeout        int    `mapstructure:"http_write_timeout"` // 0 - без ограничения, нужен стриму /events
	HTTPIdleTimeout         int    `mapstructure:"http_idle_timeout"`
	HTTPReadHeaderTimeout   int    `mapstructure:"http_read_header_timeout"`
	GracefulShutdownTimeout int    `mapstructure:"graceful_shutdown_timeout"`
}

// ConfigGateway настройки HTTP API
type ConfigGateway struct {
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	CORSMaxAge         int    `mapstructure:"cors_max_age"`
	RateLimitRPS       int    `mapstructure:"rate_limit_rps"`
	RateLimitBurst     int    `mapstructure:"rate_limit_burst"`
	SwaggerEnabled     bool   `mapstructure:"swagger_enabled"`
}

// ConfigAuth настройки авторизации. Пустой токен отключает проверку.
type ConfigAuth struct {
	Token string `mapstructure:"token"`
}

// ConfigDatabase настройки подключения к БД
type ConfigDatabase struct {
	Driver          string `mapstructure:"driver"` // postgres, sqlite или memory
	DSN             string `mapstructure:"dsn"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
	SlowQueryMs     int    `mapstructure:"slow_query_ms"`
}

// ConfigEvents настройки рассылки событий. Пустой RedisURL означает локальный брокер.
type ConfigEvents struct {
	RedisURL   string `mapstructure:"redis_url"`
	Channel    string `mapstructure:"channel"`
	BufferSize int    `mapstructure:"buffer_size"`
}

// Config основная структура конфигурации
type Config struct {
	Logger   *ConfigLogger   `mapstructure:"logger"`
	Server   *ConfigServer   `mapstructure:"server"`
	Gateway  *ConfigGateway  `mapstructure:"gateway"`
	Auth     *ConfigAuth     `mapstructure:"auth"`
	Database *ConfigDatabase `mapstructure:"database"`
	Events   *ConfigEvents   `mapstructure:"events"`
}
