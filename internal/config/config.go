package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Postgres PostgresConfig `mapstructure:"postgres"` // PostgreSQL配置
	Redis    RedisConfig    `mapstructure:"redis"`    // Redis限流配置（可选）
	Scanner  ScannerConfig  `mapstructure:"scanner"`  // 上游扫描配置
	Log      LogConfig      `mapstructure:"log"`      // 日志配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// RedisConfig Redis配置（仅用于按用户限流，未启用时中间件直接放行）
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`  // 是否启用限流
	Addr     string `mapstructure:"addr"`     // Redis地址
	Password string `mapstructure:"password"` // 密码
	DB       int    `mapstructure:"db"`       // 库编号
}

// ScannerConfig 上游抓取目标配置
type ScannerConfig struct {
	BaseURL   string `mapstructure:"base_url"`   // 上游API基础地址
	Timeout   int    `mapstructure:"timeout"`    // 单次请求超时（秒）
	UserAgent string `mapstructure:"user_agent"` // 请求UA
	AuthToken string `mapstructure:"auth_token"` // 上游Bearer Token
	Referer   string `mapstructure:"referer"`    // Referer头
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`        // 日志级别：debug/info/warn/error
	File       string `mapstructure:"file"`         // 日志文件路径，空则仅输出stdout
	MaxSizeMB  int    `mapstructure:"max_size_mb"`  // 单文件最大MB（lumberjack）
	MaxBackups int    `mapstructure:"max_backups"`  // 保留文件数
	MaxAgeDays int    `mapstructure:"max_age_days"` // 保留天数
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SCANNER_BASE_URL"); v != "" {
		cfg.Scanner.BaseURL = v
	}
	if v := os.Getenv("SCANNER_AUTH_TOKEN"); v != "" {
		cfg.Scanner.AuthToken = v
	}
}
