// =============================================================================
// 📦 kingmem 配置加载器
// =============================================================================
// 统一配置加载，支持 YAML 文件 + 环境变量覆盖
//
// 使用方法:
//
//	cfg, err := config.Load("kingmem.yaml")
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量
// =============================================================================
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "KINGMEM"

// Config 是 kingmem 的完整配置结构
type Config struct {
	// Redis 工作记忆会话存储配置
	Redis RedisConfig `yaml:"redis"`

	// Database 实体存储数据库配置
	Database DatabaseConfig `yaml:"database"`

	// Resolver 解析器超时与预算
	Resolver ResolverConfig `yaml:"resolver"`

	// Decay 衰减参数
	Decay DecayConfig `yaml:"decay"`

	// Metrics 指标配置
	Metrics MetricsConfig `yaml:"metrics"`

	// Log 日志配置
	Log LogConfig `yaml:"log"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	// 是否启用会话存储
	Enabled bool `yaml:"enabled"`
	// 地址
	Addr string `yaml:"addr"`
	// 密码
	Password string `yaml:"password"`
	// 数据库编号
	DB int `yaml:"db"`
	// 连接池大小
	PoolSize int `yaml:"pool_size"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// 驱动: sqlite 或 postgres
	Driver string `yaml:"driver"`
	// 连接串
	DSN string `yaml:"dsn"`
	// 最大空闲连接数
	MaxIdleConns int `yaml:"max_idle_conns"`
	// 最大打开连接数
	MaxOpenConns int `yaml:"max_open_conns"`
	// 连接最大生命周期
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// ResolverConfig 解析器配置
type ResolverConfig struct {
	// 策展器单次调用超时
	PlanTimeout time.Duration `yaml:"plan_timeout"`
	// 单层取数超时
	TierTimeout time.Duration `yaml:"tier_timeout"`
	// 整次解析预算
	ResolveTimeout time.Duration `yaml:"resolve_timeout"`
}

// DecayConfig 衰减配置
type DecayConfig struct {
	// 情节记忆半衰期（天）
	HalfLifeDays float64 `yaml:"half_life_days"`
	// 工作记忆 TTL
	WorkingTTL time.Duration `yaml:"working_ttl"`
	// 最小保留系数
	MinRetention float64 `yaml:"min_retention"`
	// 过期阈值
	MinImportance float64 `yaml:"min_importance"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// 是否启用
	Enabled bool `yaml:"enabled"`
	// 指标命名空间
	Namespace string `yaml:"namespace"`
}

// LogConfig 日志配置
type LogConfig struct {
	// 级别: debug / info / warn / error
	Level string `yaml:"level"`
	// 编码: json / console
	Encoding string `yaml:"encoding"`
}

// Default 返回默认配置
func Default() Config {
	return Config{
		Redis: RedisConfig{
			Enabled:  false,
			Addr:     "localhost:6379",
			PoolSize: 10,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "kingmem.db",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		Resolver: ResolverConfig{
			PlanTimeout:    3 * time.Second,
			TierTimeout:    5 * time.Second,
			ResolveTimeout: 15 * time.Second,
		},
		Decay: DecayConfig{
			HalfLifeDays:  30,
			WorkingTTL:    24 * time.Hour,
			MinRetention:  0.01,
			MinImportance: 0.1,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "kingmem",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Load 加载配置。path 为空时跳过文件读取。
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv 应用环境变量覆盖
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvPrefix + "_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv(EnvPrefix + "_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv(EnvPrefix + "_DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(EnvPrefix + "_DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(EnvPrefix + "_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Decay.HalfLifeDays <= 0 {
		return fmt.Errorf("decay half_life_days must be positive")
	}
	if c.Decay.WorkingTTL <= 0 {
		return fmt.Errorf("decay working_ttl must be positive")
	}
	if c.Decay.MinImportance < 0 || c.Decay.MinImportance > 1 {
		return fmt.Errorf("decay min_importance must be within [0,1]")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", c.Log.Level)
	}
	return nil
}

// BuildLogger 按日志配置构建 zap logger
func (c LogConfig) BuildLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	if c.Encoding == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level
	return zapCfg.Build()
}
