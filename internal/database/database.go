package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// =============================================================================
// 🗄️ 数据库连接管理
// =============================================================================

// Config 数据库配置
type Config struct {
	// 驱动: sqlite 或 postgres
	Driver string `yaml:"driver" json:"driver"`

	// 连接串。sqlite 为文件路径（:memory: 可用于测试），postgres 为 DSN
	DSN string `yaml:"dsn" json:"dsn"`

	// 最大空闲连接数
	MaxIdleConns int `yaml:"max_idle_conns" json:"max_idle_conns"`

	// 最大打开连接数
	MaxOpenConns int `yaml:"max_open_conns" json:"max_open_conns"`

	// 连接最大生命周期
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
}

// DefaultConfig 返回默认数据库配置
func DefaultConfig() Config {
	return Config{
		Driver:          "sqlite",
		DSN:             "kingmem.db",
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
	}
}

// Open 按配置打开 gorm 连接并设置连接池
func Open(config Config, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch config.Driver {
	case "sqlite", "":
		dialector = sqlite.Open(config.DSN)
	case "postgres":
		dialector = postgres.Open(config.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	logger.Info("database opened",
		zap.String("driver", config.Driver),
		zap.Int("max_open_conns", config.MaxOpenConns))

	return db, nil
}
