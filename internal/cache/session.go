package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yaazhan/kingmem/types"
)

// =============================================================================
// 💾 工作记忆会话存储
// =============================================================================

// SessionStore 基于 Redis 的工作记忆存储。
// 每个会话一个列表，键带 TTL，与工作记忆的悬崖过期语义对齐：
// 过期由 Redis 兜底删除，未过期条目仍由衰减引擎按 TTL 判零。
type SessionStore struct {
	redis  *redis.Client
	config Config
	logger *zap.Logger
}

// Config 会话存储配置
type Config struct {
	// Redis 地址
	Addr string `yaml:"addr" json:"addr"`

	// 密码
	Password string `yaml:"password" json:"password"`

	// 数据库编号
	DB int `yaml:"db" json:"db"`

	// 连接池大小
	PoolSize int `yaml:"pool_size" json:"pool_size"`

	// 会话键过期时间
	SessionTTL time.Duration `yaml:"session_ttl" json:"session_ttl"`
}

// DefaultConfig 返回默认会话存储配置
func DefaultConfig() Config {
	return Config{
		Addr:       "localhost:6379",
		DB:         0,
		PoolSize:   10,
		SessionTTL: 24 * time.Hour,
	}
}

// NewSessionStore 创建会话存储并验证连接
func NewSessionStore(config Config, logger *zap.Logger) (*SessionStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	s := &SessionStore{
		redis:  client,
		config: config,
		logger: logger.With(zap.String("component", "session_store")),
	}

	logger.Info("session store initialized",
		zap.String("addr", config.Addr),
		zap.Duration("session_ttl", config.SessionTTL))

	return s, nil
}

func sessionKey(sessionID string) string {
	return "working:" + sessionID
}

// =============================================================================
// 🎯 核心方法
// =============================================================================

// Append 向会话追加一条工作记忆并刷新键的 TTL
func (s *SessionStore) Append(ctx context.Context, sessionID string, m types.Memory) error {
	if sessionID == "" {
		return fmt.Errorf("session id is empty")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}

	key := sessionKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.config.SessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("working memory append failed",
			zap.String("session_id", sessionID), zap.Error(err))
		return fmt.Errorf("working memory append failed: %w", err)
	}
	return nil
}

// LoadWorking 读取会话最近的 limit 条工作记忆。
// 反序列化失败的条目记日志后跳过，不中断整次读取。
func (s *SessionStore) LoadWorking(ctx context.Context, sessionID string, limit int) ([]types.Memory, error) {
	if sessionID == "" {
		return nil, nil
	}

	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	raw, err := s.redis.LRange(ctx, sessionKey(sessionID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("working memory load failed: %w", err)
	}

	memories := make([]types.Memory, 0, len(raw))
	for _, item := range raw {
		var m types.Memory
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			s.logger.Warn("skipping malformed working memory entry",
				zap.String("session_id", sessionID), zap.Error(err))
			continue
		}
		memories = append(memories, m)
	}
	return memories, nil
}

// Clear 删除整个会话的工作记忆
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("working memory clear failed: %w", err)
	}
	return nil
}

// Ping 检查 Redis 连接
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// Close 关闭底层连接
func (s *SessionStore) Close() error {
	s.logger.Info("closing session store")
	return s.redis.Close()
}
