package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 记忆解析指标收集器
// =============================================================================

// Collector 记忆解析指标收集器
type Collector struct {
	// 解析指标
	resolutionsTotal   prometheus.Counter
	resolutionDuration prometheus.Histogram
	memoriesResolved   *prometheus.CounterVec

	// 降级指标
	tierFailures  *prometheus.CounterVec
	planFallbacks prometheus.Counter

	// 种子缓存指标
	seedCacheHits   *prometheus.CounterVec
	entityFallbacks prometheus.Counter

	logger *zap.Logger
}

// NewCollector 创建指标收集器。reg 为 nil 时使用默认注册表。
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.resolutionsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "memory_resolutions_total",
		Help:      "Total number of memory resolution calls",
	})

	c.resolutionDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "memory_resolution_duration_seconds",
		Help:      "Memory resolution duration in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	c.memoriesResolved = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "memories_resolved_total",
		Help:      "Total number of memories returned, by tier",
	}, []string{"tier"})

	c.tierFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "memory_tier_failures_total",
		Help:      "Total number of tier source failures, by tier",
	}, []string{"tier"})

	c.planFallbacks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "memory_plan_fallbacks_total",
		Help:      "Total number of curator failures degraded to the fallback plan",
	})

	c.seedCacheHits = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "memory_seed_cache_hits_total",
		Help:      "Total number of seed cache reads, by tier",
	}, []string{"tier"})

	c.entityFallbacks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_resolution_fallbacks_total",
		Help:      "Total number of entity resolutions degraded to identity mapping",
	})

	return c
}

// =============================================================================
// 🎯 记录方法
// =============================================================================

// ObserveResolution 记录一次完整解析
func (c *Collector) ObserveResolution(duration time.Duration) {
	if c == nil {
		return
	}
	c.resolutionsTotal.Inc()
	c.resolutionDuration.Observe(duration.Seconds())
}

// RecordTierResult 记录某层返回的记忆条数
func (c *Collector) RecordTierResult(tier string, count int) {
	if c == nil {
		return
	}
	c.memoriesResolved.WithLabelValues(tier).Add(float64(count))
}

// RecordTierFailure 记录某层取数失败
func (c *Collector) RecordTierFailure(tier string) {
	if c == nil {
		return
	}
	c.tierFailures.WithLabelValues(tier).Inc()
}

// RecordPlanFallback 记录一次策展器降级
func (c *Collector) RecordPlanFallback() {
	if c == nil {
		return
	}
	c.planFallbacks.Inc()
}

// RecordSeedCacheHit 记录种子缓存读取
func (c *Collector) RecordSeedCacheHit(tier string) {
	if c == nil {
		return
	}
	c.seedCacheHits.WithLabelValues(tier).Inc()
}

// RecordEntityFallback 记录一次实体解析降级
func (c *Collector) RecordEntityFallback() {
	if c == nil {
		return
	}
	c.entityFallbacks.Inc()
}
