// Copyright (c) KING Authors.
// Licensed under the MIT License.

/*
Package types 提供 kingmem 记忆子系统的全局共享类型定义。

# 概述

types 是子系统最底层的公共包，不依赖任何内部包，为 memory、entity、
config 等上层模块提供统一的类型契约。所有跨包共享的结构体、枚举和
错误码均定义于此，以避免循环依赖。

# 核心类型

  - Tier / TierConfig      — 五层记忆层级及其静态配置（衰减、默认重要性、作用域）
  - ResolutionOrder        — 固定的层级遍历顺序（working → collective）
  - Memory                 — 单条记忆，构造时校验重要性与时间戳
  - SearchPlan             — 外部策展器产出的检索计划（进入解析器前须净化）
  - MemorySearchResult     — 按层级分组的检索结果，含 Flat / TopK 视图
  - Entity / EntityType    — 规范化实体及其别名集合
  - Error / ErrorCode      — 结构化错误体系，含 Retryable 与 Cause 链

# 主要能力

  - ParseTier 解析外部层级名称，未知名称由调用方按告警丢弃
  - NewMemory 快速失败：重要性越界或时间戳异常立即返回 INVALID_MEMORY
  - 错误工具链：WrapError / IsErrorCode / GetErrorCode
*/
package types
