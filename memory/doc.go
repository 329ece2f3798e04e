// Copyright (c) KING Authors.
// Licensed under the MIT License.

/*
Package memory 实现 kingmem 的多层记忆解析核心。

# 概述

给定用户/智能体的一次请求，本包跨五个记忆层级（working、episodic、
semantic、lineage、collective）检索最相关的历史上下文，按有效重要性
排序后返回。遍历顺序固定为 [types.ResolutionOrder]，外部提供的检索
计划只能裁剪层级，不能改变顺序或越权访问他人数据。

# 核心类型

  - [DecayEngine]：时间衰减引擎。WORKING 层 TTL 悬崖过期，EPISODIC 层
    遵循艾宾浩斯遗忘曲线 e^(-age/half_life)，其余层级不衰减
  - [SeedStore]：静态种子记忆（collective 系统身份 + lineage 智能体
    专长），进程生命周期内只读缓存
  - [Planner]：外部策展器端口，单次调用 + 超时 + 确定性回退计划
  - [Resolver]：根编排器，净化计划、并发取数、应用衰减、组装结果；
    单层失败仅记日志并跳过，绝不中断整次解析
  - [Promoter]：情节记忆晋升服务，≥3 条近重复时合并为一条语义记忆
  - [Store]：持久记忆存储端口（文本/向量检索由外部实现）

# 失效语义

所有运行期故障一律降级为"更少的上下文"：策展器失败使用回退计划，
实体解析失败退回原始句柄，单层取数失败计为零条记忆。只有构造期
契约违规（重要性越界等）立即报错。
*/
package memory
