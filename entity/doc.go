// Copyright (c) KING Authors.
// Licensed under the MIT License.

/*
Package entity 将自由文本句柄规范化为稳定的实体记录。

# 解析流程

 1. 去除首尾空白
 2. 按规范名精确查找
 3. 按别名包含查找
 4. 乐观插入（类型 Unresolved）
 5. 插入冲突时重查一次；仍未命中则返回未持久化的合成实体

并发创建同名实体的竞争通过"冲突后重查"收敛：两个并发调用最终
返回同一条记录，绝不产生两个同名实体，也绝不让调用方崩溃。

# 存储

[Store] 为实体存储端口；[GormStore] 是基于 GORM 的默认实现，
支持 sqlite 与 postgres，别名以 JSON 文本存储。
*/
package entity
