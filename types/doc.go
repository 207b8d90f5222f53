// Copyright (c) VideoFlow Authors.
// Licensed under the MIT License.

/*
Package types 提供 VideoFlow 的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 capability、payload、client、
batch 等上层模块提供统一的类型契约。跨包共享的请求/结果结构体、状态枚举
和错误码均定义于此，以避免循环依赖。

# 核心类型

  - GenerationRequest  — 单次视频生成请求（模型、提示词、时长、画幅、帧图像）
  - GenerationResult   — 生成任务的终态结果（状态、输出 URL、成本、错误信息）
  - GenerationStatus   — 任务生命周期状态机（submitted → polling → 终态）
  - BatchReport        — 批量任务的有序结果与成功/失败/成本聚合
  - Error / ErrorCode  — 结构化错误体系，含 Retryable 与 Provider 标记

# 错误分类

  - CONFIGURATION — 未知模型或能力表损坏，永不重试
  - VALIDATION    — 请求参数不在模型声明集合内，永不重试
  - PROVIDER      — 远端调用失败或返回应用级错误，可重试
  - TIMEOUT       — 轮询超时，作为 PROVIDER 的可重试子类
*/
package types
