/*
Package capability 维护视频生成模型的能力注册表。

# 概述

注册表在进程启动时一次性加载并做完整性校验，此后只读，无需加锁即可被
并发调用方使用。每个模型的能力条目描述其支持的时长集合、画幅比、分辨率、
首尾帧图像支持、音频支持、线格式方言（standard / wrapped）以及从
(画幅比, 分辨率) 到像素尺寸的映射表。

# 核心能力

  - Registry — 只读注册表：Lookup() / List() / Default()。
  - ResolveDimensions — 尺寸解析，优先级严格为：模型专属表 > 通用表 > 兜底常量。
  - ValidateRequest — 预检请求参数，错误信息点名第一个不合法字段及其合法值。
  - ClampDuration — 将请求时长夹取到模型支持的最近值，平局取声明列表中靠前者。

# 加载期不变式

  - 每个模型的 AIR 标识（ProviderModelID）非空。
  - 每个模型的时长集合非空。
  - 模型声明的每个 (画幅比, 分辨率) 组合必须能经模型表或通用表解析出
    正尺寸（不允许依赖兜底常量）。
  - 恰好一个模型带默认标记。

违反任一不变式时 NewRegistry 返回 CONFIGURATION 错误，进程应当启动失败。
*/
package capability
