// Package batch 提供生成请求的批调度。
//
// 默认严格串行处理——任意时刻至多一个生成在途——并在相邻的
// 网络条目之间插入固定间隔，以尊重厂商限流。可重试错误按
// 指数退避策略补投，预检失败的条目不消耗任何网络调用。
// Config.Concurrency > 1 时切换为有界工作池变体，报告契约不变。
package batch
