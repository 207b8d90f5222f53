// Package testutil 提供测试基础设施：能力目录夹具与传输层模拟。
// 仅供本仓库测试使用。
package testutil
