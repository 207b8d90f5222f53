/*
Package payload 将归一化的生成请求编译为各厂商期望的线格式。

不同厂商的契约彼此不兼容：音频开关的字段名各异（audio / generateAudio /
sound），帧图像存在两种互斥的线形态（顶层扁平列表 vs 嵌套在厂商设置
分组之下），部分模型从输入帧推导输出尺寸因而完全不接受宽高。本包用
一张厂商标签到策略记录的查找表一次性解析这些差异，替代散落各处的
字符串比较分支。

音频默认关闭：独立的配音/音效流水线会另行生成音轨，即使模型具备音频
能力，也只有调用方显式请求时才开启厂商的音频开关。
*/
package payload
