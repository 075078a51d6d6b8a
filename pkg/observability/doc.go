// Package observability 提供日志落盘相关的子包。
//
// 子包列表：
//   - xsink: 按路径模板分发记录的文件输出，支持 slog 接入和 koanf 配置加载
//   - xrotate: 日志文件轮转（外部移动、按大小、按周期）
//
// 指标通过 OpenTelemetry metric API 上报，未配置 MeterProvider 时为空操作。
package observability
