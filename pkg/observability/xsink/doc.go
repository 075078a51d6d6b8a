// Package xsink 提供结构化日志的文件输出阶段。
//
// 一条记录由已格式化的消息和一组属性组成。FileSink 用属性渲染路径模板
// 得到目标文件名，按文件名惰性创建 Handler，由 Handler 依次完成写入、
// 按策略刷盘和按需轮转。
//
// # 路径模板
//
// 路径中的 {name} 占位符替换为同名属性的字符串值；找不到属性时保留
// 占位符原文（含花括号），渲染从不失败：
//
//	/var/log/{service}/{host}.log
//
// 不同属性可以落到同一个文件，也可以扇出到多个文件。每个文件名对应
// 唯一的 Handler，Handler 创建后在 FileSink 生命周期内不会被回收，
// 文件描述符随之累积；扇出规模较大时可用 xfile.RaiseFileLimit 提高上限。
//
// # 轮转
//
// 轮转策略由配置中的 rotation 对象决定（见 Resolve 与 Extract）：
//
//	path: /var/log/app/{host}.log
//	autoflush: true
//	rotation:
//	  size: 104857600
//	  backups: 7
//	  pattern: "{filename}.{index}"
//
// rotation 中依次检查 move、size、period 三个键，选中第一个出现的变体；
// 缺少 rotation 时不轮转。轮转判断在写入之后进行，越过阈值的那条记录
// 仍写入当前文件。
//
// # 并发
//
// FileSink 与 Handler 都不做内部同步。多个 goroutine 共享时使用
// Synchronized 包装，或由调用方保证串行。写入和刷盘是同步 I/O，
// 这一层没有取消和超时。
//
// # 错误
//
// 配置错误在 New/Build 阶段返回，此时尚未打开任何文件。写入、刷盘、
// 轮转中的 I/O 错误原样返回给 Consume 的调用方，由上层决定丢弃、
// 重试还是终止；轮转失败后下一次写入会尝试在原路径重新打开文件。
package xsink
