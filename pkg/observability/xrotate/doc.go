// Package xrotate 提供日志文件轮转策略。
//
// [Rotator] 在每条记录写入之后被询问一次 Necessary，返回 true 时执行 Rotate。
// 判断基于刚写完的状态，因此一条记录可能落入已经超限的文件，轮转最多滞后一条记录。
//
// # 轮转变体
//
// 变体是一个封闭集合，由 [Kind] 标识，构造时确定后在 Handler 生命周期内不变：
//
//   - [KindNull]: 从不轮转
//   - [KindMove]: 文件被外部移走或替换（身份变化）时在原路径重新打开，不做重命名和备份
//   - [KindSize]: 文件大小 >= 阈值时轮转
//   - [KindPeriod]: 跨越时间周期边界（每小时、每天、cron 表达式）时轮转
//
// # 备份集合
//
// Size 和 Period 轮转时按 Pattern 生成备份文件名（占位符 {filename}、{index}）：
// 删除第 N 个备份，i → i+1 依次后移，当前文件改名为第 1 个，然后在原路径重新打开。
// Backups 为 0 时直接丢弃当前文件。
//
//	app.log   → app.log.1
//	app.log.1 → app.log.2
//	app.log.N → (删除)
//
// # 周期
//
// Period 接受 minutely、hourly、daily、weekly、monthly、yearly，
// 以及 robfig/cron 的标准表达式（"0 */6 * * *"、"@every 30m"、"CRON_TZ=UTC @daily"）。
//
// # 并发
//
// 轮转器不做内部同步，与其所属 Handler 共享同一个调用序列。
package xrotate
