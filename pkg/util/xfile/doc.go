// Package xfile 提供日志文件后端：以追加模式打开的单个物理文件。
//
// # 后端契约
//
// [Backend] 是文件输出层消费的最小能力集合：
//
//   - Write: 追加写入（不增删分隔符）
//   - Flush: 持久化刷盘（fsync）
//   - Size: 当前文件字节数
//   - Rename / Remove: 轮转时移走或丢弃当前文件，句柄随之关闭
//   - Identity: 路径当前指向文件的身份标识（用于检测外部移动）
//   - Reopen: 在原路径重新打开（不存在则创建）
//
// [OpenAppend] 返回基于 os.File 的默认实现。句柄被 Rename/Remove 关闭后，
// 下一次 Write 会先尝试 Reopen，轮转失败不会让后端永久不可用。
//
// # 路径安全
//
// [SanitizePath] 拒绝空路径、空字节、目录路径和相对路径穿越（".." 路径段），
// 并返回 filepath.Clean 后的路径。文件名由日志属性渲染而来时尤其需要这一步。
//
// # 文件身份
//
// [FileID] 在 Unix 上是 (st_dev, st_ino)，Windows 上退化为文件创建时间，
// 其他平台返回 [ErrUnsupportedPlatform]。
//
// # 并发
//
// 后端不做内部同步，由持有它的 Handler 独占使用。
package xfile
