// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 文件后端（追加写、重命名、重新打开）、路径校验、目录创建、文件身份、描述符上限
//
// 设计原则：
//   - 安全处理路径遍历
//   - 平台相关实现按构建标签拆分
package util
