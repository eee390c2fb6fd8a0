package code

// 通用状态码
var (
	Success     = NewError(0, "success")
	ServerError = NewError(10000, "internal error")
)

// 数据层状态码
var (
	// ErrorValidation 输入不合法或超出限制，持久化前被拒绝
	ErrorValidation = NewError(10001, "validation failed")
	// ErrorNotFound 操作的记录不存在
	ErrorNotFound = NewError(10002, "record not found")
	// ErrorStoreCorrupted 本地存储打开或初始化失败，不可恢复
	ErrorStoreCorrupted = NewError(10003, "local store corrupted")
)

// 同步状态码
var (
	// ErrorRemoteUnavailable 在线路径上的远端调用失败
	ErrorRemoteUnavailable = NewError(10101, "remote store unavailable")
	// ErrorQueueExhausted 队列条目重试次数耗尽后被丢弃
	ErrorQueueExhausted = NewError(10102, "sync queue entry exhausted")
	// ErrorSyncRunning 已有同步周期在执行
	ErrorSyncRunning = NewError(10103, "sync cycle already running")
)

// 导入导出状态码
var (
	// ErrorSnapshotVersion 快照文档版本不支持
	ErrorSnapshotVersion = NewError(10201, "unsupported snapshot version")
	// ErrorSnapshotMalformed 快照文档解析失败
	ErrorSnapshotMalformed = NewError(10202, "malformed snapshot document")
)

// 认证状态码
var (
	// ErrorAuthToken 认证令牌缺失或不可解析
	ErrorAuthToken = NewError(10301, "auth token invalid")
)
