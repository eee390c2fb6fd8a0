package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldUID 用户 ID 字段
	FieldUID = "uid"

	// FieldNoteID 笔记 ID 字段
	FieldNoteID = "noteId"

	// FieldLabelID 标签 ID 字段
	FieldLabelID = "labelId"

	// FieldTable 目标表名字段
	FieldTable = "table"

	// FieldRecordID 目标记录 ID 字段
	FieldRecordID = "recordId"

	// FieldOperation 队列操作类型字段
	FieldOperation = "operation"

	// FieldEntryID 队列条目 ID 字段
	FieldEntryID = "entryId"

	// FieldRetries 重试计数字段
	FieldRetries = "retries"

	// FieldTrigger 同步触发来源字段
	FieldTrigger = "trigger"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldError 错误信息字段
	FieldError = "error"
)
