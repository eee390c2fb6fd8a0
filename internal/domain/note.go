// Package domain 定义领域模型和接口
package domain

import (
	"sort"
	"time"
)

// NoteType 笔记类型
type NoteType string

const (
	NoteTypeText    NoteType = "text"
	NoteTypeList    NoteType = "list"
	NoteTypeImage   NoteType = "image"
	NoteTypeVoice   NoteType = "voice"
	NoteTypeDrawing NoteType = "drawing"
)

// IsValid 判断笔记类型是否合法
func (t NoteType) IsValid() bool {
	switch t {
	case NoteTypeText, NoteTypeList, NoteTypeImage, NoteTypeVoice, NoteTypeDrawing:
		return true
	}
	return false
}

// NoteColor 笔记颜色，固定 12 种取值
type NoteColor string

const (
	ColorDefault NoteColor = "default"
	ColorRed     NoteColor = "red"
	ColorOrange  NoteColor = "orange"
	ColorYellow  NoteColor = "yellow"
	ColorGreen   NoteColor = "green"
	ColorTeal    NoteColor = "teal"
	ColorBlue    NoteColor = "blue"
	ColorDarkBlue NoteColor = "darkblue"
	ColorPurple  NoteColor = "purple"
	ColorPink    NoteColor = "pink"
	ColorBrown   NoteColor = "brown"
	ColorGray    NoteColor = "gray"
)

// Colors 所有合法的颜色值
var Colors = []NoteColor{
	ColorDefault, ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorTeal,
	ColorBlue, ColorDarkBlue, ColorPurple, ColorPink, ColorBrown, ColorGray,
}

// IsValid 判断颜色是否合法
func (c NoteColor) IsValid() bool {
	for _, v := range Colors {
		if c == v {
			return true
		}
	}
	return false
}

// SyncStatus 记录的同步状态
type SyncStatus string

const (
	// SyncStatusPending 本地已变更，等待与远端对账
	SyncStatusPending SyncStatus = "pending"
	// SyncStatusSynced 已与远端对账完成
	SyncStatusSynced SyncStatus = "synced"
)

// ChecklistItem 清单条目
type ChecklistItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// ChecklistPayload 清单类型笔记的载荷
type ChecklistPayload struct {
	Items []ChecklistItem `json:"items"`
}

// ImagePayload 图片类型笔记的载荷
type ImagePayload struct {
	Refs []string `json:"refs"`
}

// VoicePayload 语音类型笔记的载荷
type VoicePayload struct {
	AudioRef   string `json:"audioRef"`
	Transcript string `json:"transcript,omitempty"`
}

// DrawingPayload 手绘类型笔记的载荷
type DrawingPayload struct {
	Data string `json:"data"`
}

// NoteMetadata 按笔记类型区分的载荷联合体
// 每个类型变体一个结构字段，另保留开放扩展字段
type NoteMetadata struct {
	Checklist *ChecklistPayload `json:"checklist,omitempty"`
	Image     *ImagePayload     `json:"image,omitempty"`
	Voice     *VoicePayload     `json:"voice,omitempty"`
	Drawing   *DrawingPayload   `json:"drawing,omitempty"`
	Extra     map[string]any    `json:"extra,omitempty"`
}

// Note 笔记领域实体
type Note struct {
	ID         string
	UID        int64
	Title      string
	Content    string
	Type       NoteType
	Color      NoteColor
	Pinned     bool
	Archived   bool
	Deleted    bool
	Metadata   NoteMetadata
	SyncStatus SyncStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// NoteFilter 列表查询过滤条件
type NoteFilter struct {
	// Archived 为 nil 时不过滤归档状态
	Archived *bool
	// LabelID 非空时按标签成员过滤
	LabelID string
	// Keyword 非空时对标题和内容做子串匹配
	Keyword string
	// IncludeDeleted 是否包含回收站内的笔记
	IncludeDeleted bool
}

// SortNotes 列表排序约定：置顶在前，组内按 updated_at 倒序
// 时间相同时以 id 作为稳定次序键
func SortNotes(notes []*Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Pinned != notes[j].Pinned {
			return notes[i].Pinned
		}
		if !notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
		}
		return notes[i].ID < notes[j].ID
	})
}
