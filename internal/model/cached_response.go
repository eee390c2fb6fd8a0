package model

import (
	"github.com/haierkeys/fast-note-offline-client/pkg/timex"
)

const TableNameCachedResponse = "cached_response"

// CachedResponse mapped from table <cached_response>
type CachedResponse struct {
	QueryHash string     `gorm:"column:query_hash;primaryKey" json:"queryHash" form:"queryHash"`
	Payload   string     `gorm:"column:payload" json:"payload" form:"payload"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	ExpiresAt timex.Time `gorm:"column:expires_at;type:datetime;default:NULL;index:idx_cached_response_expires_at" json:"expiresAt" form:"expiresAt"`
}

// TableName CachedResponse's table name
func (*CachedResponse) TableName() string {
	return TableNameCachedResponse
}
