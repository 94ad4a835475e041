package domain

import "time"

const EntityAccount = "account"

// AuditLog records an admin action against an entity.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   string    `gorm:"type:varchar(64);not null;index" json:"actorId"`
	Action    string    `gorm:"type:varchar(100);not null" json:"action"`
	Entity    string    `gorm:"type:varchar(100);not null;index:idx_audit_entity" json:"entity"`
	EntityID  string    `gorm:"type:varchar(64);not null;index:idx_audit_entity" json:"entityId"`
	Note      *string   `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
