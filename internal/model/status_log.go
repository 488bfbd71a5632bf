package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChangeEntityType string

const (
	ChangeEntityAccused ChangeEntityType = "ACCUSED"
	ChangeEntityVehicle ChangeEntityType = "VEHICLE"
)

// FieldChange is one overwritten column of an in-place update.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// EntityChangeLog is append-only. It records the prior values whenever entity resolution
// overwrites contact data on an existing accused or vehicle row.
type EntityChangeLog struct {
	ID         uuid.UUID                         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	EntityType ChangeEntityType                  `gorm:"type:varchar(16);not null" json:"entity_type"`
	EntityID   uuid.UUID                         `gorm:"type:uuid;not null" json:"entity_id"`
	Changes    datatypes.JSONType[[]FieldChange] `gorm:"type:jsonb;not null" json:"changes"`
	ChangedBy  *uuid.UUID                        `gorm:"type:uuid" json:"changed_by"`
	CreatedAt  time.Time                         `gorm:"autoCreateTime" json:"created_at"`
}

func (EntityChangeLog) TableName() string {
	return "entity_change_logs"
}

func (l *EntityChangeLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
