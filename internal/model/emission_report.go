package model

import (
	"time"

	"github.com/google/uuid"

	"noise-sentinel/internal/integrity"
)

// EmissionReport is written once and never updated. DigitalSignature must always equal
// integrity.Generate over the other measured fields.
type EmissionReport struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	DeviceID         uuid.UUID  `gorm:"type:uuid;not null" json:"device_id"`
	CO               *float64   `gorm:"column:co;type:numeric(10,2)" json:"co"`
	CO2              *float64   `gorm:"column:co2;type:numeric(10,2)" json:"co2"`
	HC               *float64   `gorm:"column:hc;type:numeric(10,2)" json:"hc"`
	NOx              *float64   `gorm:"column:nox;type:numeric(10,2)" json:"nox"`
	SoundLevelDBa    float64    `gorm:"column:sound_level_dba;type:numeric(6,2);not null" json:"sound_level_dba"`
	TestDateTime     time.Time  `gorm:"not null" json:"test_date_time"`
	MLClassification *string    `gorm:"column:ml_classification;type:varchar(64)" json:"ml_classification"`
	DigitalSignature string     `gorm:"type:varchar(64);not null" json:"digital_signature"`
	CreatedBy        *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Device *IotDevice `gorm:"foreignKey:DeviceID" json:"device,omitempty"`
}

func (EmissionReport) TableName() string {
	return "emission_reports"
}

// Reading returns the signed fields as currently stored.
func (r EmissionReport) Reading() integrity.Reading {
	return integrity.Reading{
		DeviceID:      r.DeviceID.String(),
		CO:            r.CO,
		CO2:           r.CO2,
		HC:            r.HC,
		NOx:           r.NOx,
		SoundLevelDBa: r.SoundLevelDBa,
		TestDateTime:  r.TestDateTime,
	}
}
