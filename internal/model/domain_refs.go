package model

import (
	"time"

	"github.com/google/uuid"
)

type RoleRecord struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name Role      `gorm:"type:varchar(32);not null" json:"name"`
}

func (RoleRecord) TableName() string {
	return "roles"
}

type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username     string      `gorm:"type:varchar(64);not null" json:"username"`
	PasswordHash string      `gorm:"type:text;not null" json:"-"`
	FullName     string      `gorm:"type:varchar(255)" json:"full_name"`
	Email        string      `gorm:"type:varchar(255)" json:"email"`
	RoleID       uuid.UUID   `gorm:"type:uuid;not null" json:"role_id"`
	StationID    *uuid.UUID  `gorm:"type:uuid" json:"station_id"`
	CourtID      *uuid.UUID  `gorm:"type:uuid" json:"court_id"`
	IsActive     bool        `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	Role         *RoleRecord `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// RoleName is empty when the role association was not loaded.
func (u User) RoleName() Role {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

type PoliceStation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	StationCode string    `gorm:"type:varchar(32);not null" json:"station_code"`
	District    string    `gorm:"type:varchar(128)" json:"district"`
	City        string    `gorm:"type:varchar(128)" json:"city"`
	Province    string    `gorm:"type:varchar(128)" json:"province"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PoliceStation) TableName() string {
	return "police_stations"
}

type Court struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CourtType string    `gorm:"type:varchar(64);not null" json:"court_type"`
	City      string    `gorm:"type:varchar(128);not null" json:"city"`
	Province  string    `gorm:"type:varchar(128)" json:"province"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Court) TableName() string {
	return "courts"
}

type IotDevice struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	DeviceCode   string     `gorm:"type:varchar(64);not null" json:"device_code"`
	StationID    *uuid.UUID `gorm:"type:uuid" json:"station_id"`
	IsRegistered bool       `gorm:"not null;default:true" json:"is_registered"`
	IsCalibrated bool       `gorm:"not null;default:false" json:"is_calibrated"`
	CalibratedAt *time.Time `json:"calibrated_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (IotDevice) TableName() string {
	return "iot_devices"
}

// Accused is keyed by CNIC. Contact and address are overwritten in place on re-resolution.
type Accused struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CNIC      string    `gorm:"column:cnic;type:varchar(15);not null" json:"cnic"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	City      string    `gorm:"type:varchar(128)" json:"city"`
	Province  string    `gorm:"type:varchar(128)" json:"province"`
	Address   string    `gorm:"type:text" json:"address"`
	Contact   string    `gorm:"type:varchar(32)" json:"contact"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Accused) TableName() string {
	return "accused"
}

// Vehicle is keyed by the normalised plate number.
type Vehicle struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	PlateNumber      string     `gorm:"type:varchar(32);not null" json:"plate_number"`
	Make             string     `gorm:"type:varchar(64)" json:"make"`
	Model            string     `gorm:"type:varchar(64)" json:"model"`
	Color            string     `gorm:"type:varchar(32)" json:"color"`
	VehicleType      string     `gorm:"type:varchar(32)" json:"vehicle_type"`
	RegistrationYear *int       `json:"registration_year"`
	OwnerID          *uuid.UUID `gorm:"type:uuid" json:"owner_id"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
