package model

import (
	"fmt"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin            Role = "Admin"
	RolePoliceOfficer    Role = "Police Officer"
	RoleStationAuthority Role = "Station Authority"
	RoleCourtAuthority   Role = "Court Authority"
	RoleJudge            Role = "Judge"
)

var allRoles = []Role{RoleAdmin, RolePoliceOfficer, RoleStationAuthority, RoleCourtAuthority, RoleJudge}

// ParseRole accepts only the closed set of roles seeded in the roles table.
func ParseRole(value string) (Role, error) {
	for _, r := range allRoles {
		if string(r) == value {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", value)
}

type Capability string

const (
	CapRecordEmission    Capability = "emission:record"
	CapIssueChallan      Capability = "challan:issue"
	CapUpdateChallan     Capability = "challan:update"
	CapFileFir           Capability = "fir:file"
	CapUpdateFir         Capability = "fir:update"
	CapCreateCase        Capability = "case:create"
	CapScheduleHearing   Capability = "case:schedule"
	CapAddStatement      Capability = "case:statement"
	CapRecordVerdict     Capability = "case:verdict"
	CapManageUsers       Capability = "admin:users"
	CapManageReference   Capability = "admin:reference"
	CapReadCaseMaterials Capability = "case:read"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapManageUsers, CapManageReference, CapReadCaseMaterials,
	},
	RolePoliceOfficer: {
		CapRecordEmission, CapIssueChallan, CapUpdateChallan, CapReadCaseMaterials,
	},
	RoleStationAuthority: {
		CapFileFir, CapUpdateFir, CapUpdateChallan, CapReadCaseMaterials,
	},
	RoleCourtAuthority: {
		CapCreateCase, CapScheduleHearing, CapAddStatement, CapReadCaseMaterials,
	},
	RoleJudge: {
		CapScheduleHearing, CapAddStatement, CapRecordVerdict, CapReadCaseMaterials,
	},
}

// Principal is the authenticated caller, built once per request by the auth middleware.
type Principal struct {
	UserID    uuid.UUID
	Role      Role
	StationID *uuid.UUID
	CourtID   *uuid.UUID
}

func (p Principal) Can(capability Capability) bool {
	for _, c := range roleCapabilities[p.Role] {
		if c == capability {
			return true
		}
	}
	return false
}

func (p Principal) IsJudge() bool {
	return p.Role == RoleJudge
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
