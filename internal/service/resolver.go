package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"noise-sentinel/internal/model"
	"noise-sentinel/internal/repository"
)

type AccusedInput struct {
	CNIC     string
	FullName string
	City     string
	Province string
	Address  string
	Contact  string
	Email    string
}

type VehicleInput struct {
	PlateNumber      string
	Make             string
	Model            string
	Color            string
	VehicleType      string
	RegistrationYear *int
}

// EntityResolver is get-or-create over accused (by CNIC) and vehicles (by plate).
// It must run inside the caller's transaction so that a later failure discards anything
// it created or overwrote.
type EntityResolver struct {
	accused  AccusedStore
	vehicles VehicleStore
	changes  ChangeLogStore
}

func NewEntityResolver(accused AccusedStore, vehicles VehicleStore, changes ChangeLogStore) *EntityResolver {
	return &EntityResolver{accused: accused, vehicles: vehicles, changes: changes}
}

// NormalizeCNIC accepts 13 digits with or without the usual dashes and spaces and
// returns the #####-#######-# form.
func NormalizeCNIC(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
		default:
			return "", newError(ErrInvalidInput, "cnic %q contains invalid characters", raw)
		}
	}
	d := digits.String()
	if len(d) != 13 {
		return "", newError(ErrInvalidInput, "cnic %q must contain 13 digits", raw)
	}
	return d[:5] + "-" + d[5:12] + "-" + d[12:], nil
}

// NormalizePlate trims and uppercases the plate and joins inner whitespace runs with "-".
func NormalizePlate(raw string) (string, error) {
	fields := strings.Fields(strings.ToUpper(raw))
	if len(fields) == 0 {
		return "", newError(ErrInvalidInput, "plate number is required")
	}
	return strings.Join(fields, "-"), nil
}

// ResolveAccused returns the accused with the input's CNIC, creating it when absent.
// Non-empty contact or address values overwrite the stored ones and the previous values
// are appended to the change log.
func (r *EntityResolver) ResolveAccused(ctx context.Context, in AccusedInput, actor *uuid.UUID) (*model.Accused, error) {
	cnic, err := NormalizeCNIC(in.CNIC)
	if err != nil {
		return nil, err
	}

	existing, err := r.accused.GetByCNIC(ctx, cnic)
	switch {
	case err == nil:
		return r.refreshContact(ctx, existing, in, actor)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, newError(ErrInvalidInput, "full name is required for a new accused")
	}
	accused := &model.Accused{
		CNIC:     cnic,
		FullName: fullName,
		City:     strings.TrimSpace(in.City),
		Province: strings.TrimSpace(in.Province),
		Address:  strings.TrimSpace(in.Address),
		Contact:  strings.TrimSpace(in.Contact),
		Email:    strings.TrimSpace(in.Email),
	}
	if err := r.accused.Create(ctx, accused); err != nil {
		if errors.Is(err, repository.ErrNaturalKeyTaken) {
			return nil, newError(ErrConflict, "accused %s was created concurrently, retry the request", cnic)
		}
		return nil, err
	}
	return accused, nil
}

func (r *EntityResolver) refreshContact(ctx context.Context, accused *model.Accused, in AccusedInput, actor *uuid.UUID) (*model.Accused, error) {
	contact := accused.Contact
	address := accused.Address
	var changes []model.FieldChange

	if v := strings.TrimSpace(in.Contact); v != "" && v != contact {
		changes = append(changes, model.FieldChange{Field: "contact", Old: contact, New: v})
		contact = v
	}
	if v := strings.TrimSpace(in.Address); v != "" && v != address {
		changes = append(changes, model.FieldChange{Field: "address", Old: address, New: v})
		address = v
	}
	if len(changes) == 0 {
		return accused, nil
	}

	if err := r.accused.UpdateContact(ctx, accused.ID, contact, address); err != nil {
		return nil, err
	}
	if err := r.appendChanges(ctx, model.ChangeEntityAccused, accused.ID, changes, actor); err != nil {
		return nil, err
	}
	accused.Contact = contact
	accused.Address = address
	return accused, nil
}

// ResolveVehicle returns the vehicle with the input's plate, creating it when absent.
// An existing vehicle without an owner takes ownerID.
func (r *EntityResolver) ResolveVehicle(ctx context.Context, in VehicleInput, ownerID *uuid.UUID, actor *uuid.UUID) (*model.Vehicle, error) {
	plate, err := NormalizePlate(in.PlateNumber)
	if err != nil {
		return nil, err
	}

	existing, err := r.vehicles.GetByPlate(ctx, plate)
	switch {
	case err == nil:
		if existing.OwnerID != nil || ownerID == nil {
			return existing, nil
		}
		updated, err := r.vehicles.SetOwner(ctx, existing.ID, *ownerID)
		if err != nil {
			return nil, err
		}
		if updated {
			change := model.FieldChange{Field: "owner_id", Old: "", New: ownerID.String()}
			if err := r.appendChanges(ctx, model.ChangeEntityVehicle, existing.ID, []model.FieldChange{change}, actor); err != nil {
				return nil, err
			}
			existing.OwnerID = ownerID
		}
		return existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	vehicle := &model.Vehicle{
		PlateNumber:      plate,
		Make:             strings.TrimSpace(in.Make),
		Model:            strings.TrimSpace(in.Model),
		Color:            strings.TrimSpace(in.Color),
		VehicleType:      strings.TrimSpace(in.VehicleType),
		RegistrationYear: in.RegistrationYear,
		OwnerID:          ownerID,
	}
	if err := r.vehicles.Create(ctx, vehicle); err != nil {
		if errors.Is(err, repository.ErrNaturalKeyTaken) {
			return nil, newError(ErrConflict, "vehicle %s was created concurrently, retry the request", plate)
		}
		return nil, err
	}
	return vehicle, nil
}

func (r *EntityResolver) appendChanges(ctx context.Context, entity model.ChangeEntityType, id uuid.UUID, changes []model.FieldChange, actor *uuid.UUID) error {
	return r.changes.Append(ctx, &model.EntityChangeLog{
		EntityType: entity,
		EntityID:   id,
		Changes:    datatypes.NewJSONType(changes),
		ChangedBy:  actor,
	})
}
