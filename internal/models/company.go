package models

import (
	"time"

	"github.com/google/uuid"
)

// Company client types, matching billing jurisdictions.
const (
	ClientTypeSameState  = "same_state"
	ClientTypeOtherState = "other_state"
	ClientTypeForeign    = "foreign"
)

type Company struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	ClientType string    `json:"client_type" db:"client_type"`
	BuildingNo *string   `json:"building_no" db:"building_no"`
	City       *string   `json:"city" db:"city"`
	State      *string   `json:"state" db:"state"`
	Country    *string   `json:"country" db:"country"`
	PinCode    *string   `json:"pin_code" db:"pin_code"`
	GSTIN      *string   `json:"gstin" db:"gstin"`
	SAC        *string   `json:"sac" db:"sac"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
