package models

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID            uuid.UUID `json:"id" db:"id"`
	POID          uuid.UUID `json:"po_id" db:"po_id"`
	Name          string    `json:"name" db:"name"`
	DateOfJoining *string   `json:"date_of_joining" db:"date_of_joining"`
	Location      *string   `json:"location" db:"location"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
