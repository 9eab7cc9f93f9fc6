package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the account a passport belongs to. The passport store only relies on ID.
type User struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email     string    // The user's primary contact email.
	Name      string    // The user's display name or real name.
	CreatedAt time.Time // Timestamp of when this user account was created.
	UpdatedAt time.Time // Timestamp of the last modification to this user's data.
}
