package auth

import (
	"github.com/google/uuid"

	"github.com/busline-io/busline-backend/pkg/enums"
)

// Actor is the verified caller identity flowing through services. A zero
// UserID means the request carried no token; booking tolerates that, cancel
// and listing do not.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

func (a Actor) Anonymous() bool {
	return a.UserID == uuid.Nil
}

func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}
