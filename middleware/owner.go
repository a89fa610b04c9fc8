package middleware

import "github.com/google/uuid"

// CanModify reports whether actorID may update or delete an entity owned by ownerID.
// Entities without a recorded owner cannot be modified by anyone.
func CanModify(actorID uuid.UUID, ownerID *uuid.UUID) bool {
	if actorID == uuid.Nil || ownerID == nil {
		return false
	}
	return *ownerID == actorID
}
