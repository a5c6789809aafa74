package services

import (
	"strings"

	"github.com/google/uuid"
)

// AuthorizeMutation reports whether caller may modify a resource owned by
// owner. Both ids are compared in canonical UUID form; anything that does not
// parse is refused.
func AuthorizeMutation(ownerID, callerID string) bool {
	owner, ok := canonicalID(ownerID)
	if !ok {
		return false
	}
	caller, ok := canonicalID(callerID)
	if !ok {
		return false
	}
	return owner == caller
}

func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil || u == uuid.Nil {
		return "", false
	}
	return u.String(), true
}
