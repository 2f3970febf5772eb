package services

import "github.com/hyeonsu-lee/goboard/models"

// CanModify is the ownership predicate gating every mutation of an
// owned resource: the author may modify their own record, and an admin
// may modify anything. A nil actor can never modify.
//
// Callers must resolve existence of the target before consulting this
// predicate; a lookup miss is a not-found, never a forbidden.
func CanModify(actor *models.User, ownerID uint) bool {
	if actor == nil {
		return false
	}
	return actor.ID == ownerID || actor.Role == models.RoleAdmin
}
