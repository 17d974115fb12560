package service

import (
	"github.com/mazraa-market/internal/authz"
	"github.com/mazraa-market/internal/constants"
	"github.com/mazraa-market/internal/logger"
	"github.com/mazraa-market/internal/models"
)

// rolesFromFlags maps the account flags to the built-in RBAC roles.
func rolesFromFlags(user *models.User) []string {
	if user == nil {
		return nil
	}
	var roles []string
	if user.IsAdmin {
		roles = append(roles, constants.RoleAdmin)
	}
	if user.IsFarmer {
		roles = append(roles, constants.RoleFarmer)
	}
	if user.IsConsumer {
		roles = append(roles, constants.RoleConsumer)
	}
	return roles
}

// syncUserRoles keeps the enforcer's role bindings aligned with the account
// flags. Failures are logged but never fail the calling operation.
func syncUserRoles(authzService *authz.Service, user *models.User) {
	if authzService == nil || user == nil || user.ID == 0 {
		return
	}
	if err := authzService.SetUserRoles(user.ID, rolesFromFlags(user)); err != nil {
		logger.Warnw("user_role_sync_failed", "user_id", user.ID, "error", err)
	}
}
