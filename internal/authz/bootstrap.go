package authz

import "fmt"

// RoleSeed is a built-in role with its default policies.
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds defines the platform role matrix: admins manage the
// marketplace, farmers manage their own farms and orders, consumers shop.
// Ownership checks stay in the services; these rules gate the route groups.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "admin",
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
				{Object: "/farmer/*", Action: "*"},
				{Object: "/user/*", Action: "*"},
			},
		},
		{
			Role: "farmer",
			Policies: []Policy{
				{Object: "/farmer/*", Action: "*"},
				{Object: "/user/*", Action: "*"},
			},
		},
		{
			Role: "consumer",
			Policies: []Policy{
				{Object: "/user/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles installs the role matrix, adding only missing rules.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}
		for _, policy := range seed.Policies {
			added, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), NormalizeAction(policy.Action))
			if err != nil {
				return fmt.Errorf("seed role policy failed: %w", err)
			}
			if added {
				changed = true
			}
		}
	}
	if changed {
		return s.saveAndReload()
	}
	return nil
}
