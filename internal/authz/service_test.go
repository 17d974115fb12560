package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestBuiltinRoleMatrix(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	if err := svc.SetUserRoles(1, []string{"consumer"}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	if err := svc.SetUserRoles(2, []string{"farmer", "consumer"}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	if err := svc.SetUserRoles(3, []string{"admin"}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}

	cases := []struct {
		userID uint
		obj    string
		act    string
		want   bool
	}{
		{1, "/api/v1/user/cart", "GET", true},
		{1, "/api/v1/user/orders/:id/cancel", "POST", true},
		{1, "/api/v1/farmer/farms", "POST", false},
		{1, "/api/v1/admin/users", "GET", false},
		{2, "/api/v1/farmer/farms/:id/products", "POST", true},
		{2, "/api/v1/user/cart/items", "POST", true},
		{2, "/api/v1/admin/users/:id/status", "PATCH", false},
		{3, "/api/v1/admin/users", "GET", true},
		{3, "/api/v1/farmer/orders", "GET", true},
		{3, "/api/v1/user/me", "GET", true},
		{99, "/api/v1/user/cart", "GET", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceUser(tc.userID, tc.obj, tc.act)
		if err != nil {
			t.Fatalf("enforce %d %s failed: %v", tc.userID, tc.obj, err)
		}
		if allow != tc.want {
			t.Fatalf("user %d %s %s: expected %v, got %v", tc.userID, tc.act, tc.obj, tc.want, allow)
		}
	}
}

func TestSetUserRolesReplacesAssignments(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	if err := svc.SetUserRoles(7, []string{"consumer"}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	// Farmer promotion swaps the role set in place.
	if err := svc.SetUserRoles(7, []string{"farmer", "consumer"}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	roles, err := svc.GetUserRoles(7)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 2 || roles[0] != "role:consumer" || roles[1] != "role:farmer" {
		t.Fatalf("unexpected roles: %v", roles)
	}

	// Clearing the set revokes access.
	if err := svc.SetUserRoles(7, nil); err != nil {
		t.Fatalf("clear roles failed: %v", err)
	}
	allow, err := svc.EnforceUser(7, "/api/v1/user/cart", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if allow {
		t.Fatalf("cleared user must lose access")
	}
}

func TestNormalizeHelpers(t *testing.T) {
	if got := NormalizeObject("/api/v1/user/cart"); got != "/user/cart" {
		t.Fatalf("unexpected object: %q", got)
	}
	if got := NormalizeObject("/api/v1"); got != "/" {
		t.Fatalf("bare prefix must map to /, got %q", got)
	}
	if got := NormalizeObject("/health"); got != "/health" {
		t.Fatalf("non-versioned path must pass through, got %q", got)
	}
	if got := NormalizeAction(" get "); got != "GET" {
		t.Fatalf("unexpected action: %q", got)
	}

	role, err := NormalizeRole(" Role:Farmer ")
	if err != nil || role != "role:farmer" {
		t.Fatalf("unexpected role: %q %v", role, err)
	}
	if _, err := NormalizeRole("  "); err == nil {
		t.Fatalf("blank role must be rejected")
	}
	if got := SubjectForUser(42); got != "user:42" {
		t.Fatalf("unexpected subject: %q", got)
	}
}
