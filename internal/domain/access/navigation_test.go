package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
)

func findItem(items []NavItem, label string) (NavItem, bool) {
	for _, it := range items {
		if it.Label == label {
			return it, true
		}
	}
	return NavItem{}, false
}

func TestSelectNavigation_HomeAlwaysClient(t *testing.T) {
	for _, role := range []domainauth.Role{domainauth.RoleStudent, domainauth.RoleAdmin, domainauth.RoleDeveloper, ""} {
		nav := SelectNavigation(NavRequest{Path: "/", Role: role})
		assert.Equal(t, NavSetClient, nav.Set, "role %q", role)
	}
}

func TestSelectNavigation_ByRole(t *testing.T) {
	assert.Equal(t, NavSetStudent, SelectNavigation(NavRequest{Path: "/browse-jobs", Role: domainauth.RoleStudent}).Set)
	assert.Equal(t, NavSetAdmin, SelectNavigation(NavRequest{Path: "/admin", Role: domainauth.RoleAdmin}).Set)
	assert.Equal(t, NavSetAdmin, SelectNavigation(NavRequest{Path: "/admin", Role: domainauth.RoleDeveloper}).Set)
	assert.Equal(t, NavSetClient, SelectNavigation(NavRequest{Path: "/post-job", Role: domainauth.RoleClient}).Set)
	assert.Equal(t, NavSetClient, SelectNavigation(NavRequest{Path: "/post-job"}).Set)
}

func TestSelectNavigation_StudentProfileRewrite(t *testing.T) {
	nav := SelectNavigation(NavRequest{Path: "/student-dashboard", Role: domainauth.RoleStudent, UserID: "u-42"})
	item, ok := findItem(nav.Items, "My Profile")
	require.True(t, ok)
	assert.Equal(t, "/view-student/u-42", item.Path)

	// The shared table must not be mutated by the rewrite.
	plain := SelectNavigation(NavRequest{Path: "/student-dashboard", Role: domainauth.RoleStudent})
	item, ok = findItem(plain.Items, "My Profile")
	require.True(t, ok)
	assert.Equal(t, "/profile", item.Path)
}

func TestSelectNavigation_StudentQuickActionsVaryByGuest(t *testing.T) {
	authed := SelectNavigation(NavRequest{Path: "/browse-jobs", Role: domainauth.RoleStudent})
	guest := SelectNavigation(NavRequest{Path: "/browse-jobs", Role: domainauth.RoleStudent, Guest: true})

	_, hasSignup := findItem(guest.QuickActions, "Create Account")
	assert.True(t, hasSignup)
	_, hasSignup = findItem(authed.QuickActions, "Create Account")
	assert.False(t, hasSignup)
}

func TestNavigationTarget(t *testing.T) {
	d := NavigationTarget("/client/settings", true)
	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, LoginPath, d.Target)
	assert.True(t, d.ShowSignup)
	assert.Equal(t, "/client/settings", d.ReturnTo)

	d = NavigationTarget("/client/settings", false)
	assert.Equal(t, DecisionAllow, d.Kind)
	assert.Equal(t, "/client/settings", d.Target)

	d = NavigationTarget("/browse-jobs", true)
	assert.Equal(t, DecisionAllow, d.Kind)
}
