package access

import (
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
)

// NavItem is one sidebar entry or quick action.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon,omitempty"`
}

// Navigation is the navigation set rendered for a visitor.
type Navigation struct {
	Set          string    `json:"set"`
	Items        []NavItem `json:"items"`
	QuickActions []NavItem `json:"quick_actions"`
}

// Navigation set names.
const (
	NavSetClient  = "client"
	NavSetStudent = "student"
	NavSetAdmin   = "admin"
)

const myProfileLabel = "My Profile"

var (
	clientNavItems = []NavItem{
		{Label: "Home", Path: "/", Icon: "home"},
		{Label: "Dashboard", Path: "/client-dashboard", Icon: "layout-dashboard"},
		{Label: "Browse Students", Path: "/browse-students", Icon: "users"},
		{Label: "Post a Job", Path: "/post-job", Icon: "plus-circle"},
		{Label: "Manage Jobs", Path: "/manage-jobs", Icon: "briefcase"},
		{Label: "Resources", Path: "/resources", Icon: "book-open"},
		{Label: "Profile", Path: "/client/profile", Icon: "user"},
		{Label: "Settings", Path: "/client/settings", Icon: "settings"},
	}
	clientQuickActions = []NavItem{
		{Label: "Post a Job", Path: "/post-job", Icon: "plus"},
		{Label: "Find Talent", Path: "/browse-students", Icon: "search"},
	}

	studentNavItems = []NavItem{
		{Label: "Dashboard", Path: "/student-dashboard", Icon: "layout-dashboard"},
		{Label: "Browse Jobs", Path: "/browse-jobs", Icon: "search"},
		{Label: "My Applications", Path: "/my-applications", Icon: "file-text"},
		{Label: "Saved Jobs", Path: "/saved-jobs", Icon: "bookmark"},
		{Label: "Resources", Path: "/student/resources", Icon: "book-open"},
		{Label: myProfileLabel, Path: "/profile", Icon: "user"},
		{Label: "Settings", Path: "/student/settings", Icon: "settings"},
	}
	studentQuickActions = []NavItem{
		{Label: "Find Jobs", Path: "/browse-jobs", Icon: "search"},
		{Label: "Track Applications", Path: "/my-applications", Icon: "file-text"},
	}
	studentGuestQuickActions = []NavItem{
		{Label: "Find Jobs", Path: "/browse-jobs", Icon: "search"},
		{Label: "Create Account", Path: LoginPath, Icon: "user-plus"},
	}

	adminNavItems = []NavItem{
		{Label: "Admin Dashboard", Path: "/admin-dashboard", Icon: "shield"},
		{Label: "Users", Path: "/admin/users", Icon: "users"},
		{Label: "Jobs", Path: "/admin/jobs", Icon: "briefcase"},
		{Label: "Reports", Path: "/admin/reports", Icon: "flag"},
		{Label: "Analytics", Path: "/admin/analytics", Icon: "bar-chart"},
		{Label: "Spotlight", Path: "/admin/spotlight", Icon: "star"},
	}
	adminQuickActions = []NavItem{
		{Label: "Review Reports", Path: "/admin/reports", Icon: "flag"},
		{Label: "Manage Users", Path: "/admin/users", Icon: "users"},
	}
)

// NavRequest carries the inputs of SelectNavigation.
type NavRequest struct {
	Path  string
	Role  domainauth.Role
	Guest bool
	// UserID rewrites the student "My Profile" entry when known.
	UserID string
}

// SelectNavigation picks the navigation set for a visitor.
// The home path always gets the client set.
func SelectNavigation(req NavRequest) Navigation {
	if CleanPath(req.Path) == HomePath {
		return clientNavigation()
	}

	switch req.Role {
	case domainauth.RoleStudent:
		items := cloneItems(studentNavItems)
		if req.UserID != "" && !req.Guest {
			for i := range items {
				if items[i].Label == myProfileLabel {
					items[i].Path = StudentProfilePath(req.UserID)
				}
			}
		}
		quick := studentQuickActions
		if req.Guest {
			quick = studentGuestQuickActions
		}
		return Navigation{Set: NavSetStudent, Items: items, QuickActions: cloneItems(quick)}
	case domainauth.RoleAdmin, domainauth.RoleDeveloper:
		return Navigation{Set: NavSetAdmin, Items: cloneItems(adminNavItems), QuickActions: cloneItems(adminQuickActions)}
	default:
		return clientNavigation()
	}
}

// StudentProfilePath is the public profile page of a student.
func StudentProfilePath(userID string) string {
	return "/view-student/" + userID
}

// NavigationTarget resolves a click on a navigation entry. Guests clicking a
// guest-blocked entry are sent to login with the signup hint.
func NavigationTarget(path string, guest bool) Decision {
	path = CleanPath(path)
	if guest && IsNavGuestBlocked(path) {
		return loginRedirect(path, ReasonGuestRestricted, "")
	}
	return Decision{Kind: DecisionAllow, Reason: ReasonArea, Target: path}
}

func clientNavigation() Navigation {
	return Navigation{Set: NavSetClient, Items: cloneItems(clientNavItems), QuickActions: cloneItems(clientQuickActions)}
}

func cloneItems(in []NavItem) []NavItem {
	out := make([]NavItem, len(in))
	copy(out, in)
	return out
}
