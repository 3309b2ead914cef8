package access

import "strings"

// Classification is a derived access-area tag computed from a URL path.
type Classification string

const (
	ClassPublic      Classification = "public"
	ClassClientArea  Classification = "client-area"
	ClassStudentArea Classification = "student-area"
	ClassAdminArea   Classification = "admin-area"
	ClassUnknown     Classification = "unknown"
)

// Well-known paths.
const (
	HomePath  = "/"
	LoginPath = "/auth"
)

// pathRule matches a path either exactly or by prefix.
type pathRule struct {
	path   string
	prefix bool
}

func (r pathRule) match(p string) bool {
	if r.prefix {
		return strings.HasPrefix(p, r.path)
	}
	return p == r.path
}

func exact(p string) pathRule  { return pathRule{path: p} }
func prefix(p string) pathRule { return pathRule{path: p, prefix: true} }

func matchAny(rules []pathRule, p string) bool {
	for _, r := range rules {
		if r.match(p) {
			return true
		}
	}
	return false
}

var (
	publicPaths = []pathRule{exact("/auth"), exact("/"), exact("/waitlist")}

	clientAreaPaths = []pathRule{
		prefix("/client"),
		exact("/"),
		exact("/browse-jobs"),
		exact("/my-applications"),
		exact("/saved-jobs"),
		prefix("/job"),
		exact("/profile"),
		exact("/manage-jobs"),
		exact("/post-job"),
		exact("/waitlist"),
		exact("/browse-students"),
		prefix("/student"),
		prefix("/view-student"),
		exact("/all-resources"),
		exact("/resources"),
		exact("/student/resources"),
	}

	studentAreaPaths = []pathRule{
		prefix("/student"),
		prefix("/view-student"),
		exact("/student-dashboard"),
		exact("/resources"),
		exact("/all-resources"),
		exact("/browse-students"),
	}

	adminAreaPaths = []pathRule{exact("/admin"), prefix("/admin/"), exact("/admin-dashboard")}

	// Paths the route guard refuses to guests.
	guestBlockedPaths = []pathRule{exact("/post-job"), exact("/manage-jobs"), exact("/client-dashboard")}

	// Paths the sidebar refuses to guests; slightly broader than the guard set.
	navGuestBlockedPaths = []pathRule{
		exact("/client/profile"),
		exact("/client/settings"),
		exact("/student/settings"),
		exact("/profile"),
		exact("/post-job"),
		exact("/manage-jobs"),
	}
)

// CleanPath strips query/fragment and a trailing slash, keeping "/" intact.
func CleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if p == "" {
		return HomePath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = HomePath
		}
	}
	return p
}

func IsPublic(p string) bool       { return matchAny(publicPaths, CleanPath(p)) }
func IsClientArea(p string) bool   { return matchAny(clientAreaPaths, CleanPath(p)) }
func IsStudentArea(p string) bool  { return matchAny(studentAreaPaths, CleanPath(p)) }
func IsAdminArea(p string) bool    { return matchAny(adminAreaPaths, CleanPath(p)) }
func IsGuestBlocked(p string) bool { return matchAny(guestBlockedPaths, CleanPath(p)) }

// IsNavGuestBlocked reports whether a sidebar entry is refused to guests.
func IsNavGuestBlocked(p string) bool { return matchAny(navGuestBlockedPaths, CleanPath(p)) }

// Classify returns the most specific area tag for p.
// Admin wins over student, student over client; public paths are tagged public.
func Classify(p string) Classification {
	p = CleanPath(p)
	switch {
	case IsAdminArea(p):
		return ClassAdminArea
	case IsPublic(p):
		return ClassPublic
	case IsStudentArea(p):
		return ClassStudentArea
	case IsClientArea(p):
		return ClassClientArea
	default:
		return ClassUnknown
	}
}
