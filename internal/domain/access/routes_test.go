package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPath(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/":                    "/",
		"/post-job/":           "/post-job",
		"post-job":             "/post-job",
		"/browse-jobs?page=2":  "/browse-jobs",
		"/jobs/42#apply":       "/jobs/42",
		"  /admin/users  ":     "/admin/users",
		"///":                  "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanPath(in), "CleanPath(%q)", in)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Classification
	}{
		{"/", ClassPublic},
		{"/auth", ClassPublic},
		{"/waitlist", ClassPublic},
		{"/admin", ClassAdminArea},
		{"/admin/users", ClassAdminArea},
		{"/admin-dashboard", ClassAdminArea},
		{"/student-dashboard", ClassStudentArea},
		{"/view-student/abc", ClassStudentArea},
		{"/resources", ClassStudentArea},
		{"/browse-jobs", ClassClientArea},
		{"/jobs/17", ClassClientArea},
		{"/client/settings", ClassClientArea},
		{"/settings", ClassUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.path), "Classify(%q)", tt.path)
	}
}

func TestAreaMembership(t *testing.T) {
	assert.True(t, IsClientArea("/student/resources"))
	assert.True(t, IsStudentArea("/student/resources"))
	assert.True(t, IsClientArea("/job/5"))
	assert.False(t, IsStudentArea("/post-job"))
	assert.False(t, IsAdminArea("/administrator"))
	assert.False(t, IsClientArea("/admin-dashboard"))
}

func TestGuestBlockedSets(t *testing.T) {
	for _, p := range []string{"/post-job", "/manage-jobs", "/client-dashboard"} {
		assert.True(t, IsGuestBlocked(p), p)
	}
	assert.False(t, IsGuestBlocked("/profile"))

	for _, p := range []string{"/client/profile", "/client/settings", "/student/settings", "/profile", "/post-job", "/manage-jobs"} {
		assert.True(t, IsNavGuestBlocked(p), p)
	}
	assert.False(t, IsNavGuestBlocked("/client-dashboard"))
}
