package access

import (
	"strings"

	"golang.org/x/net/idna"
)

// DefaultDeveloperEmails is the fixed fallback merged into every allowlist.
var DefaultDeveloperEmails = []string{
	"dev@talentboard.app",
}

// DeveloperAllowlist is a case-insensitive set of developer emails.
// The zero value is an empty allowlist.
type DeveloperAllowlist struct {
	emails map[string]struct{}
}

// NewDeveloperAllowlist merges every source into one set.
// Blank entries and entries without an '@' are discarded.
func NewDeveloperAllowlist(sources ...[]string) DeveloperAllowlist {
	set := make(map[string]struct{})
	for _, src := range sources {
		for _, raw := range src {
			if email, ok := normalizeEntry(raw); ok {
				set[email] = struct{}{}
			}
		}
	}
	return DeveloperAllowlist{emails: set}
}

// ParseEmailList splits a comma-separated list. Filtering happens on merge.
func ParseEmailList(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return strings.Split(csv, ",")
}

// IsDeveloper reports whether email is on the allowlist.
func (a DeveloperAllowlist) IsDeveloper(email string) bool {
	if len(a.emails) == 0 {
		return false
	}
	_, ok := a.emails[NormalizeEmail(email)]
	return ok
}

// With returns a new allowlist containing a's entries plus extra.
func (a DeveloperAllowlist) With(extra []string) DeveloperAllowlist {
	return NewDeveloperAllowlist(a.Emails(), extra)
}

// Emails returns the normalized entries in no particular order.
func (a DeveloperAllowlist) Emails() []string {
	out := make([]string, 0, len(a.emails))
	for e := range a.emails {
		out = append(out, e)
	}
	return out
}

// Len returns the number of entries.
func (a DeveloperAllowlist) Len() int { return len(a.emails) }

// NormalizeEmail trims and lowercases an address. The domain part is
// converted to its ASCII form so unicode and punycode spellings compare equal.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	if ascii, err := idna.Lookup.ToASCII(domain); err == nil && ascii != "" {
		domain = ascii
	}
	return local + "@" + domain
}

func normalizeEntry(raw string) (string, bool) {
	email := NormalizeEmail(raw)
	if email == "" || !strings.Contains(email, "@") {
		return "", false
	}
	return email, true
}
