package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeveloperAllowlist_MergesSources(t *testing.T) {
	configured := ParseEmailList(" Alice@Example.com ,bob@example.com,, not-an-email ,")
	override := []string{"carol@example.com", "   "}
	fallback := []string{"dev@talentboard.app"}

	a := NewDeveloperAllowlist(configured, override, fallback)

	assert.Equal(t, 4, a.Len())
	assert.True(t, a.IsDeveloper("alice@example.com"))
	assert.True(t, a.IsDeveloper("  ALICE@EXAMPLE.COM "))
	assert.True(t, a.IsDeveloper("carol@example.com"))
	assert.True(t, a.IsDeveloper("dev@talentboard.app"))
	assert.False(t, a.IsDeveloper("not-an-email"))
	assert.False(t, a.IsDeveloper(""))
	assert.False(t, a.IsDeveloper("mallory@example.com"))
}

func TestDeveloperAllowlist_ZeroValue(t *testing.T) {
	var a DeveloperAllowlist
	assert.False(t, a.IsDeveloper("dev@talentboard.app"))
	assert.Equal(t, 0, a.Len())
}

func TestDeveloperAllowlist_With(t *testing.T) {
	base := NewDeveloperAllowlist([]string{"a@example.com"})
	extended := base.With([]string{"b@example.com"})

	assert.False(t, base.IsDeveloper("b@example.com"))
	assert.True(t, extended.IsDeveloper("a@example.com"))
	assert.True(t, extended.IsDeveloper("b@example.com"))
}

func TestParseEmailList_Empty(t *testing.T) {
	assert.Nil(t, ParseEmailList("  "))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "dev@example.com", NormalizeEmail("  Dev@EXAMPLE.com "))
	assert.Equal(t, "dev@xn--bcher-kva.example", NormalizeEmail("dev@bücher.example"))
	assert.Equal(t, "no-at-sign", NormalizeEmail("No-At-Sign"))
}
