package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Complete E-commerce Platform": "complete-e-commerce-platform",
		"  Café   Menu  ":              "cafe-menu",
		"Hello, World!":                "hello-world",
		"a -- b":                       "a-b",
		"متجر":                         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSetTitle_KeepsSlugUntilEnglishChanges(t *testing.T) {
	p := &Project{}
	p.SetTitle(Bilingual{Ar: "منصة", En: "Shop Front"})
	assert.Equal(t, "shop-front", p.Slug)

	p.Slug = "custom-slug"
	p.SetTitle(Bilingual{Ar: "منصة جديدة", En: "Shop Front"})
	assert.Equal(t, "custom-slug", p.Slug)

	p.SetTitle(Bilingual{Ar: "منصة جديدة", En: "Shop Back"})
	assert.Equal(t, "shop-back", p.Slug)
	assert.Equal(t, "/projects/shop-back", p.URL())
}

func TestIsSpam(t *testing.T) {
	spam := []string{
		"Congratulations, you are our lucky winner",
		"Visit http://cheap.example.com for deals now",
		"heeeeeeello there, anyone reading this?",
		"hi there",
		"Play CASINO games for free every day",
	}
	for _, m := range spam {
		assert.True(t, IsSpam(m), m)
	}
	ham := []string{
		"I would like to inquire about your web development services",
		"Please call me back about a mobile app for our clinic",
	}
	for _, m := range ham {
		assert.False(t, IsSpam(m), m)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m := &ContactMessage{}

	m.CreatedAt = now.Add(-30 * time.Second)
	assert.Equal(t, "Just now", m.TimeAgo(now))
	m.CreatedAt = now.Add(-5 * time.Minute)
	assert.Equal(t, "5 minutes ago", m.TimeAgo(now))
	m.CreatedAt = now.Add(-3 * time.Hour)
	assert.Equal(t, "3 hours ago", m.TimeAgo(now))
	m.CreatedAt = now.Add(-50 * time.Hour)
	assert.Equal(t, "2 days ago", m.TimeAgo(now))
}

func TestPageQueryNormalize(t *testing.T) {
	assert.Equal(t, PageQuery{Page: 1, Limit: 10}, PageQuery{}.Normalize())
	assert.Equal(t, PageQuery{Page: 1, Limit: 10}, PageQuery{Page: -3, Limit: -1}.Normalize())
	assert.Equal(t, PageQuery{Page: 4, Limit: 100}, PageQuery{Page: 4, Limit: 500}.Normalize())
	assert.Equal(t, 20, PageQuery{Page: 3, Limit: 10}.Offset())
}

func TestPages(t *testing.T) {
	assert.Equal(t, 3, Page[int]{Total: 25, Limit: 10}.Pages())
	assert.Equal(t, 2, Page[int]{Total: 20, Limit: 10}.Pages())
	assert.Equal(t, 0, Page[int]{Total: 0, Limit: 10}.Pages())
	assert.Equal(t, 0, Page[int]{Total: 5}.Pages())
}

func TestScopeFor(t *testing.T) {
	assert.Equal(t, ScopePublic, ScopeFor(nil))
	assert.Equal(t, ScopePublic, ScopeFor(&User{Role: RoleUser}))
	assert.True(t, ScopeFor(&User{Role: RoleAdmin}).IsAdmin())
}

func TestChangedPasswordAfter(t *testing.T) {
	issued := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	u := &User{}
	assert.False(t, u.ChangedPasswordAfter(issued))

	u.SetPassword("hash", issued, true)
	assert.Nil(t, u.PasswordChangedAt)

	u.SetPassword("hash2", issued.Add(5*time.Second), false)
	require.NotNil(t, u.PasswordChangedAt)
	assert.True(t, u.ChangedPasswordAfter(issued))
	// the stamp is backdated a second so a token minted right after still works
	assert.False(t, u.ChangedPasswordAfter(issued.Add(5*time.Second)))
}

func TestParseClient(t *testing.T) {
	c := ParseClient("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	assert.Equal(t, "mobile", c.Device)
	assert.Equal(t, "Safari", c.Browser)

	c = ParseClient("")
	assert.Equal(t, "Unknown", c.Browser)
	assert.Equal(t, "Unknown", c.OS)
}

func TestSocialLinks(t *testing.T) {
	m := &TeamMember{Social: Social{
		Behance: "https://behance.net/x",
		Github:  "https://github.com/x",
	}}
	assert.Equal(t, []SocialLink{
		{Platform: "github", URL: "https://github.com/x"},
		{Platform: "behance", URL: "https://behance.net/x"},
	}, m.SocialLinks())
	assert.Empty(t, (&TeamMember{}).SocialLinks())
}

func TestPrimaryImage(t *testing.T) {
	assert.Nil(t, (&Project{}).PrimaryImage())

	p := &Project{Images: []ProjectImage{{URL: "a"}, {URL: "b"}}}
	assert.Equal(t, "a", p.PrimaryImage().URL)

	p.Images[1].IsPrimary = true
	assert.Equal(t, "b", p.PrimaryImage().URL)
}

func TestErrorKinds(t *testing.T) {
	err := NotFound("Project %s not found", "x")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Project x not found", err.Error())

	assert.Equal(t, "forbidden", (&Error{Kind: ErrForbidden}).Error())
}
