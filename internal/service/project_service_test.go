package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-site-api/internal/domain"
)

func projectInput(title string) ProjectInput {
	return ProjectInput{
		Title:        domain.Bilingual{Ar: "منصة تجارة", En: title},
		Description:  domain.Bilingual{Ar: "وصف طويل بما يكفي للمشروع", En: "An online store with payments and delivery"},
		Images:       []domain.ProjectImage{{URL: "https://img.example.com/shop.png", IsPrimary: true}},
		Category:     "ecommerce",
		Technologies: []string{"Go", "Vue"},
	}
}

func TestProjectSlugDeterministicAndStable(t *testing.T) {
	f := newFixture(t)
	p, err := f.projects.Create(ctx, projectInput("Complete E-commerce Platform"))
	require.NoError(t, err)
	assert.Equal(t, "complete-e-commerce-platform", p.Slug)
	assert.Equal(t, domain.ProjectStatusCompleted, p.Status)
	assert.True(t, p.IsPublic)
	require.NotNil(t, p.CompletedAt)

	same := domain.Bilingual{Ar: "عنوان جديد", En: "Complete E-commerce Platform"}
	up, err := f.projects.Update(ctx, p.ID, ProjectPatch{Title: &same, Duration: strp("3 months")})
	require.NoError(t, err)
	assert.Equal(t, "complete-e-commerce-platform", up.Slug)

	renamed := domain.Bilingual{Ar: "عنوان", En: "Shop Relaunch 2"}
	up, err = f.projects.Update(ctx, p.ID, ProjectPatch{Title: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "shop-relaunch-2", up.Slug)

	_, err = f.projects.Create(ctx, projectInput("Shop   Relaunch 2"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.projects.Create(ctx, projectInput("!!!"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectValidationOnUpdate(t *testing.T) {
	f := newFixture(t)
	p, err := f.projects.Create(ctx, projectInput("Portfolio Site"))
	require.NoError(t, err)

	_, err = f.projects.Update(ctx, p.ID, ProjectPatch{Category: strp("spaceship")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.projects.Update(ctx, p.ID, ProjectPatch{Links: &domain.ProjectLinks{Github: "https://example.com/repo"}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.projects.Update(ctx, p.ID, ProjectPatch{Images: []domain.ProjectImage{{URL: "not a url"}}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectSoftDeleteVisibility(t *testing.T) {
	f := newFixture(t)
	p, err := f.projects.Create(ctx, projectInput("Hidden Gem"))
	require.NoError(t, err)
	other, err := f.projects.Create(ctx, projectInput("Visible One"))
	require.NoError(t, err)

	require.NoError(t, f.projects.Hide(ctx, p.ID))

	page, err := f.projects.List(ctx, domain.ScopePublic, domain.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, other.ID, page.Items[0].ID)
	for _, it := range page.Items {
		assert.True(t, it.IsPublic)
	}

	_, err = f.projects.Get(ctx, domain.ScopePublic, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.projects.Get(ctx, domain.ScopePublic, p.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.projects.Get(ctx, domain.ScopeAdmin, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)

	page, err = f.projects.List(ctx, domain.ScopeAdmin, domain.ProjectFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	restored, err := f.projects.Restore(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsPublic)
}

func TestProjectViewsCountOnlyPublicFetches(t *testing.T) {
	f := newFixture(t)
	p, err := f.projects.Create(ctx, projectInput("Counter App"))
	require.NoError(t, err)

	got, err := f.projects.Get(ctx, domain.ScopePublic, p.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Stats.Views)
	_, err = f.projects.Get(ctx, domain.ScopePublic, p.ID)
	require.NoError(t, err)

	got, err = f.projects.Get(ctx, domain.ScopeAdmin, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Stats.Views)

	_, err = f.projects.Get(ctx, domain.ScopePublic, "no-such-project")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectFeaturedCategoryAndToggles(t *testing.T) {
	f := newFixture(t)
	a, err := f.projects.Create(ctx, projectInput("Alpha"))
	require.NoError(t, err)
	in := projectInput("Beta")
	in.Category = "mobile"
	b, err := f.projects.Create(ctx, in)
	require.NoError(t, err)

	toggled, err := f.projects.ToggleFeatured(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Featured)

	page, err := f.projects.Featured(ctx, domain.PageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, a.ID, page.Items[0].ID)

	page, err = f.projects.ByCategory(ctx, "mobile", domain.PageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, b.ID, page.Items[0].ID)

	_, err = f.projects.ByCategory(ctx, "games", domain.PageQuery{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	ordered, err := f.projects.SetOrder(ctx, b.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, -1, ordered.Order)

	s, err := f.projects.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, s.Total)
	assert.EqualValues(t, 1, s.Featured)

	require.NoError(t, f.projects.DeletePermanent(ctx, a.ID))
	assert.ErrorIs(t, f.projects.DeletePermanent(ctx, a.ID), domain.ErrNotFound)
}

func TestProjectMemberRefs(t *testing.T) {
	f := newFixture(t)
	m, err := f.team.Create(ctx, memberInput("Amy", "frontend", 0))
	require.NoError(t, err)

	in := projectInput("Team Work")
	in.TeamMembers = []string{m.ID, "00000000-0000-0000-0000-000000000000"}
	p, err := f.projects.Create(ctx, in)
	require.NoError(t, err)

	refs, err := f.projects.MemberRefs(ctx, *p)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Amy", refs[m.ID].Name.En)
	assert.Equal(t, "frontend", refs[m.ID].Role)
}
