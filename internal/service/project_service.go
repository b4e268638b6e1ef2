package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"studio-site-api/internal/core/cache"
	"studio-site-api/internal/domain"
	"studio-site-api/internal/validate"
	"studio-site-api/pkg/utils"
)

const cacheProjects = "projects"

type ProjectService struct {
	repo  domain.ProjectRepository
	team  domain.TeamRepository
	cache *cache.Cache
	now   func() time.Time
}

func NewProjectService(repo domain.ProjectRepository, team domain.TeamRepository, c *cache.Cache) *ProjectService {
	return &ProjectService{repo: repo, team: team, cache: c, now: time.Now}
}

type ProjectInput struct {
	Title        domain.Bilingual
	Description  domain.Bilingual
	Images       []domain.ProjectImage
	Category     string
	Technologies []string
	Links        domain.ProjectLinks
	Client       domain.ProjectClient
	Duration     string
	TeamMembers  []string
	Status       string
	Featured     *bool
	Order        int
	IsPublic     *bool
	CompletedAt  *time.Time
}

type ProjectPatch struct {
	Title        *domain.Bilingual
	Description  *domain.Bilingual
	Images       []domain.ProjectImage
	Category     *string
	Technologies []string
	Links        *domain.ProjectLinks
	Client       *domain.ProjectClient
	Duration     *string
	TeamMembers  []string
	Status       *string
	Featured     *bool
	Order        *int
	IsPublic     *bool
	CompletedAt  *time.Time
}

func notFoundProject() error { return domain.NotFound("Project not found") }

func (s *ProjectService) List(ctx context.Context, scope domain.Scope, f domain.ProjectFilter) (domain.Page[domain.Project], error) {
	if !scope.IsAdmin() {
		public := true
		f.Public = &public
	}
	f.PageQuery = f.PageQuery.Normalize()
	load := func(ctx context.Context) (domain.Page[domain.Project], error) {
		items, total, err := s.repo.List(ctx, f)
		if err != nil {
			return domain.Page[domain.Project]{}, err
		}
		return domain.Page[domain.Project]{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
	}
	if scope.IsAdmin() {
		return load(ctx)
	}
	key := fmt.Sprintf("list:%s:%s:%s:%s:%s:%d:%d", f.Category, f.Status, boolKey(f.Featured), f.Search, f.Sort, f.Page, f.Limit)
	return cache.GetOrLoadJSON(s.cache, ctx, cacheProjects, key, load)
}

// Featured lists public featured projects, in display order.
func (s *ProjectService) Featured(ctx context.Context, pq domain.PageQuery) (domain.Page[domain.Project], error) {
	featured := true
	return s.List(ctx, domain.ScopePublic, domain.ProjectFilter{Featured: &featured, Sort: domain.ProjectSortOrder, PageQuery: pq})
}

// ByCategory lists public projects of one category, in display order.
func (s *ProjectService) ByCategory(ctx context.Context, category string, pq domain.PageQuery) (domain.Page[domain.Project], error) {
	if !slices.Contains(domain.ProjectCategories, category) {
		return domain.Page[domain.Project]{}, domain.Invalid("Invalid category")
	}
	return s.List(ctx, domain.ScopePublic, domain.ProjectFilter{Category: category, Sort: domain.ProjectSortOrder, PageQuery: pq})
}

// Get resolves an id or a slug. Hidden projects are reported missing to the
// public, and every public fetch counts as a view.
func (s *ProjectService) Get(ctx context.Context, scope domain.Scope, idOrSlug string) (*domain.Project, error) {
	p, err := s.find(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !scope.IsAdmin() {
		if !p.IsPublic {
			return nil, notFoundProject()
		}
		if err := s.repo.IncrementViews(ctx, p.ID); err != nil {
			return nil, err
		}
		p.Stats.Views++
	}
	return p, nil
}

func (s *ProjectService) find(ctx context.Context, idOrSlug string) (*domain.Project, error) {
	var (
		p   *domain.Project
		err error
	)
	if validate.IsID(idOrSlug) {
		if p, err = s.repo.FindByID(ctx, idOrSlug); err != nil {
			return nil, err
		}
	}
	if p == nil {
		if p, err = s.repo.FindBySlug(ctx, idOrSlug); err != nil {
			return nil, err
		}
	}
	if p == nil {
		return nil, notFoundProject()
	}
	return p, nil
}

func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*domain.Project, error) {
	p := &domain.Project{
		ID:            utils.NewID(),
		Description:   in.Description,
		Images:        in.Images,
		Category:      in.Category,
		Technologies:  in.Technologies,
		Links:         in.Links,
		Client:        in.Client,
		Duration:      in.Duration,
		TeamMemberIDs: in.TeamMembers,
		Status:        in.Status,
		Order:         in.Order,
		IsPublic:      true,
		CompletedAt:   in.CompletedAt,
	}
	p.SetTitle(in.Title)
	if p.Status == "" {
		p.Status = domain.ProjectStatusCompleted
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}
	if p.TeamMemberIDs == nil {
		p.TeamMemberIDs = []string{}
	}
	s.stampCompleted(p)
	if err := s.check(ctx, p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Bump(ctx, cacheProjects)
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, in ProjectPatch) (*domain.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFoundProject()
	}
	if in.Title != nil {
		p.SetTitle(*in.Title)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Technologies != nil {
		p.Technologies = in.Technologies
	}
	if in.Links != nil {
		p.Links = *in.Links
	}
	if in.Client != nil {
		p.Client = *in.Client
	}
	if in.Duration != nil {
		p.Duration = *in.Duration
	}
	if in.TeamMembers != nil {
		p.TeamMemberIDs = in.TeamMembers
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Order != nil {
		p.Order = *in.Order
	}
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}
	if in.CompletedAt != nil {
		p.CompletedAt = in.CompletedAt
	}
	s.stampCompleted(p)
	if err := s.check(ctx, p); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Bump(ctx, cacheProjects)
	return p, nil
}

func (s *ProjectService) stampCompleted(p *domain.Project) {
	if p.Status == domain.ProjectStatusCompleted && p.CompletedAt == nil {
		now := s.now().UTC()
		p.CompletedAt = &now
	}
}

// check re-validates the merged project and enforces slug uniqueness.
func (s *ProjectService) check(ctx context.Context, p *domain.Project) error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if p.Slug == "" {
		return domain.Invalid("English title must contain letters or digits")
	}
	taken, err := s.repo.SlugTaken(ctx, p.Slug, p.ID)
	if err != nil {
		return err
	}
	if taken {
		return domain.Conflict("A project with this title already exists")
	}
	return nil
}

func (s *ProjectService) setColumns(ctx context.Context, id string, cols func(p *domain.Project) map[string]any) (*domain.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFoundProject()
	}
	if _, err := s.repo.UpdateColumns(ctx, id, cols(p)); err != nil {
		return nil, err
	}
	s.cache.Bump(ctx, cacheProjects)
	return s.repo.FindByID(ctx, id)
}

// Hide is the soft delete: the project stays reachable for admins.
func (s *ProjectService) Hide(ctx context.Context, id string) error {
	_, err := s.setColumns(ctx, id, func(*domain.Project) map[string]any {
		return map[string]any{"is_public": false}
	})
	return err
}

func (s *ProjectService) Restore(ctx context.Context, id string) (*domain.Project, error) {
	return s.setColumns(ctx, id, func(*domain.Project) map[string]any {
		return map[string]any{"is_public": true}
	})
}

func (s *ProjectService) ToggleFeatured(ctx context.Context, id string) (*domain.Project, error) {
	return s.setColumns(ctx, id, func(p *domain.Project) map[string]any {
		return map[string]any{"featured": !p.Featured}
	})
}

func (s *ProjectService) SetOrder(ctx context.Context, id string, order int) (*domain.Project, error) {
	return s.setColumns(ctx, id, func(*domain.Project) map[string]any {
		return map[string]any{"sort_order": order}
	})
}

func (s *ProjectService) DeletePermanent(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFoundProject()
	}
	s.cache.Bump(ctx, cacheProjects)
	return nil
}

func (s *ProjectService) Stats(ctx context.Context) (*domain.ProjectStatsSummary, error) {
	return s.repo.Stats(ctx)
}

// MemberRefs resolves the team member ids of ps in one query. Ids that no
// longer resolve are left out.
func (s *ProjectService) MemberRefs(ctx context.Context, ps ...domain.Project) (map[string]domain.TeamMemberRef, error) {
	seen := map[string]bool{}
	var ids []string
	for _, p := range ps {
		for _, id := range p.TeamMemberIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	out := make(map[string]domain.TeamMemberRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	members, err := s.team.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range members {
		out[members[i].ID] = members[i].Ref()
	}
	return out, nil
}

func boolKey(b *bool) string {
	if b == nil {
		return ""
	}
	return fmt.Sprint(*b)
}
