package service

import (
	"context"
	"fmt"
	"time"

	"studio-site-api/internal/core/cache"
	"studio-site-api/internal/domain"
	"studio-site-api/internal/validate"
	"studio-site-api/pkg/utils"
)

const cacheTeam = "team"

type TeamService struct {
	repo  domain.TeamRepository
	cache *cache.Cache
	now   func() time.Time
}

func NewTeamService(repo domain.TeamRepository, c *cache.Cache) *TeamService {
	return &TeamService{repo: repo, cache: c, now: time.Now}
}

type TeamMemberInput struct {
	Name     domain.Bilingual
	Role     string
	Bio      domain.Bilingual
	Image    string
	Skills   []string
	Social   domain.Social
	Order    int
	IsActive *bool
	JoinedAt *time.Time
}

// TeamMemberPatch holds the fields present in an update request.
type TeamMemberPatch struct {
	Name     *domain.Bilingual
	Role     *string
	Bio      *domain.Bilingual
	Image    *string
	Skills   []string
	Social   *domain.Social
	Order    *int
	IsActive *bool
	JoinedAt *time.Time
}

func notFoundMember() error { return domain.NotFound("Team member not found") }

// List applies the visibility scope: the public only ever sees active members.
func (s *TeamService) List(ctx context.Context, scope domain.Scope, f domain.TeamFilter) (domain.Page[domain.TeamMember], error) {
	if !scope.IsAdmin() {
		active := true
		f.Active = &active
	}
	f.PageQuery = f.PageQuery.Normalize()
	load := func(ctx context.Context) (domain.Page[domain.TeamMember], error) {
		items, total, err := s.repo.List(ctx, f)
		if err != nil {
			return domain.Page[domain.TeamMember]{}, err
		}
		return domain.Page[domain.TeamMember]{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
	}
	if scope.IsAdmin() {
		return load(ctx)
	}
	key := fmt.Sprintf("list:%s:%s:%d:%d", f.Role, f.Sort, f.Page, f.Limit)
	return cache.GetOrLoadJSON(s.cache, ctx, cacheTeam, key, load)
}

func (s *TeamService) Get(ctx context.Context, scope domain.Scope, id string) (*domain.TeamMember, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil || (!m.IsActive && !scope.IsAdmin()) {
		return nil, notFoundMember()
	}
	return m, nil
}

func (s *TeamService) Create(ctx context.Context, in TeamMemberInput) (*domain.TeamMember, error) {
	m := &domain.TeamMember{
		ID:       utils.NewID(),
		Name:     in.Name,
		Role:     in.Role,
		Bio:      in.Bio,
		Image:    in.Image,
		Skills:   in.Skills,
		Social:   in.Social,
		Order:    in.Order,
		IsActive: true,
		JoinedAt: s.now().UTC(),
	}
	if m.Image == "" {
		m.Image = domain.DefaultAvatar
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	if in.JoinedAt != nil {
		m.JoinedAt = in.JoinedAt.UTC()
	}
	if err := validate.Struct(m); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.cache.Bump(ctx, cacheTeam)
	return m, nil
}

// Update merges the patch and re-validates the whole member before saving.
func (s *TeamService) Update(ctx context.Context, id string, p TeamMemberPatch) (*domain.TeamMember, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFoundMember()
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Role != nil {
		m.Role = *p.Role
	}
	if p.Bio != nil {
		m.Bio = *p.Bio
	}
	if p.Image != nil {
		m.Image = *p.Image
	}
	if p.Skills != nil {
		m.Skills = p.Skills
	}
	if p.Social != nil {
		m.Social = *p.Social
	}
	if p.Order != nil {
		m.Order = *p.Order
	}
	if p.IsActive != nil {
		m.IsActive = *p.IsActive
	}
	if p.JoinedAt != nil {
		m.JoinedAt = p.JoinedAt.UTC()
	}
	if err := validate.Struct(m); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	s.cache.Bump(ctx, cacheTeam)
	return m, nil
}

func (s *TeamService) setColumns(ctx context.Context, id string, cols map[string]any) (*domain.TeamMember, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFoundMember()
	}
	if _, err := s.repo.UpdateColumns(ctx, id, cols); err != nil {
		return nil, err
	}
	s.cache.Bump(ctx, cacheTeam)
	return s.repo.FindByID(ctx, id)
}

// Deactivate is the soft delete.
func (s *TeamService) Deactivate(ctx context.Context, id string) error {
	_, err := s.setColumns(ctx, id, map[string]any{"is_active": false})
	return err
}

func (s *TeamService) Reactivate(ctx context.Context, id string) (*domain.TeamMember, error) {
	return s.setColumns(ctx, id, map[string]any{"is_active": true})
}

func (s *TeamService) SetOrder(ctx context.Context, id string, order int) (*domain.TeamMember, error) {
	return s.setColumns(ctx, id, map[string]any{"sort_order": order})
}

func (s *TeamService) DeletePermanent(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFoundMember()
	}
	s.cache.Bump(ctx, cacheTeam)
	return nil
}

func (s *TeamService) Stats(ctx context.Context) (*domain.TeamStats, error) {
	return s.repo.Stats(ctx)
}
