package domain

import (
	"context"
	"time"
)

var (
	ProjectCategories = []string{"website", "mobile", "ecommerce", "corporate", "other"}
	ProjectStatuses   = []string{"planning", "development", "testing", "completed", "maintained"}
)

const ProjectStatusCompleted = "completed"

type ProjectImage struct {
	URL       string    `json:"url" validate:"required,url"`
	Alt       Localized `json:"alt"`
	IsPrimary bool      `json:"isPrimary"`
}

type ProjectLinks struct {
	Live   string `json:"live,omitempty" validate:"omitempty,http_url"`
	Github string `json:"github,omitempty" validate:"omitempty,github_url"`
	Demo   string `json:"demo,omitempty" validate:"omitempty,http_url"`
}

type ProjectClient struct {
	Name    string `json:"name,omitempty"`
	Website string `json:"website,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

type ProjectStats struct {
	Views int64 `json:"views"`
	Likes int64 `json:"likes"`
}

type Project struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	Title         Bilingual      `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description   Bilingual      `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	Slug          string         `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Images        []ProjectImage `gorm:"serializer:json;type:text" json:"images" validate:"dive"`
	Category      string         `gorm:"size:16;not null;index" json:"category" validate:"required,oneof=website mobile ecommerce corporate other"`
	Technologies  []string       `gorm:"serializer:json;type:text" json:"technologies"`
	Links         ProjectLinks   `gorm:"embedded;embeddedPrefix:links_" json:"links"`
	Client        ProjectClient  `gorm:"embedded;embeddedPrefix:client_" json:"client"`
	Duration      string         `gorm:"size:64" json:"duration,omitempty"`
	TeamMemberIDs []string       `gorm:"column:team_member_ids;serializer:json;type:text" json:"teamMembers"`
	Status        string         `gorm:"size:16;not null;index" json:"status" validate:"oneof=planning development testing completed maintained"`
	Featured      bool           `gorm:"index;not null" json:"featured"`
	Order         int            `gorm:"column:sort_order;index;not null" json:"order"`
	IsPublic      bool           `gorm:"index;not null" json:"isPublic"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty"`
	Stats         ProjectStats   `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (Project) TableName() string { return "projects" }

// PrimaryImage returns the image flagged primary, else the first one.
func (p *Project) PrimaryImage() *ProjectImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

func (p *Project) URL() string { return "/projects/" + p.Slug }

// SetTitle replaces the title and re-derives the slug only when the English
// title actually changes (or the slug has never been set).
func (p *Project) SetTitle(t Bilingual) {
	changed := p.Slug == "" || p.Title.En != t.En
	p.Title = t
	if changed {
		p.Slug = Slugify(t.En)
	}
}

type ProjectSort string

const (
	ProjectSortOrder  ProjectSort = "order"
	ProjectSortNewest ProjectSort = "newest"
	ProjectSortOldest ProjectSort = "oldest"
	ProjectSortViews  ProjectSort = "views"
)

type ProjectFilter struct {
	Category string
	Status   string
	Featured *bool
	Public   *bool
	Search   string
	Sort     ProjectSort
	PageQuery
}

type ProjectStatsSummary struct {
	Total      int64            `json:"total"`
	Public     int64            `json:"public"`
	Featured   int64            `json:"featured"`
	Hidden     int64            `json:"hidden"`
	TotalViews int64            `json:"totalViews"`
	Categories map[string]int64 `json:"categories"`
	Statuses   map[string]int64 `json:"statuses"`
}

type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	FindBySlug(ctx context.Context, slug string) (*Project, error)
	SlugTaken(ctx context.Context, slug, exceptID string) (bool, error)
	List(ctx context.Context, f ProjectFilter) ([]Project, int64, error)
	Update(ctx context.Context, p *Project) error
	UpdateColumns(ctx context.Context, id string, cols map[string]any) (bool, error)
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*ProjectStatsSummary, error)
}
