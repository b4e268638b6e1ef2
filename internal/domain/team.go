package domain

import (
	"context"
	"time"
)

var TeamRoles = []string{"fullstack", "frontend", "backend", "ui", "ux", "manager", "designer"}

type Social struct {
	Github   string `json:"github,omitempty" validate:"omitempty,github_url"`
	Linkedin string `json:"linkedin,omitempty" validate:"omitempty,linkedin_url"`
	Twitter  string `json:"twitter,omitempty" validate:"omitempty,twitter_url"`
	Dribbble string `json:"dribbble,omitempty" validate:"omitempty,dribbble_url"`
	Behance  string `json:"behance,omitempty" validate:"omitempty,behance_url"`
}

type TeamMember struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      Bilingual `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Role      string    `gorm:"size:16;not null;index" json:"role" validate:"required,oneof=fullstack frontend backend ui ux manager designer"`
	Bio       Bilingual `gorm:"embedded;embeddedPrefix:bio_" json:"bio"`
	Image     string    `gorm:"size:255" json:"image"`
	Skills    []string  `gorm:"serializer:json;type:text" json:"skills"`
	Social    Social    `gorm:"embedded;embeddedPrefix:social_" json:"social"`
	Order     int       `gorm:"column:sort_order;index;not null" json:"order"`
	IsActive  bool      `gorm:"index;not null" json:"isActive"`
	JoinedAt  time.Time `json:"joinedAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (TeamMember) TableName() string { return "team_members" }

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// SocialLinks lists the filled-in profiles in a fixed platform order.
func (m *TeamMember) SocialLinks() []SocialLink {
	all := []SocialLink{
		{"github", m.Social.Github},
		{"linkedin", m.Social.Linkedin},
		{"twitter", m.Social.Twitter},
		{"dribbble", m.Social.Dribbble},
		{"behance", m.Social.Behance},
	}
	out := make([]SocialLink, 0, len(all))
	for _, l := range all {
		if l.URL != "" {
			out = append(out, l)
		}
	}
	return out
}

// TeamMemberRef is what a project shows for each of its members.
type TeamMemberRef struct {
	ID    string    `json:"id"`
	Name  Bilingual `json:"name"`
	Role  string    `json:"role"`
	Image string    `json:"image"`
}

func (m *TeamMember) Ref() TeamMemberRef {
	return TeamMemberRef{ID: m.ID, Name: m.Name, Role: m.Role, Image: m.Image}
}

type TeamSort string

const (
	TeamSortOrder  TeamSort = "order"
	TeamSortName   TeamSort = "name"
	TeamSortNewest TeamSort = "newest"
)

type TeamFilter struct {
	Role   string
	Active *bool
	Sort   TeamSort
	PageQuery
}

type TeamStats struct {
	Total    int64            `json:"total"`
	Active   int64            `json:"active"`
	Inactive int64            `json:"inactive"`
	Roles    map[string]int64 `json:"roles"`
}

type TeamRepository interface {
	Create(ctx context.Context, m *TeamMember) error
	FindByID(ctx context.Context, id string) (*TeamMember, error)
	FindByIDs(ctx context.Context, ids []string) ([]TeamMember, error)
	List(ctx context.Context, f TeamFilter) ([]TeamMember, int64, error)
	Update(ctx context.Context, m *TeamMember) error
	UpdateColumns(ctx context.Context, id string, cols map[string]any) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*TeamStats, error)
}
