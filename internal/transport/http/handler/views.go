package handler

import (
	"time"

	"studio-site-api/internal/domain"
)

// Read-time shapes. Derived fields are computed here, never stored.

type teamMemberView struct {
	domain.TeamMember
	SocialLinks []domain.SocialLink `json:"socialLinks"`
}

func teamView(m *domain.TeamMember) teamMemberView {
	return teamMemberView{TeamMember: *m, SocialLinks: m.SocialLinks()}
}

func teamViews(ms []domain.TeamMember) []teamMemberView {
	out := make([]teamMemberView, 0, len(ms))
	for i := range ms {
		out = append(out, teamView(&ms[i]))
	}
	return out
}

type projectView struct {
	domain.Project
	TeamMembers  []domain.TeamMemberRef `json:"teamMembers"`
	PrimaryImage *domain.ProjectImage   `json:"primaryImage"`
	URL          string                 `json:"url"`
}

func newProjectView(p *domain.Project, refs map[string]domain.TeamMemberRef) projectView {
	v := projectView{
		Project:      *p,
		TeamMembers:  make([]domain.TeamMemberRef, 0, len(p.TeamMemberIDs)),
		PrimaryImage: p.PrimaryImage(),
		URL:          p.URL(),
	}
	for _, id := range p.TeamMemberIDs {
		if ref, ok := refs[id]; ok {
			v.TeamMembers = append(v.TeamMembers, ref)
		}
	}
	if v.Images == nil {
		v.Images = []domain.ProjectImage{}
	}
	if v.Technologies == nil {
		v.Technologies = []string{}
	}
	return v
}

func projectViews(ps []domain.Project, refs map[string]domain.TeamMemberRef) []projectView {
	out := make([]projectView, 0, len(ps))
	for i := range ps {
		out = append(out, newProjectView(&ps[i], refs))
	}
	return out
}

type noteView struct {
	domain.ContactNote
	AddedBy any `json:"addedBy"`
}

type contactView struct {
	domain.ContactMessage
	AssignedTo any               `json:"assignedTo,omitempty"`
	Notes      []noteView        `json:"notes"`
	TimeAgo    string            `json:"timeAgo"`
	Client     domain.ClientInfo `json:"client"`
}

// userRef expands an id when the user still exists and falls back to the
// bare id otherwise.
func userRef(id string, refs map[string]domain.UserRef) any {
	if id == "" {
		return nil
	}
	if ref, ok := refs[id]; ok {
		return ref
	}
	return id
}

func newContactView(m *domain.ContactMessage, refs map[string]domain.UserRef, now time.Time) contactView {
	v := contactView{
		ContactMessage: *m,
		AssignedTo:     userRef(m.AssignedTo, refs),
		Notes:          make([]noteView, 0, len(m.Notes)),
		TimeAgo:        m.TimeAgo(now),
		Client:         domain.ParseClient(m.UserAgent),
	}
	for _, n := range m.Notes {
		v.Notes = append(v.Notes, noteView{ContactNote: n, AddedBy: userRef(n.AddedBy, refs)})
	}
	return v
}

func contactViews(ms []domain.ContactMessage, refs map[string]domain.UserRef, now time.Time) []contactView {
	out := make([]contactView, 0, len(ms))
	for i := range ms {
		out = append(out, newContactView(&ms[i], refs, now))
	}
	return out
}
