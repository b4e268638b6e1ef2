package domain

// Scope is the visibility decision made once per request: public callers
// only ever see public/active/non-spam rows, admins see everything unless
// they filter explicitly.
type Scope int

const (
	ScopePublic Scope = iota
	ScopeAdmin
)

func ScopeFor(u *User) Scope {
	if u.IsAdmin() {
		return ScopeAdmin
	}
	return ScopePublic
}

func (s Scope) IsAdmin() bool { return s == ScopeAdmin }

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type PageQuery struct {
	Page  int
	Limit int
}

func (p PageQuery) Normalize() PageQuery {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p PageQuery) Offset() int { return (p.Page - 1) * p.Limit }

type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

func (p Page[T]) Pages() int {
	if p.Limit <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}
