package domain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"

	ContactPriorityNormal  = "normal"
	ContactCategoryGeneral = "general"
)

var (
	ContactStatuses   = []string{ContactStatusNew, ContactStatusRead, ContactStatusReplied, ContactStatusArchived}
	ContactPriorities = []string{"low", "normal", "high", "urgent"}
	ContactCategories = []string{"general", "project", "support", "partnership", "career"}
)

type ContactNote struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ContactID string    `gorm:"size:36;index;not null" json:"-"`
	Note      string    `gorm:"type:text;not null" json:"note"`
	AddedBy   string    `gorm:"size:36;not null" json:"addedBy"`
	AddedAt   time.Time `json:"addedAt"`
}

func (ContactNote) TableName() string { return "contact_notes" }

type ContactMessage struct {
	ID         string        `gorm:"primaryKey;size:36" json:"id"`
	Name       string        `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Email      string        `gorm:"size:191;not null;index" json:"email" validate:"required,email"`
	Phone      string        `gorm:"size:32" json:"phone,omitempty"`
	Subject    string        `gorm:"size:200;not null" json:"subject" validate:"required,max=200"`
	Message    string        `gorm:"type:text;not null" json:"message" validate:"required,max=2000"`
	Status     string        `gorm:"size:16;not null;index" json:"status" validate:"oneof=new read replied archived"`
	Priority   string        `gorm:"size:16;not null;index" json:"priority" validate:"oneof=low normal high urgent"`
	Category   string        `gorm:"size:16;not null;index" json:"category" validate:"oneof=general project support partnership career"`
	IPAddress  string        `gorm:"size:64" json:"ipAddress,omitempty"`
	UserAgent  string        `gorm:"size:512" json:"userAgent,omitempty"`
	ReadAt     *time.Time    `json:"readAt,omitempty"`
	RepliedAt  *time.Time    `json:"repliedAt,omitempty"`
	AssignedTo string        `gorm:"size:36" json:"assignedTo,omitempty"`
	Notes      []ContactNote `gorm:"foreignKey:ContactID" json:"notes"`
	IsSpam     bool          `gorm:"index;not null" json:"isSpam"`
	CreatedAt  time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

var (
	spamKeywords = []string{"viagra", "casino", "lottery", "winner", "congratulations", "million dollars"}
	spamURL      = regexp.MustCompile(`https?://`)
)

const (
	spamMinLength = 10
	spamRepeatRun = 5
)

// IsSpam is the one-shot submission heuristic: a blocked keyword, a run of
// five identical characters, a body under ten characters, or a link.
func IsSpam(message string) bool {
	text := strings.ToLower(message)
	for _, kw := range spamKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	if hasRepeatedRun(text, spamRepeatRun) {
		return true
	}
	if utf8.RuneCountInString(text) < spamMinLength {
		return true
	}
	return spamURL.MatchString(text)
}

func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}

// TimeAgo renders the age of the message the way the dashboard shows it.
func (m *ContactMessage) TimeAgo(now time.Time) string {
	d := now.Sub(m.CreatedAt)
	minutes := int(d / time.Minute)
	hours := minutes / 60
	days := hours / 24
	switch {
	case days > 0:
		return fmt.Sprintf("%d days ago", days)
	case hours > 0:
		return fmt.Sprintf("%d hours ago", hours)
	case minutes > 0:
		return fmt.Sprintf("%d minutes ago", minutes)
	}
	return "Just now"
}

type ContactSort string

const (
	ContactSortNewest   ContactSort = "newest"
	ContactSortOldest   ContactSort = "oldest"
	ContactSortPriority ContactSort = "priority"
)

type ContactFilter struct {
	Status   string
	Category string
	Priority string
	Search   string
	Spam     *bool
	Sort     ContactSort
	PageQuery
}

type ContactStats struct {
	Total      int64            `json:"total"`
	New        int64            `json:"new"`
	Read       int64            `json:"read"`
	Replied    int64            `json:"replied"`
	Spam       int64            `json:"spam"`
	Categories map[string]int64 `json:"categories"`
	Priorities map[string]int64 `json:"priorities"`
	DailyStats map[string]int64 `json:"dailyStats"`
}

type ContactRepository interface {
	Create(ctx context.Context, m *ContactMessage) error
	FindByID(ctx context.Context, id string) (*ContactMessage, error)
	List(ctx context.Context, f ContactFilter) ([]ContactMessage, int64, error)
	UpdateColumns(ctx context.Context, id string, cols map[string]any) (bool, error)
	// MarkRead flips new -> read; it reports false when the row was not new.
	MarkRead(ctx context.Context, id, adminID string, at time.Time) (bool, error)
	AddNote(ctx context.Context, n *ContactNote) error
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context, since time.Time) (*ContactStats, error)
}
