package service

import (
	"context"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"studio-site-api/internal/domain"
	"studio-site-api/pkg/utils"
)

// Notifier sends the two emails that follow an accepted submission.
type Notifier interface {
	NotifyAdmin(ctx context.Context, m *domain.ContactMessage) error
	AutoReply(ctx context.Context, m *domain.ContactMessage) error
}

type NopNotifier struct{}

func (NopNotifier) NotifyAdmin(context.Context, *domain.ContactMessage) error { return nil }
func (NopNotifier) AutoReply(context.Context, *domain.ContactMessage) error   { return nil }

const statsWindow = 30 * 24 * time.Hour

type ContactService struct {
	repo     domain.ContactRepository
	users    domain.UserRepository
	notifier Notifier
	log      *zap.Logger
	strip    *bluemonday.Policy
	now      func() time.Time

	sendTimeout time.Duration
	wg          sync.WaitGroup
}

func NewContactService(repo domain.ContactRepository, users domain.UserRepository, n Notifier, l *zap.Logger) *ContactService {
	if n == nil {
		n = NopNotifier{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &ContactService{
		repo:        repo,
		users:       users,
		notifier:    n,
		log:         l,
		strip:       bluemonday.StrictPolicy(),
		now:         time.Now,
		sendTimeout: 30 * time.Second,
	}
}

type SubmitInput struct {
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	Category  string
	IPAddress string
	UserAgent string
}

func notFoundContact() error { return domain.NotFound("Contact message not found") }

// Submit stores the message with its spam verdict and, for non-spam only,
// schedules the notification emails. Mail never delays or fails the call.
func (s *ContactService) Submit(ctx context.Context, in SubmitInput) (*domain.ContactMessage, error) {
	m := &domain.ContactMessage{
		ID:        utils.NewID(),
		Name:      s.clean(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Subject:   s.clean(in.Subject),
		Message:   s.clean(in.Message),
		Status:    domain.ContactStatusNew,
		Priority:  domain.ContactPriorityNormal,
		Category:  in.Category,
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
		Notes:     []domain.ContactNote{},
	}
	if m.Category == "" {
		m.Category = domain.ContactCategoryGeneral
	}
	m.IsSpam = domain.IsSpam(in.Message)
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	if m.IsSpam {
		contactSubmissions.WithLabelValues("spam").Inc()
		s.log.Info("contact flagged as spam", zap.String("id", m.ID), zap.String("ip", m.IPAddress))
		return m, nil
	}
	contactSubmissions.WithLabelValues("accepted").Inc()
	snapshot := *m
	s.wg.Add(1)
	go s.notify(&snapshot)
	return m, nil
}

// clean strips markup but keeps the plain characters the sender typed.
func (s *ContactService) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.strip.Sanitize(v)))
}

func (s *ContactService) notify(m *domain.ContactMessage) {
	defer s.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
	defer cancel()

	if err := s.notifier.NotifyAdmin(ctx, m); err != nil {
		mailFailures.WithLabelValues("admin").Inc()
		s.log.Warn("contact admin notification failed", zap.String("id", m.ID), zap.Error(err))
	}
	if err := s.notifier.AutoReply(ctx, m); err != nil {
		mailFailures.WithLabelValues("autoreply").Inc()
		s.log.Warn("contact auto-reply failed", zap.String("id", m.ID), zap.Error(err))
	}
}

// Wait blocks until every scheduled notification has finished.
func (s *ContactService) Wait() { s.wg.Wait() }

// Close waits for pending notifications, giving up when ctx ends.
func (s *ContactService) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List defaults to non-spam messages unless the spam filter is given.
func (s *ContactService) List(ctx context.Context, f domain.ContactFilter) (domain.Page[domain.ContactMessage], error) {
	if f.Spam == nil {
		spam := false
		f.Spam = &spam
	}
	f.PageQuery = f.PageQuery.Normalize()
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return domain.Page[domain.ContactMessage]{}, err
	}
	return domain.Page[domain.ContactMessage]{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// Get returns the message; the first admin read moves it from new to read,
// stamps readAt and assigns it to that admin.
func (s *ContactService) Get(ctx context.Context, id, adminID string) (*domain.ContactMessage, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.ContactStatusNew {
		return m, nil
	}
	changed, err := s.repo.MarkRead(ctx, id, adminID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !changed {
		return m, nil
	}
	return s.find(ctx, id)
}

func (s *ContactService) find(ctx context.Context, id string) (*domain.ContactMessage, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFoundContact()
	}
	return m, nil
}

// UpdateStatus sets status and/or priority. Moving to read or replied
// stamps the matching timestamp the first time.
func (s *ContactService) UpdateStatus(ctx context.Context, id string, status, priority *string) (*domain.ContactMessage, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	cols := map[string]any{}
	now := s.now().UTC()
	if status != nil {
		cols["status"] = *status
		switch {
		case *status == domain.ContactStatusRead && m.ReadAt == nil:
			cols["read_at"] = now
		case *status == domain.ContactStatusReplied && m.RepliedAt == nil:
			cols["replied_at"] = now
		}
	}
	if priority != nil {
		cols["priority"] = *priority
	}
	if len(cols) > 0 {
		if _, err := s.repo.UpdateColumns(ctx, id, cols); err != nil {
			return nil, err
		}
	}
	return s.find(ctx, id)
}

func (s *ContactService) AddNote(ctx context.Context, id, adminID, note string) (*domain.ContactMessage, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, domain.Invalid("Note content is required")
	}
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	n := &domain.ContactNote{
		ID:        utils.NewID(),
		ContactID: id,
		Note:      note,
		AddedBy:   adminID,
		AddedAt:   s.now().UTC(),
	}
	if err := s.repo.AddNote(ctx, n); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// MarkSpam flags and archives the message in one update.
func (s *ContactService) MarkSpam(ctx context.Context, id string) (*domain.ContactMessage, error) {
	ok, err := s.repo.UpdateColumns(ctx, id, map[string]any{
		"is_spam": true,
		"status":  domain.ContactStatusArchived,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFoundContact()
	}
	return s.find(ctx, id)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFoundContact()
	}
	return nil
}

func (s *ContactService) Stats(ctx context.Context) (*domain.ContactStats, error) {
	return s.repo.Stats(ctx, s.now().UTC().Add(-statsWindow))
}

// UserRefs resolves assignee and note author ids in one query.
func (s *ContactService) UserRefs(ctx context.Context, ms ...domain.ContactMessage) (map[string]domain.UserRef, error) {
	seen := map[string]bool{}
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, m := range ms {
		add(m.AssignedTo)
		for _, n := range m.Notes {
			add(n.AddedBy)
		}
	}
	out := make(map[string]domain.UserRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = users[i].Ref()
	}
	return out, nil
}
