package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"studio-site-api/internal/domain"
)

type ContactRepo struct{ db *gorm.DB }

func NewContactRepo(db *gorm.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Create(ctx context.Context, m *domain.ContactMessage) error {
	return r.db.WithContext(ctx).Omit("Notes").Create(m).Error
}

func (r *ContactRepo) FindByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	var m domain.ContactMessage
	err := r.db.WithContext(ctx).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("added_at ASC, id ASC") }).
		First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if m.Notes == nil {
		m.Notes = []domain.ContactNote{}
	}
	return &m, nil
}

func (r *ContactRepo) List(ctx context.Context, f domain.ContactFilter) ([]domain.ContactMessage, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.ContactMessage{})
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.Priority != "" {
		tx = tx.Where("priority = ?", f.Priority)
	}
	if f.Spam != nil {
		tx = tx.Where("is_spam = ?", *f.Spam)
	}
	if f.Search != "" {
		tx = tx.Where(searchClause("name", "email", "subject", "message"),
			map[string]any{"q": likePattern(f.Search)})
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.ContactMessage
	pq := f.PageQuery.Normalize()
	err := tx.Order(contactOrder(f.Sort)).Offset(pq.Offset()).Limit(pq.Limit).Find(&out).Error
	return out, total, err
}

func contactOrder(s domain.ContactSort) string {
	switch s {
	case domain.ContactSortOldest:
		return "created_at ASC, id ASC"
	case domain.ContactSortPriority:
		return "CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'normal' THEN 2 ELSE 3 END ASC, created_at DESC, id DESC"
	}
	return "created_at DESC, id DESC"
}

func (r *ContactRepo) UpdateColumns(ctx context.Context, id string, cols map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.ContactMessage{}).Where("id = ?", id).Updates(cols)
	return res.RowsAffected > 0, res.Error
}

// MarkRead is a conditional update: of two concurrent first reads exactly one wins.
func (r *ContactRepo) MarkRead(ctx context.Context, id, adminID string, at time.Time) (bool, error) {
	cols := map[string]any{"status": domain.ContactStatusRead, "read_at": at}
	if adminID != "" {
		cols["assigned_to"] = adminID
	}
	res := r.db.WithContext(ctx).Model(&domain.ContactMessage{}).
		Where("id = ? AND status = ?", id, domain.ContactStatusNew).
		Updates(cols)
	return res.RowsAffected > 0, res.Error
}

func (r *ContactRepo) AddNote(ctx context.Context, n *domain.ContactNote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return err
		}
		return tx.Model(&domain.ContactMessage{}).Where("id = ?", n.ContactID).
			Update("updated_at", n.AddedAt).Error
	})
}

func (r *ContactRepo) Delete(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contact_id = ?", id).Delete(&domain.ContactNote{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.ContactMessage{})
		found = res.RowsAffected > 0
		return res.Error
	})
	return found, err
}

// Stats counts non-spam messages except for the spam total. Daily buckets
// are UTC calendar days for messages created at or after since.
func (r *ContactRepo) Stats(ctx context.Context, since time.Time) (*domain.ContactStats, error) {
	db := r.db.WithContext(ctx)
	ham := func() *gorm.DB { return db.Model(&domain.ContactMessage{}).Where("is_spam = ?", false) }

	var s domain.ContactStats
	if err := ham().Count(&s.Total).Error; err != nil {
		return nil, err
	}
	for status, dst := range map[string]*int64{
		domain.ContactStatusNew:     &s.New,
		domain.ContactStatusRead:    &s.Read,
		domain.ContactStatusReplied: &s.Replied,
	} {
		if err := ham().Where("status = ?", status).Count(dst).Error; err != nil {
			return nil, err
		}
	}
	if err := db.Model(&domain.ContactMessage{}).Where("is_spam = ?", true).Count(&s.Spam).Error; err != nil {
		return nil, err
	}

	var cats, prios []countRow
	if err := ham().Select("category" + countSelect).Group("category").Order("cnt DESC").Scan(&cats).Error; err != nil {
		return nil, err
	}
	if err := ham().Select("priority" + countSelect).Group("priority").Order("cnt DESC").Scan(&prios).Error; err != nil {
		return nil, err
	}
	s.Categories = countMap(cats)
	s.Priorities = countMap(prios)

	var stamps []time.Time
	if err := ham().Where("created_at >= ?", since).Pluck("created_at", &stamps).Error; err != nil {
		return nil, err
	}
	s.DailyStats = make(map[string]int64)
	for _, ts := range stamps {
		s.DailyStats[ts.UTC().Format(time.DateOnly)]++
	}
	return &s, nil
}
