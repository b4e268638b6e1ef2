package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"studio-site-api/internal/domain"
)

type ProjectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) *ProjectRepo { return &ProjectRepo{db: db} }

func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if isDupKey(err) {
		return domain.Conflict("A project with this title already exists")
	}
	return err
}

func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *ProjectRepo) first(ctx context.Context, cond string, arg any) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).First(&p, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProjectRepo) SlugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Project{}).Where("slug = ?", slug)
	if exceptID != "" {
		tx = tx.Where("id <> ?", exceptID)
	}
	var n int64
	err := tx.Count(&n).Error
	return n > 0, err
}

func (r *ProjectRepo) List(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Project{})
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.Featured != nil {
		tx = tx.Where("featured = ?", *f.Featured)
	}
	if f.Public != nil {
		tx = tx.Where("is_public = ?", *f.Public)
	}
	if f.Search != "" {
		tx = tx.Where(searchClause("title_en", "title_ar", "description_en", "description_ar", "technologies"),
			map[string]any{"q": likePattern(f.Search)})
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Project
	pq := f.PageQuery.Normalize()
	err := tx.Order(projectOrder(f.Sort)).Offset(pq.Offset()).Limit(pq.Limit).Find(&out).Error
	return out, total, err
}

func projectOrder(s domain.ProjectSort) string {
	switch s {
	case domain.ProjectSortNewest:
		return "created_at DESC, id DESC"
	case domain.ProjectSortOldest:
		return "created_at ASC, id ASC"
	case domain.ProjectSortViews:
		return "stats_views DESC, id ASC"
	}
	return "sort_order ASC, created_at DESC, id ASC"
}

func (r *ProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	err := r.db.WithContext(ctx).Save(p).Error
	if isDupKey(err) {
		return domain.Conflict("A project with this title already exists")
	}
	return err
}

func (r *ProjectRepo) UpdateColumns(ctx context.Context, id string, cols map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Project{}).Where("id = ?", id).Updates(cols)
	return res.RowsAffected > 0, res.Error
}

// IncrementViews is a single atomic UPDATE so concurrent reads never lose a count.
func (r *ProjectRepo) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.Project{}).Where("id = ?", id).
		UpdateColumn("stats_views", gorm.Expr("stats_views + ?", 1)).Error
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Project{})
	return res.RowsAffected > 0, res.Error
}

func (r *ProjectRepo) Stats(ctx context.Context) (*domain.ProjectStatsSummary, error) {
	db := r.db.WithContext(ctx)
	model := func() *gorm.DB { return db.Model(&domain.Project{}) }

	var s domain.ProjectStatsSummary
	if err := model().Count(&s.Total).Error; err != nil {
		return nil, err
	}
	if err := model().Where("is_public = ?", true).Count(&s.Public).Error; err != nil {
		return nil, err
	}
	if err := model().Where("is_public = ? AND featured = ?", true, true).Count(&s.Featured).Error; err != nil {
		return nil, err
	}
	s.Hidden = s.Total - s.Public

	var views struct{ Total int64 }
	if err := model().Select("COALESCE(SUM(stats_views), 0) AS total").Where("is_public = ?", true).Scan(&views).Error; err != nil {
		return nil, err
	}
	s.TotalViews = views.Total

	var cats, statuses []countRow
	if err := model().Select("category"+countSelect).Where("is_public = ?", true).
		Group("category").Order("cnt DESC").Scan(&cats).Error; err != nil {
		return nil, err
	}
	if err := model().Select("status" + countSelect).Group("status").Order("cnt DESC").Scan(&statuses).Error; err != nil {
		return nil, err
	}
	s.Categories = countMap(cats)
	s.Statuses = countMap(statuses)
	return &s, nil
}
