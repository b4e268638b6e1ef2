package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"studio-site-api/internal/domain"
)

type TeamRepo struct{ db *gorm.DB }

func NewTeamRepo(db *gorm.DB) *TeamRepo { return &TeamRepo{db: db} }

func (r *TeamRepo) Create(ctx context.Context, m *domain.TeamMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *TeamRepo) FindByID(ctx context.Context, id string) (*domain.TeamMember, error) {
	var m domain.TeamMember
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &m, err
}

func (r *TeamRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.TeamMember, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.TeamMember
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (r *TeamRepo) List(ctx context.Context, f domain.TeamFilter) ([]domain.TeamMember, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.TeamMember{})
	if f.Role != "" {
		tx = tx.Where("role = ?", f.Role)
	}
	if f.Active != nil {
		tx = tx.Where("is_active = ?", *f.Active)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.TeamMember
	pq := f.PageQuery.Normalize()
	err := tx.Order(teamOrder(f.Sort)).Offset(pq.Offset()).Limit(pq.Limit).Find(&out).Error
	return out, total, err
}

func teamOrder(s domain.TeamSort) string {
	switch s {
	case domain.TeamSortName:
		return "name_en ASC, id ASC"
	case domain.TeamSortNewest:
		return "created_at DESC, id DESC"
	}
	return "sort_order ASC, created_at DESC, id ASC"
}

func (r *TeamRepo) Update(ctx context.Context, m *domain.TeamMember) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *TeamRepo) UpdateColumns(ctx context.Context, id string, cols map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.TeamMember{}).Where("id = ?", id).Updates(cols)
	return res.RowsAffected > 0, res.Error
}

func (r *TeamRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.TeamMember{})
	return res.RowsAffected > 0, res.Error
}

func (r *TeamRepo) Stats(ctx context.Context) (*domain.TeamStats, error) {
	var s domain.TeamStats
	if err := r.db.WithContext(ctx).Model(&domain.TeamMember{}).Count(&s.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.TeamMember{}).Where("is_active = ?", true).Count(&s.Active).Error; err != nil {
		return nil, err
	}
	s.Inactive = s.Total - s.Active

	var rows []countRow
	err := r.db.WithContext(ctx).Model(&domain.TeamMember{}).
		Select("role" + countSelect).
		Where("is_active = ?", true).
		Group("role").Order("cnt DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	s.Roles = countMap(rows)
	return &s, nil
}
