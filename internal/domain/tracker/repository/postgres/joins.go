package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/getaipilot/joincounter/internal/domain/tracker/deps"
	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
)

type joinRepository struct {
	db *gorm.DB
}

// NewJoinRepository creates a new join record repository
func NewJoinRepository(db *gorm.DB) deps.JoinRepository {
	return &joinRepository{db: db}
}

// ReplaceForLink clears the join set for one link and inserts the
// replacement rows in a single transaction. Repeated calls with the same
// upstream set leave identical content.
func (r *joinRepository) ReplaceForLink(ctx context.Context, userID, linkID int64, rows []entities.JoinRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND invite_link_id = ?", userID, linkID).
			Delete(&entities.JoinRecord{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// CountForLink counts join rows within the inclusive [since, until] window
func (r *joinRepository) CountForLink(ctx context.Context, userID, linkID int64, since, until *time.Time) (int64, error) {
	var total int64
	err := r.windowQuery(ctx, userID, linkID, since, until).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// PageForLink fetches one page of join rows, newest first
func (r *joinRepository) PageForLink(ctx context.Context, userID, linkID int64, since, until *time.Time, offset, limit int) ([]entities.JoinRecord, error) {
	var rows []entities.JoinRecord
	err := r.windowQuery(ctx, userID, linkID, since, until).
		Order("joined_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// windowQuery builds the base query; both window bounds are inclusive.
func (r *joinRepository) windowQuery(ctx context.Context, userID, linkID int64, since, until *time.Time) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&entities.JoinRecord{}).
		Where("user_id = ? AND invite_link_id = ?", userID, linkID)
	if since != nil {
		q = q.Where("joined_at >= ?", *since)
	}
	if until != nil {
		q = q.Where("joined_at <= ?", *until)
	}
	return q
}
