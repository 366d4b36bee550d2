package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/getaipilot/joincounter/internal/domain/tracker/deps"
	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
	trackererrors "github.com/getaipilot/joincounter/internal/domain/tracker/errors"
)

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates a new invite link repository
func NewLinkRepository(db *gorm.DB) deps.LinkRepository {
	return &linkRepository{db: db}
}

// Save upserts an invite link keyed by (user_id, chat_id, invite_link)
func (r *linkRepository) Save(ctx context.Context, link *entities.InviteLink) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "chat_id"}, {Name: "invite_link"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"chat_title", "access_hash", "chat_type", "is_active",
			}),
		}).
		Create(link).Error
}

// ListActive returns the user's active links, newest first
func (r *linkRepository) ListActive(ctx context.Context, userID int64) ([]entities.InviteLink, error) {
	var links []entities.InviteLink
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// Get retrieves one link owned by the user
func (r *linkRepository) Get(ctx context.Context, userID, linkID int64) (*entities.InviteLink, error) {
	var link entities.InviteLink
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, linkID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trackererrors.ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

// DeleteWithJoins removes the links and all join rows referencing them.
// The join rows must never outlive their link, so both deletes run in
// one transaction.
func (r *linkRepository) DeleteWithJoins(ctx context.Context, userID int64, linkIDs []int64) error {
	if len(linkIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND invite_link_id IN ?", userID, linkIDs).
			Delete(&entities.JoinRecord{}).Error; err != nil {
			return err
		}
		return tx.
			Where("user_id = ? AND id IN ?", userID, linkIDs).
			Delete(&entities.InviteLink{}).Error
	})
}
