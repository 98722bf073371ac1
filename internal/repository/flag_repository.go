// Package repository persists flagged items. Every query is scoped to the
// owning principal; a row owned by someone else behaves exactly like a row
// that does not exist.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/tenant"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("flagged item not found")

type NewFlag struct {
	OwnerID     string
	ContentType models.ContentType
	Content     string
	Priority    models.Priority
	Summary     string
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Status   models.Status
	Priority models.Priority
}

type FlagRepository interface {
	Create(ctx context.Context, in NewFlag) (int64, error)
	Get(ctx context.Context, id int64, ownerID string) (*models.FlaggedItem, error)
	List(ctx context.Context, ownerID string, filter ListFilter) ([]models.FlaggedItem, error)
	UpdateStatus(ctx context.Context, id int64, ownerID string, status models.Status) (bool, error)
	Delete(ctx context.Context, id int64, ownerID string) (bool, error)
	Stats(ctx context.Context, ownerID string) (*models.Stats, error)
}

// GormFlagRepository works unchanged on every GORM dialector; placeholder
// syntax and id generation are the dialector's concern.
type GormFlagRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewFlagRepository(db *gorm.DB) *GormFlagRepository {
	return &GormFlagRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for created_at/updated_at.
func (r *GormFlagRepository) WithClock(now func() time.Time) *GormFlagRepository {
	r.now = now
	return r
}

func (r *GormFlagRepository) Create(ctx context.Context, in NewFlag) (int64, error) {
	now := r.now()
	item := models.FlaggedItem{
		OwnerID:     in.OwnerID,
		ContentType: in.ContentType,
		Content:     in.Content,
		Priority:    in.Priority,
		Status:      models.StatusPending,
		AISummary:   in.Summary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&item).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create flagged item: %w", err)
	}
	return item.ID, nil
}

func (r *GormFlagRepository) Get(ctx context.Context, id int64, ownerID string) (*models.FlaggedItem, error) {
	var item models.FlaggedItem
	err := r.db.WithContext(ctx).
		Scopes(tenant.ForOwner(ownerID)).
		Where("id = ?", id).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get flagged item %d: %w", id, err)
	}
	return &item, nil
}

// List returns the owner's items, most recent first. Items created at the
// same instant come back newest id first.
func (r *GormFlagRepository) List(ctx context.Context, ownerID string, filter ListFilter) ([]models.FlaggedItem, error) {
	query := r.db.WithContext(ctx).Scopes(tenant.ForOwner(ownerID))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	items := make([]models.FlaggedItem, 0)
	if err := query.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list flagged items: %w", err)
	}
	return items, nil
}

// UpdateStatus is a single conditional UPDATE. Writing the current status
// again still counts as an update and still refreshes updated_at.
func (r *GormFlagRepository) UpdateStatus(ctx context.Context, id int64, ownerID string, status models.Status) (bool, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.FlaggedItem{}).
			Scopes(tenant.ForOwner(ownerID)).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": r.now(),
			})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected > 1 {
			return fmt.Errorf("unexpected rows affected: %d", affected)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to update flagged item %d: %w", id, err)
	}
	return affected == 1, nil
}

func (r *GormFlagRepository) Delete(ctx context.Context, id int64, ownerID string) (bool, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(tenant.ForOwner(ownerID)).
			Where("id = ?", id).
			Delete(&models.FlaggedItem{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected > 1 {
			return fmt.Errorf("unexpected rows affected: %d", affected)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete flagged item %d: %w", id, err)
	}
	return affected == 1, nil
}
