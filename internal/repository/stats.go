package repository

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/tenant"
)

// One pass over the owner's rows; COALESCE keeps every counter at zero
// instead of NULL when nothing matches.
const statsSelect = `COUNT(*) AS total_flags,
	COALESCE(SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END), 0) AS high_priority,
	COALESCE(SUM(CASE WHEN priority = 'medium' THEN 1 ELSE 0 END), 0) AS medium_priority,
	COALESCE(SUM(CASE WHEN priority = 'low' THEN 1 ELSE 0 END), 0) AS low_priority,
	COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_status,
	COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) AS approved_status,
	COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) AS rejected_status,
	COALESCE(SUM(CASE WHEN status = 'escalated' THEN 1 ELSE 0 END), 0) AS escalated_status`

func (r *GormFlagRepository) Stats(ctx context.Context, ownerID string) (*models.Stats, error) {
	var stats models.Stats
	err := r.db.WithContext(ctx).
		Model(&models.FlaggedItem{}).
		Scopes(tenant.ForOwner(ownerID)).
		Select(statsSelect).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &stats, nil
}
