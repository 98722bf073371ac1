package tenant

import "gorm.io/gorm"

// ForOwner returns a GORM scope that filters by owner_id. Every read and
// write of flagged items goes through it.
func ForOwner(ownerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}
