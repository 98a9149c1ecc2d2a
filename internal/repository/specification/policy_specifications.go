package specification

import "gorm.io/gorm"

type ActivePolicies struct{}

func (s ActivePolicies) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
