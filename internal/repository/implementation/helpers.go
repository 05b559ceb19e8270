package implementation

import (
	"errors"

	"ticket-marketplace-be/internal/repository/specification"

	"gorm.io/gorm"
)

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// first loads one row into dest. A missing row is (false, nil).
func first(db *gorm.DB, dest interface{}, specs ...specification.Specification) (bool, error) {
	if err := applySpecifications(db, specs...).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func count(db *gorm.DB, model interface{}, specs ...specification.Specification) (int64, error) {
	var n int64
	if err := applySpecifications(db.Model(model), specs...).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
