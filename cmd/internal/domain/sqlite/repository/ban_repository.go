package repository

import (
	"moim/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultBanRepository struct {
	db *gorm.DB
}

func NewBanRepository(db *gorm.DB) *DefaultBanRepository {
	return &DefaultBanRepository{db: db}
}

// FindBySrcID returns every ban the given user has issued.
func (b *DefaultBanRepository) FindBySrcID(userID string) ([]*entity.Ban, error) {
	var bans []*entity.Ban
	err := b.db.Where("src_id = ?", userID).Find(&bans).Error
	return bans, err
}

func (b *DefaultBanRepository) Create(ban *entity.Ban) error {
	return b.db.Create(ban).Error
}
