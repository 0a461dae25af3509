package repository

import (
	"moim/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *DefaultParticipantRepository {
	return &DefaultParticipantRepository{db: db}
}

func (p *DefaultParticipantRepository) FindByUserID(userID string) ([]*entity.Participant, error) {
	var parts []*entity.Participant
	err := p.db.Where("user_id = ?", userID).Find(&parts).Error
	return parts, err
}

func (p *DefaultParticipantRepository) FindByRoomID(roomID int64) ([]*entity.Participant, error) {
	var parts []*entity.Participant
	err := p.db.Where("room_id = ?", roomID).
		Order("created_at asc, id asc").
		Find(&parts).Error
	return parts, err
}

func (p *DefaultParticipantRepository) Exists(roomID int64, userID string) (bool, error) {
	var count int64
	err := p.db.Model(&entity.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

func (p *DefaultParticipantRepository) Create(part *entity.Participant) error {
	return p.db.Create(part).Error
}

// Remove deletes the participant row and applies the exit consequences the
// caller decided on (owner hand-off, closing an emptied room) atomically.
func (p *DefaultParticipantRepository) Remove(roomID int64, userID, newOwnerID string, close bool) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).
			Delete(&entity.Participant{}).Error
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if newOwnerID != "" {
			updates["owner_id"] = newOwnerID
		}
		if close {
			updates["status"] = entity.RoomStatusInactive
		}
		if len(updates) == 0 {
			return nil
		}

		return tx.Model(&entity.Room{}).
			Where("id = ?", roomID).
			Updates(updates).Error
	})
}
