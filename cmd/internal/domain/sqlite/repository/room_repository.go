package repository

import (
	"errors"

	"moim/cmd/internal/domain/entity"
	"moim/cmd/internal/utils"

	"gorm.io/gorm"
)

type DefaultRoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *DefaultRoomRepository {
	return &DefaultRoomRepository{db: db}
}

func (r *DefaultRoomRepository) FindByID(id int64) (*entity.Room, error) {
	var room entity.Room
	err := r.withRelations().First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *DefaultRoomRepository) FindByIDAndStatus(id int64, status entity.RoomStatus) (*entity.Room, error) {
	var room entity.Room
	err := r.withRelations().
		Where("rooms.status = ?", status).
		First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Create persists the room, its menu links and the owner's participant row
// in one transaction, so a half-created room can never be observed.
func (r *DefaultRoomRepository) Create(room *entity.Room, menuNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}

		for _, name := range menuNames {
			var menu entity.Menu
			if err := tx.Where("name = ?", name).First(&menu).Error; err != nil {
				return err
			}
			link := entity.RoomMenu{RoomID: room.ID, MenuID: menu.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		owner := entity.Participant{
			RoomID:    room.ID,
			UserID:    room.OwnerID,
			CreatedAt: utils.NowUTC(),
		}
		return tx.Create(&owner).Error
	})
}

func (r *DefaultRoomRepository) Save(room *entity.Room) error {
	return r.db.Save(room).Error
}

// SearchWithoutTime is the unbounded-window query variant: active rooms
// matching the location and keyword LIKE patterns and serving at least one
// of the given menus, ordered by meet time for stable pagination.
func (r *DefaultRoomRepository) SearchWithoutTime(location, keyword string, menuNames []string, offset, limit int) ([]*entity.Room, error) {
	var rooms []*entity.Room
	err := r.searchBase(location, keyword, menuNames).
		Offset(offset).Limit(limit).
		Find(&rooms).Error
	return rooms, err
}

// SearchWithTime additionally bounds the meet time to [start, end].
func (r *DefaultRoomRepository) SearchWithTime(location, keyword string, menuNames []string, start, end int64, offset, limit int) ([]*entity.Room, error) {
	var rooms []*entity.Room
	err := r.searchBase(location, keyword, menuNames).
		Where("rooms.meet_time BETWEEN ? AND ?", start, end).
		Offset(offset).Limit(limit).
		Find(&rooms).Error
	return rooms, err
}

func (r *DefaultRoomRepository) searchBase(location, keyword string, menuNames []string) *gorm.DB {
	return r.withRelations().
		Distinct("rooms.*").
		Joins("JOIN room_menus ON room_menus.room_id = rooms.id").
		Joins("JOIN menus ON menus.id = room_menus.menu_id").
		Where("rooms.status = ?", entity.RoomStatusActive).
		Where("rooms.location LIKE ?", location).
		Where("rooms.title LIKE ?", keyword).
		Where("menus.name IN ?", menuNames).
		Order("rooms.meet_time asc, rooms.id asc")
}

func (r *DefaultRoomRepository) withRelations() *gorm.DB {
	return r.db.Model(&entity.Room{}).
		Preload("Owner").
		Preload("RoomMenus.Menu").
		Preload("Participants.User")
}
