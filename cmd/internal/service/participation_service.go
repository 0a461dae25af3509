package service

import (
	"errors"

	"moim/cmd/internal/domain/entity"
	"moim/cmd/internal/utils"
)

type ParticipantRepository interface {
	FindByUserID(userID string) ([]*entity.Participant, error)
	FindByRoomID(roomID int64) ([]*entity.Participant, error)
	Exists(roomID int64, userID string) (bool, error)
	Create(part *entity.Participant) error
	Remove(roomID int64, userID, newOwnerID string, close bool) error
}

var (
	ErrRoomFull       = errors.New("room is at capacity")
	ErrNotParticipant = errors.New("user is not a participant of the room")
)

// DefaultParticipationService owns room membership: who is in a room, who
// may join, and what happens to the room when someone leaves.
type DefaultParticipationService struct {
	PartRepo ParticipantRepository
	RoomRepo RoomRepository
}

func NewParticipationService(partRepo ParticipantRepository, roomRepo RoomRepository) *DefaultParticipationService {
	return &DefaultParticipationService{PartRepo: partRepo, RoomRepo: roomRepo}
}

// ActiveRooms resolves the user's participations to the rooms that are
// still active; closed rooms drop out silently.
func (p *DefaultParticipationService) ActiveRooms(userID string) ([]*entity.Room, error) {
	parts, err := p.PartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	rooms := make([]*entity.Room, 0, len(parts))
	for _, part := range parts {
		room, err := p.RoomRepo.FindByIDAndStatus(part.RoomID, entity.RoomStatusActive)
		if err != nil {
			return nil, err
		}
		if room != nil {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

// Join registers the user in the room. Joining a room you are already in is
// a no-op returning success. Returns ErrRoomFull once the room's capacity
// is reached.
func (p *DefaultParticipationService) Join(room *entity.Room, userID string) error {
	already, err := p.PartRepo.Exists(room.ID, userID)
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	parts, err := p.PartRepo.FindByRoomID(room.ID)
	if err != nil {
		return err
	}
	if room.Capacity > 0 && len(parts) >= room.Capacity {
		return ErrRoomFull
	}

	part := &entity.Participant{
		RoomID:    room.ID,
		UserID:    userID,
		CreatedAt: utils.NowUTC(),
	}
	return p.PartRepo.Create(part)
}

func (p *DefaultParticipationService) IsParticipant(room *entity.Room, userID string) (bool, error) {
	return p.PartRepo.Exists(room.ID, userID)
}

// Leave removes the user from the room. When the owner leaves, ownership
// passes to the earliest-joined remaining participant; when nobody remains,
// the room closes. All of it commits in one store transaction.
func (p *DefaultParticipationService) Leave(room *entity.Room, userID string) error {
	parts, err := p.PartRepo.FindByRoomID(room.ID)
	if err != nil {
		return err
	}

	member := false
	var remaining []*entity.Participant
	for _, part := range parts {
		if part.UserID == userID {
			member = true
			continue
		}
		remaining = append(remaining, part)
	}
	if !member {
		return ErrNotParticipant
	}

	newOwnerID := ""
	if room.OwnerID == userID && len(remaining) > 0 {
		// FindByRoomID orders by join time, so the head is the oldest.
		newOwnerID = remaining[0].UserID
	}
	close := len(remaining) == 0

	return p.PartRepo.Remove(room.ID, userID, newOwnerID, close)
}
