package service

import (
	"errors"
	"testing"

	"moim/cmd/internal/domain/entity"
)

func seedRoom(store *memStore, ownerID string, capacity int) *entity.Room {
	store.nextRoomID++
	room := &entity.Room{
		ID:       store.nextRoomID,
		Title:    "seeded",
		Status:   entity.RoomStatusActive,
		Capacity: capacity,
		OwnerID:  ownerID,
	}
	store.rooms[room.ID] = room

	store.nextPartID++
	store.parts = append(store.parts, &entity.Participant{
		ID:     store.nextPartID,
		RoomID: room.ID,
		UserID: ownerID,
	})
	return room
}

func TestJoin(t *testing.T) {
	t.Run("duplicate join is a no-op", func(t *testing.T) {
		store := newMemStore()
		store.addUser("alice")
		room := seedRoom(store, "alice", 4)
		svc := NewParticipationService(memParts{store}, memRooms{store})

		if err := svc.Join(room, "alice"); err != nil {
			t.Fatalf("Join: %v", err)
		}
		if len(store.parts) != 1 {
			t.Errorf("participants = %d, want 1", len(store.parts))
		}
	})

	t.Run("full room rejects with the sentinel", func(t *testing.T) {
		store := newMemStore()
		store.addUser("alice")
		store.addUser("bob")
		room := seedRoom(store, "alice", 1)
		svc := NewParticipationService(memParts{store}, memRooms{store})

		if err := svc.Join(room, "bob"); !errors.Is(err, ErrRoomFull) {
			t.Errorf("Join = %v, want ErrRoomFull", err)
		}
	})

	t.Run("zero capacity means unlimited", func(t *testing.T) {
		store := newMemStore()
		store.addUser("alice")
		store.addUser("bob")
		room := seedRoom(store, "alice", 0)
		svc := NewParticipationService(memParts{store}, memRooms{store})

		if err := svc.Join(room, "bob"); err != nil {
			t.Errorf("Join: %v", err)
		}
	})
}

func TestLeave(t *testing.T) {
	t.Run("non-member leave rejects with the sentinel", func(t *testing.T) {
		store := newMemStore()
		store.addUser("alice")
		room := seedRoom(store, "alice", 4)
		svc := NewParticipationService(memParts{store}, memRooms{store})

		if err := svc.Leave(room, "bob"); !errors.Is(err, ErrNotParticipant) {
			t.Errorf("Leave = %v, want ErrNotParticipant", err)
		}
	})
}

func TestActiveRooms(t *testing.T) {
	store := newMemStore()
	store.addUser("alice")
	active := seedRoom(store, "alice", 4)
	closed := seedRoom(store, "alice", 4)
	closed.Status = entity.RoomStatusInactive
	svc := NewParticipationService(memParts{store}, memRooms{store})

	rooms, err := svc.ActiveRooms("alice")
	if err != nil {
		t.Fatalf("ActiveRooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != active.ID {
		t.Errorf("ActiveRooms = %+v, want only the active room", rooms)
	}
}
