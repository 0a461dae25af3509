package service

import (
	"errors"
	"sort"
	"strings"

	"moim/cmd/internal/domain/entity"
)

// memStore is an in-memory stand-in for the sqlite repositories. The
// adapter types below expose it through the same interfaces the services
// consume, so the booking logic runs unchanged against it.
type memStore struct {
	users      map[string]*entity.User
	rooms      map[int64]*entity.Room
	roomMenus  map[int64][]string
	parts      []*entity.Participant
	bans       []*entity.Ban
	nextRoomID int64
	nextPartID int64

	failing      bool
	failingSaves bool
}

var errStoreDown = errors.New("store is down")

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]*entity.User{},
		rooms:     map[int64]*entity.Room{},
		roomMenus: map[int64][]string{},
	}
}

func (m *memStore) addUser(id string) *entity.User {
	user := &entity.User{ID: id, Username: id, Email: id + "@example.com"}
	m.users[id] = user
	return user
}

// materialize returns a copy of the room with its relations filled the way
// the gorm repository preloads them.
func (m *memStore) materialize(room *entity.Room) *entity.Room {
	out := *room
	if owner, ok := m.users[room.OwnerID]; ok {
		out.Owner = *owner
	}

	out.RoomMenus = nil
	for _, name := range m.roomMenus[room.ID] {
		out.RoomMenus = append(out.RoomMenus, entity.RoomMenu{
			RoomID: room.ID,
			Menu:   entity.Menu{Name: name},
		})
	}

	out.Participants = nil
	for _, part := range m.parts {
		if part.RoomID != room.ID {
			continue
		}
		p := *part
		if user, ok := m.users[part.UserID]; ok {
			p.User = *user
		}
		out.Participants = append(out.Participants, p)
	}
	return &out
}

type memRooms struct{ s *memStore }

func (m memRooms) FindByID(id int64) (*entity.Room, error) {
	if m.s.failing {
		return nil, errStoreDown
	}
	room, ok := m.s.rooms[id]
	if !ok {
		return nil, nil
	}
	return m.s.materialize(room), nil
}

func (m memRooms) FindByIDAndStatus(id int64, status entity.RoomStatus) (*entity.Room, error) {
	if m.s.failing {
		return nil, errStoreDown
	}
	room, ok := m.s.rooms[id]
	if !ok || room.Status != status {
		return nil, nil
	}
	return m.s.materialize(room), nil
}

func (m memRooms) Create(room *entity.Room, menuNames []string) error {
	if m.s.failing {
		return errStoreDown
	}

	m.s.nextRoomID++
	room.ID = m.s.nextRoomID
	stored := *room
	m.s.rooms[room.ID] = &stored
	m.s.roomMenus[room.ID] = append([]string(nil), menuNames...)

	m.s.nextPartID++
	m.s.parts = append(m.s.parts, &entity.Participant{
		ID:     m.s.nextPartID,
		RoomID: room.ID,
		UserID: room.OwnerID,
	})
	return nil
}

func (m memRooms) SearchWithoutTime(location, keyword string, menuNames []string, offset, limit int) ([]*entity.Room, error) {
	return m.search(location, keyword, menuNames, 0, 0, false, offset, limit)
}

func (m memRooms) SearchWithTime(location, keyword string, menuNames []string, start, end int64, offset, limit int) ([]*entity.Room, error) {
	return m.search(location, keyword, menuNames, start, end, true, offset, limit)
}

func (m memRooms) search(location, keyword string, menuNames []string, start, end int64, bounded bool, offset, limit int) ([]*entity.Room, error) {
	if m.s.failing {
		return nil, errStoreDown
	}

	menuSet := map[string]struct{}{}
	for _, name := range menuNames {
		menuSet[name] = struct{}{}
	}

	var hits []*entity.Room
	for _, room := range m.s.rooms {
		if room.Status != entity.RoomStatusActive {
			continue
		}
		if location != "%" && room.Location != location {
			continue
		}
		kw := strings.Trim(keyword, "%")
		if kw != "" && !strings.Contains(room.Title, kw) {
			continue
		}
		if bounded && (room.MeetTime < start || room.MeetTime > end) {
			continue
		}

		served := false
		for _, name := range m.s.roomMenus[room.ID] {
			if _, ok := menuSet[name]; ok {
				served = true
				break
			}
		}
		if !served {
			continue
		}
		hits = append(hits, m.s.materialize(room))
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].MeetTime != hits[j].MeetTime {
			return hits[i].MeetTime < hits[j].MeetTime
		}
		return hits[i].ID < hits[j].ID
	})

	if offset >= len(hits) {
		return nil, nil
	}
	hits = hits[offset:]
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

type memParts struct{ s *memStore }

func (m memParts) FindByUserID(userID string) ([]*entity.Participant, error) {
	if m.s.failing {
		return nil, errStoreDown
	}
	var out []*entity.Participant
	for _, part := range m.s.parts {
		if part.UserID == userID {
			out = append(out, part)
		}
	}
	return out, nil
}

func (m memParts) FindByRoomID(roomID int64) ([]*entity.Participant, error) {
	if m.s.failing {
		return nil, errStoreDown
	}
	var out []*entity.Participant
	for _, part := range m.s.parts {
		if part.RoomID == roomID {
			out = append(out, part)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memParts) Exists(roomID int64, userID string) (bool, error) {
	if m.s.failing {
		return false, errStoreDown
	}
	for _, part := range m.s.parts {
		if part.RoomID == roomID && part.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m memParts) Create(part *entity.Participant) error {
	if m.s.failing {
		return errStoreDown
	}
	m.s.nextPartID++
	part.ID = m.s.nextPartID
	m.s.parts = append(m.s.parts, part)
	return nil
}

func (m memParts) Remove(roomID int64, userID, newOwnerID string, close bool) error {
	if m.s.failing {
		return errStoreDown
	}

	kept := m.s.parts[:0]
	for _, part := range m.s.parts {
		if part.RoomID == roomID && part.UserID == userID {
			continue
		}
		kept = append(kept, part)
	}
	m.s.parts = kept

	room, ok := m.s.rooms[roomID]
	if !ok {
		return nil
	}
	if newOwnerID != "" {
		room.OwnerID = newOwnerID
	}
	if close {
		room.Status = entity.RoomStatusInactive
	}
	return nil
}

type memUsers struct{ s *memStore }

func (m memUsers) FindByID(id string) (*entity.User, error) {
	if m.s.failing {
		return nil, errStoreDown
	}
	return m.s.users[id], nil
}

func (m memUsers) FindByEmail(email string) (*entity.User, error) {
	if m.s.failing {
		return nil, errStoreDown
	}
	for _, user := range m.s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (m memUsers) ExistsByEmail(email string) (bool, error) {
	user, err := m.FindByEmail(email)
	return user != nil, err
}

func (m memUsers) FindAll() ([]*entity.User, error) {
	if m.s.failing {
		return nil, errStoreDown
	}
	var out []*entity.User
	for _, user := range m.s.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memUsers) Save(user *entity.User) error {
	if m.s.failing || m.s.failingSaves {
		return errStoreDown
	}
	m.s.users[user.ID] = user
	return nil
}

type memBans struct{ s *memStore }

func (m memBans) FindBySrcID(userID string) ([]*entity.Ban, error) {
	if m.s.failing {
		return nil, errStoreDown
	}
	var out []*entity.Ban
	for _, ban := range m.s.bans {
		if ban.SrcID == userID {
			out = append(out, ban)
		}
	}
	return out, nil
}

func (m memBans) Create(ban *entity.Ban) error {
	if m.s.failing {
		return errStoreDown
	}
	m.s.bans = append(m.s.bans, ban)
	return nil
}
