package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"moim/cmd/internal/domain/entity"
	"moim/cmd/internal/utils"
	"moim/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type RoomRepository interface {
	FindByID(id int64) (*entity.Room, error)
	FindByIDAndStatus(id int64, status entity.RoomStatus) (*entity.Room, error)
	Create(room *entity.Room, menuNames []string) error
	SearchWithoutTime(location, keyword string, menuNames []string, offset, limit int) ([]*entity.Room, error)
	SearchWithTime(location, keyword string, menuNames []string, start, end int64, offset, limit int) ([]*entity.Room, error)
}

type BanRepository interface {
	FindBySrcID(userID string) ([]*entity.Ban, error)
	Create(ban *entity.Ban) error
}

type ParticipationManager interface {
	ActiveRooms(userID string) ([]*entity.Room, error)
	Join(room *entity.Room, userID string) error
	IsParticipant(room *entity.Room, userID string) (bool, error)
	Leave(room *entity.Room, userID string) error
}

type RoomRequest struct {
	Title    string   `json:"title" validate:"required,max=128"`
	MeetTime string   `json:"meet_time" validate:"required"`
	Location string   `json:"location" validate:"required"`
	Menus    []string `json:"menus" validate:"required,min=1,max=6,nodupes"`
	Status   string   `json:"status"`
	Capacity int      `json:"capacity" validate:"min=0,max=64"`
}

type RoomResponse struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	MeetTime     string          `json:"meet_time"`
	Location     string          `json:"location"`
	Status       string          `json:"status"`
	Capacity     int             `json:"capacity"`
	Owner        *UserResponse   `json:"owner"`
	Menus        []string        `json:"menus"`
	Participants []*UserResponse `json:"participants"`
	CreatedAt    string          `json:"created_at"`
}

const defaultPageSize = 10

type DefaultRoomService struct {
	RoomRepo        RoomRepository
	UserRepo        UserRepository
	BanRepo         BanRepository
	Parts           ParticipationManager
	Validate        *validator.Validate
	DefaultCapacity int
}

func NewRoomService(roomRepo RoomRepository, userRepo UserRepository, banRepo BanRepository,
	parts ParticipationManager, validate *validator.Validate, defaultCapacity int) *DefaultRoomService {
	return &DefaultRoomService{
		RoomRepo:        roomRepo,
		UserRepo:        userRepo,
		BanRepo:         banRepo,
		Parts:           parts,
		Validate:        validate,
		DefaultCapacity: defaultCapacity,
	}
}

// CreateRoom validates the raw request, checks the owner's schedule for
// conflicts and persists the room together with its menu links and the
// owner's own participation.
func (r *DefaultRoomService) CreateRoom(req *RoomRequest, userID string) (*RoomResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := r.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	meetTime, err := utils.ParseMeetTime(req.MeetTime)
	if err != nil {
		return nil, apierror.InvalidTimeError
	}

	user, err := r.UserRepo.FindByID(userID)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", userID, err)
		return nil, apierror.StoreUnavailableError
	}
	if user == nil {
		return nil, apierror.UnknownUserError
	}

	location := req.Location
	if location != utils.TimeDefault {
		canon, ok := entity.CanonicalLocation(location)
		if !ok {
			return nil, apierror.InvalidEnumError
		}
		location = canon
	}

	menus := make([]string, 0, len(req.Menus))
	for _, name := range req.Menus {
		canon, ok := entity.CanonicalMenuName(name)
		if !ok {
			return nil, apierror.InvalidEnumError
		}
		menus = append(menus, canon)
	}

	status := entity.RoomStatusActive
	if req.Status != "" {
		s, ok := entity.CanonicalStatus(req.Status)
		if !ok {
			return nil, apierror.InvalidEnumError
		}
		status = s
	}

	if apierr := r.checkConflicts(userID, meetTime, 0); apierr != nil {
		return nil, apierr
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = r.DefaultCapacity
	}

	now := utils.NowUTC()
	room := &entity.Room{
		Title:     req.Title,
		MeetTime:  meetTime,
		Location:  location,
		Status:    status,
		Capacity:  capacity,
		OwnerID:   userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.RoomRepo.Create(room, menus); err != nil {
		log.Errorf("failed to create room for user %s: %v", userID, err)
		return nil, apierror.StoreUnavailableError
	}

	created, err := r.RoomRepo.FindByID(room.ID)
	if err != nil || created == nil {
		log.Errorf("failed to reload created room %d: %v", room.ID, err)
		return nil, apierror.StoreUnavailableError
	}
	return toRoomResponse(created), nil
}

// SearchMyRooms lists the caller's active rooms. No participations is a
// valid outcome and yields an empty list, never an error.
func (r *DefaultRoomService) SearchMyRooms(userID string) ([]*RoomResponse, apierror.ErrorResponse) {
	rooms, err := r.Parts.ActiveRooms(userID)
	if err != nil {
		log.Errorf("failed to fetch rooms of user %s: %v", userID, err)
		return nil, apierror.StoreUnavailableError
	}

	resp := make([]*RoomResponse, len(rooms))
	for i, room := range rooms {
		resp[i] = toRoomResponse(room)
	}
	return resp, nil
}

// SearchRooms composes a filtered, paginated room listing. The literal
// "default" lifts the corresponding filter; rooms containing a participant
// the caller has banned are dropped after the store query.
func (r *DefaultRoomService) SearchRooms(userID, location, menu, startTime, endTime, keyword string,
	page, size int) ([]*RoomResponse, apierror.ErrorResponse) {
	if apierr := r.ParamsCheck(location, menu, startTime, endTime); apierr != nil {
		return nil, apierr
	}

	locPattern := "%"
	if location != utils.TimeDefault {
		locPattern, _ = entity.CanonicalLocation(location)
	}

	keywordPattern := "%"
	if keyword != utils.TimeDefault {
		keywordPattern = "%" + keyword + "%"
	}

	menuNames := expandMenus(menu)

	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	offset := (page - 1) * size

	var rooms []*entity.Room
	var err error
	if startTime == utils.TimeDefault || endTime == utils.TimeDefault {
		rooms, err = r.RoomRepo.SearchWithoutTime(locPattern, keywordPattern, menuNames, offset, size)
	} else {
		start, _ := utils.ParseMeetTime(startTime)
		end, _ := utils.ParseMeetTime(endTime)
		rooms, err = r.RoomRepo.SearchWithTime(locPattern, keywordPattern, menuNames, start, end, offset, size)
	}
	if err != nil {
		log.Errorf("room search failed for user %s: %v", userID, err)
		return nil, apierror.StoreUnavailableError
	}

	banned, apierr := r.bannedSet(userID)
	if apierr != nil {
		return nil, apierr
	}

	resp := make([]*RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		if containsBannedUser(room, banned) {
			continue
		}
		resp = append(resp, toRoomResponse(room))
	}
	return resp, nil
}

// EnterRoom joins the caller into an existing active room, provided the
// room's time does not collide with any of their other commitments and the
// room still has a seat. Entering a room you are already in succeeds.
func (r *DefaultRoomService) EnterRoom(userID, rawRoomID string) (int64, apierror.ErrorResponse) {
	roomID, apierr := parseRoomID(rawRoomID)
	if apierr != nil {
		return 0, apierr
	}

	room, err := r.RoomRepo.FindByID(roomID)
	if err != nil {
		log.Errorf("failed to fetch room %d: %v", roomID, err)
		return 0, apierror.StoreUnavailableError
	}
	if room == nil {
		return 0, apierror.UnknownRoomError
	}
	if room.Status != entity.RoomStatusActive {
		return 0, apierror.RoomNotActiveError
	}

	already, err := r.Parts.IsParticipant(room, userID)
	if err != nil {
		log.Errorf("failed to check membership of user %s in room %d: %v", userID, roomID, err)
		return 0, apierror.StoreUnavailableError
	}
	if already {
		return roomID, nil
	}

	if apierr := r.checkConflicts(userID, room.MeetTime, room.ID); apierr != nil {
		return 0, apierr
	}

	if err := r.Parts.Join(room, userID); err != nil {
		if errors.Is(err, ErrRoomFull) {
			return 0, apierror.RoomFullError
		}
		log.Errorf("failed to join user %s to room %d: %v", userID, roomID, err)
		return 0, apierror.StoreUnavailableError
	}
	return roomID, nil
}

// ExitRoom removes the caller from a room they participate in; the
// participation manager handles owner hand-off and closing emptied rooms.
func (r *DefaultRoomService) ExitRoom(userID, rawRoomID string) (int64, apierror.ErrorResponse) {
	roomID, apierr := parseRoomID(rawRoomID)
	if apierr != nil {
		return 0, apierr
	}

	room, err := r.RoomRepo.FindByID(roomID)
	if err != nil {
		log.Errorf("failed to fetch room %d: %v", roomID, err)
		return 0, apierror.StoreUnavailableError
	}
	if room == nil {
		return 0, apierror.UnknownRoomError
	}

	if err := r.Parts.Leave(room, userID); err != nil {
		if errors.Is(err, ErrNotParticipant) {
			return 0, apierror.NotParticipantError
		}
		log.Errorf("failed to remove user %s from room %d: %v", userID, roomID, err)
		return 0, apierror.StoreUnavailableError
	}
	return roomID, nil
}

// ParamsCheck validates raw search parameters without touching the store.
func (r *DefaultRoomService) ParamsCheck(location, menu, startTime, endTime string) apierror.ErrorResponse {
	if location != utils.TimeDefault {
		if _, ok := entity.CanonicalLocation(location); !ok {
			return apierror.InvalidEnumError
		}
	}

	if menu != utils.TimeDefault {
		for _, name := range strings.Split(menu, ",") {
			if _, ok := entity.CanonicalMenuName(strings.TrimSpace(name)); !ok {
				return apierror.InvalidEnumError
			}
		}
	}

	if _, err := utils.ParseMeetTime(startTime); err != nil {
		return apierror.InvalidTimeError
	}
	if _, err := utils.ParseMeetTime(endTime); err != nil {
		return apierror.InvalidTimeError
	}
	return nil
}

// checkConflicts scans the user's active rooms for one whose meet time is
// within an hour of the candidate time. excludeID skips a room the user is
// already counted in.
func (r *DefaultRoomService) checkConflicts(userID string, meetTime, excludeID int64) apierror.ErrorResponse {
	if meetTime == 0 {
		return nil
	}

	rooms, err := r.Parts.ActiveRooms(userID)
	if err != nil {
		log.Errorf("failed to fetch rooms of user %s: %v", userID, err)
		return apierror.StoreUnavailableError
	}

	for _, room := range rooms {
		if room.ID == excludeID {
			continue
		}
		if !isValidTime(room.MeetTime, meetTime) {
			return apierror.TimeConflictError
		}
	}
	return nil
}

func (r *DefaultRoomService) bannedSet(userID string) (map[string]struct{}, apierror.ErrorResponse) {
	bans, err := r.BanRepo.FindBySrcID(userID)
	if err != nil {
		log.Errorf("failed to fetch bans of user %s: %v", userID, err)
		return nil, apierror.StoreUnavailableError
	}

	set := make(map[string]struct{}, len(bans))
	for _, ban := range bans {
		set[ban.DestID] = struct{}{}
	}
	return set, nil
}

// isValidTime reports whether two meet times are far enough apart to hold
// both commitments: strictly more than one hour between them, in either
// direction. An unconstrained time (0) never conflicts.
func isValidTime(a, b int64) bool {
	if a == 0 || b == 0 {
		return true
	}

	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff > time.Hour.Milliseconds()
}

func parseRoomID(raw string) (int64, apierror.ErrorResponse) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.InvalidRoomIDError
	}
	return id, nil
}

func expandMenus(menu string) []string {
	if menu == utils.TimeDefault {
		return entity.MenuNames
	}

	parts := strings.Split(menu, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		// ParamsCheck ran first, so the lookup cannot miss here.
		canon, _ := entity.CanonicalMenuName(strings.TrimSpace(part))
		names = append(names, canon)
	}
	return names
}

func containsBannedUser(room *entity.Room, banned map[string]struct{}) bool {
	for _, part := range room.Participants {
		if _, hit := banned[part.UserID]; hit {
			return true
		}
	}
	return false
}

func toRoomResponse(room *entity.Room) *RoomResponse {
	menus := make([]string, len(room.RoomMenus))
	for i, link := range room.RoomMenus {
		menus[i] = link.Menu.Name
	}

	parts := make([]*UserResponse, len(room.Participants))
	for i, part := range room.Participants {
		parts[i] = toUserResponse(&part.User)
	}

	owner := room.Owner
	return &RoomResponse{
		ID:           room.ID,
		Title:        room.Title,
		MeetTime:     utils.FormatMeetTime(room.MeetTime),
		Location:     room.Location,
		Status:       string(room.Status),
		Capacity:     room.Capacity,
		Owner:        toUserResponse(&owner),
		Menus:        menus,
		Participants: parts,
		CreatedAt:    utils.FormatEpoch(room.CreatedAt),
	}
}
