package routes

import (
	"net/http"
	"strconv"

	"moim/cmd/internal/service"
	"moim/cmd/internal/utils"
	"moim/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type RoomService interface {
	CreateRoom(req *service.RoomRequest, userID string) (*service.RoomResponse, apierror.ErrorResponse)
	SearchMyRooms(userID string) ([]*service.RoomResponse, apierror.ErrorResponse)
	SearchRooms(userID, location, menu, startTime, endTime, keyword string, page, size int) ([]*service.RoomResponse, apierror.ErrorResponse)
	EnterRoom(userID, rawRoomID string) (int64, apierror.ErrorResponse)
	ExitRoom(userID, rawRoomID string) (int64, apierror.ErrorResponse)
}

type DefaultRoomRoute struct {
	RoomService RoomService
}

func NewRoomDefault(roomService RoomService) *DefaultRoomRoute {
	return &DefaultRoomRoute{RoomService: roomService}
}

func (r *DefaultRoomRoute) CreateRoom(c echo.Context) error {
	var req service.RoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	room, apierr := r.RoomService.CreateRoom(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, room)
}

func (r *DefaultRoomRoute) GetMyRooms(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	rooms, apierr := r.RoomService.SearchMyRooms(data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"rooms": rooms}
	return c.JSON(http.StatusOK, &resp)
}

// SearchRooms reads the filters off the query string; an absent or empty
// parameter means "default" (no constraint).
func (r *DefaultRoomRoute) SearchRooms(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	page, size := 1, 0
	if raw := c.QueryParam("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			return c.JSON(400, apierror.NewInvalidParamTypeError("page", "int"))
		}
	}
	if raw := c.QueryParam("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil {
			return c.JSON(400, apierror.NewInvalidParamTypeError("size", "int"))
		}
	}

	rooms, apierr := r.RoomService.SearchRooms(
		data.Sub,
		queryOrDefault(c, "location"),
		queryOrDefault(c, "menu"),
		queryOrDefault(c, "start_time"),
		queryOrDefault(c, "end_time"),
		queryOrDefault(c, "keyword"),
		page, size,
	)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"rooms": rooms}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultRoomRoute) EnterRoom(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	roomID, apierr := r.RoomService.EnterRoom(data.Sub, c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"room_id": roomID}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultRoomRoute) ExitRoom(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	roomID, apierr := r.RoomService.ExitRoom(data.Sub, c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"room_id": roomID}
	return c.JSON(http.StatusOK, &resp)
}

func queryOrDefault(c echo.Context, name string) string {
	if v := c.QueryParam(name); v != "" {
		return v
	}
	return utils.TimeDefault
}
