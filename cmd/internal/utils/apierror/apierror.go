package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is what services hand back to routes: an error that knows
// which HTTP status it should be rendered with. Package-level values are
// singletons, so callers may compare by identity.
type ErrorResponse interface {
	error
	Code() int
}

type simpleError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *simpleError) Error() string { return e.Message }
func (e *simpleError) Code() int     { return e.Status }

func NewSimple(status int, message string) ErrorResponse {
	return &simpleError{Status: status, Message: message}
}

func NewMissingParamError(name string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("missing required parameter %q", name))
}

func NewInvalidParamTypeError(name, want string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("parameter %q must be of type %s", name, want))
}

// FromValidationError flattens a validator.ValidationErrors into a 400.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	msg := "validation failed"
	if len(verrs) > 0 {
		msg = fmt.Sprintf("validation failed: field %s fails rule %q", verrs[0].Field(), verrs[0].Tag())
	}
	return NewSimple(http.StatusBadRequest, msg)
}

var (
	InternalServerError   = NewSimple(http.StatusInternalServerError, "something went wrong on our side")
	StoreUnavailableError = NewSimple(http.StatusServiceUnavailable, "the data store is unavailable, try again later")
	MalformedBodyError    = NewSimple(http.StatusBadRequest, "request body is malformed")
	NotFoundError         = NewSimple(http.StatusNotFound, "resource not found")
	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "auth token is missing or invalid")

	UserAlreadyExistsError    = NewSimple(http.StatusConflict, "a user with this email already exists")
	UserAlreadyConfirmedError = NewSimple(http.StatusConflict, "this account is already confirmed")

	IDPInvalidPasswordError     = NewSimple(http.StatusBadRequest, "password rejected by the identity provider")
	IDPExistingEmailError       = NewSimple(http.StatusConflict, "email already registered with the identity provider")
	IDPUserNotFoundError        = NewSimple(http.StatusNotFound, "no such account")
	IDPUserNotConfirmedError    = NewSimple(http.StatusForbidden, "account is not confirmed yet")
	IDPCredentialsMismatchError = NewSimple(http.StatusUnauthorized, "email or password is incorrect")
	IDPConfirmCodeMismatchError = NewSimple(http.StatusBadRequest, "confirmation code does not match")
	IDPConfirmCodeExpiredError  = NewSimple(http.StatusBadRequest, "confirmation code has expired")
)

type domainError struct {
	Status int `json:"-"`
	// InterCode is the stable discriminator API consumers branch on.
	InterCode int    `json:"inter_code"`
	Message   string `json:"message"`
}

func (e *domainError) Error() string { return e.Message }
func (e *domainError) Code() int     { return e.Status }

func newDomain(status, interCode int, message string) ErrorResponse {
	return &domainError{Status: status, InterCode: interCode, Message: message}
}

// Booking failure classes. The inter codes are part of the public API and
// must stay stable.
var (
	InvalidTimeError    = newDomain(http.StatusBadRequest, -1, "time does not match the yyyy-MM-dd HH:mm:ss pattern")
	InvalidRoomIDError  = newDomain(http.StatusBadRequest, -1, "room id is not a number")
	TimeConflictError   = newDomain(http.StatusConflict, -2, "the user already has a room within one hour of this time")
	UnknownUserError    = newDomain(http.StatusNotFound, -3, "user is not registered")
	InvalidEnumError    = newDomain(http.StatusBadRequest, -4, "location, menu or status is not a known value")
	UnknownRoomError    = newDomain(http.StatusNotFound, -5, "no room with this id")
	NotParticipantError = newDomain(http.StatusConflict, -6, "user is not a participant of this room")
	RoomNotActiveError  = newDomain(http.StatusConflict, -7, "room is not active")
	RoomFullError       = newDomain(http.StatusConflict, -8, "room is at capacity")
)
