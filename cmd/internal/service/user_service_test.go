package service

import (
	"testing"

	cognitoclient "moim/cmd/internal/integration/aws/cognito"
	"moim/cmd/internal/utils/apierror"
	"moim/cmd/internal/utils/validators"

	"github.com/aws/smithy-go"
	"github.com/go-playground/validator/v10"
)

type fakeIDPError struct {
	code string
}

func (e *fakeIDPError) Error() string                 { return e.code }
func (e *fakeIDPError) ErrorCode() string             { return e.code }
func (e *fakeIDPError) ErrorMessage() string          { return e.code }
func (e *fakeIDPError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

type fakeCognito struct {
	signUpErr error
	signInErr error
	deleted   []string
}

func (f *fakeCognito) SignUp(user *cognitoclient.User) (string, error) {
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return "sub-" + user.Email, nil
}

func (f *fakeCognito) ConfirmAccount(confirm *cognitoclient.UserConfirmation) error {
	return nil
}

func (f *fakeCognito) SignIn(login *cognitoclient.UserLogin) (*cognitoclient.AuthCreate, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &cognitoclient.AuthCreate{AccessToken: "token-" + login.Email, IDToken: "id"}, nil
}

func (f *fakeCognito) FetchProfile(accessToken string) (*cognitoclient.Profile, error) {
	email := accessToken[len("token-"):]
	return &cognitoclient.Profile{Sub: "sub-" + email, Email: email}, nil
}

func (f *fakeCognito) AdminDeleteUser(email string) error {
	f.deleted = append(f.deleted, email)
	return nil
}

func newTestUserService(store *memStore, cog *fakeCognito) *DefaultUserService {
	validate := validator.New()
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)

	return NewUserService(memUsers{store}, memBans{store}, validate, cog)
}

func validSignup() *CreateUserRequest {
	return &CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3r-secret",
	}
}

func TestCreateUser(t *testing.T) {
	t.Run("stores the provider subject as the user id", func(t *testing.T) {
		store := newMemStore()
		svc := newTestUserService(store, &fakeCognito{})

		if apierr := svc.CreateUser(validSignup()); apierr != nil {
			t.Fatalf("CreateUser: %v", apierr)
		}
		if _, ok := store.users["sub-alice@example.com"]; !ok {
			t.Errorf("users = %v, want key sub-alice@example.com", store.users)
		}
	})

	t.Run("duplicate email is rejected locally", func(t *testing.T) {
		store := newMemStore()
		svc := newTestUserService(store, &fakeCognito{})
		if apierr := svc.CreateUser(validSignup()); apierr != nil {
			t.Fatalf("first signup: %v", apierr)
		}

		if apierr := svc.CreateUser(validSignup()); apierr != apierror.UserAlreadyExistsError {
			t.Errorf("apierr = %v, want UserAlreadyExistsError", apierr)
		}
	})

	t.Run("provider password rejection maps to the IDP error", func(t *testing.T) {
		store := newMemStore()
		cog := &fakeCognito{signUpErr: &fakeIDPError{code: "InvalidPasswordException"}}
		svc := newTestUserService(store, cog)

		if apierr := svc.CreateUser(validSignup()); apierr != apierror.IDPInvalidPasswordError {
			t.Errorf("apierr = %v, want IDPInvalidPasswordError", apierr)
		}
	})

	t.Run("local store failure reverts the provider signup", func(t *testing.T) {
		store := newMemStore()
		cog := &fakeCognito{}
		svc := newTestUserService(store, cog)

		store.failingSaves = true
		if apierr := svc.CreateUser(validSignup()); apierr != apierror.StoreUnavailableError {
			t.Fatalf("apierr = %v, want StoreUnavailableError", apierr)
		}
		if len(cog.deleted) != 1 || cog.deleted[0] != "alice@example.com" {
			t.Errorf("deleted = %v, want the fresh provider account", cog.deleted)
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("mirrors an unknown bearer locally", func(t *testing.T) {
		store := newMemStore()
		svc := newTestUserService(store, &fakeCognito{})

		resp, apierr := svc.Login(&UserLoginRequest{Email: "bob@example.com", Password: "Sup3r-secret"})
		if apierr != nil {
			t.Fatalf("Login: %v", apierr)
		}
		if resp.AccessToken == "" {
			t.Error("empty access token")
		}
		if _, ok := store.users["sub-bob@example.com"]; !ok {
			t.Errorf("users = %v, want bob mirrored under his subject", store.users)
		}
	})

	t.Run("wrong credentials map to the IDP error", func(t *testing.T) {
		store := newMemStore()
		cog := &fakeCognito{signInErr: &fakeIDPError{code: "NotAuthorizedException"}}
		svc := newTestUserService(store, cog)

		_, apierr := svc.Login(&UserLoginRequest{Email: "bob@example.com", Password: "Wr0ng-secret"})
		if apierr != apierror.IDPCredentialsMismatchError {
			t.Errorf("apierr = %v, want IDPCredentialsMismatchError", apierr)
		}
	})
}

func TestBanUser(t *testing.T) {
	t.Run("records a directed ban", func(t *testing.T) {
		store := newMemStore()
		store.addUser("alice")
		store.addUser("carol")
		svc := newTestUserService(store, &fakeCognito{})

		if apierr := svc.BanUser(&BanRequest{UserID: "carol"}, "alice"); apierr != nil {
			t.Fatalf("BanUser: %v", apierr)
		}
		if len(store.bans) != 1 || store.bans[0].SrcID != "alice" || store.bans[0].DestID != "carol" {
			t.Errorf("bans = %+v", store.bans)
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		store := newMemStore()
		store.addUser("alice")
		svc := newTestUserService(store, &fakeCognito{})

		if apierr := svc.BanUser(&BanRequest{UserID: "ghost"}, "alice"); apierr != apierror.NotFoundError {
			t.Errorf("apierr = %v, want NotFoundError", apierr)
		}
	})

	t.Run("self ban is rejected", func(t *testing.T) {
		store := newMemStore()
		store.addUser("alice")
		svc := newTestUserService(store, &fakeCognito{})

		apierr := svc.BanUser(&BanRequest{UserID: "alice"}, "alice")
		if apierr == nil || apierr.Code() != 400 {
			t.Errorf("apierr = %v, want a 400", apierr)
		}
	})
}
