package cognitoclient

import (
	"context"
	"errors"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type User struct {
	Email    string
	Password string
}

type UserLogin struct {
	Email    string
	Password string
}

type UserConfirmation struct {
	Email string
	Code  string
}

type AuthCreate struct {
	AccessToken string
	IDToken     string
}

// Profile is what the provider knows about a token's bearer.
type Profile struct {
	Sub   string
	Email string
}

type CognitoInterface interface {
	SignUp(user *User) (string, error)
	ConfirmAccount(confirm *UserConfirmation) error
	SignIn(login *UserLogin) (*AuthCreate, error)
	FetchProfile(accessToken string) (*Profile, error)
	AdminDeleteUser(email string) error
}

type cognitoClient struct {
	client      *cognitoidentityprovider.Client
	appClientID string
	userPoolID  string
}

func InitCognitoClient() (CognitoInterface, error) {
	appClientID := os.Getenv("COGNITO_CLIENT_ID")
	userPoolID := os.Getenv("COGNITO_USER_POOL_ID")
	if appClientID == "" || userPoolID == "" {
		return nil, errors.New("COGNITO_CLIENT_ID and COGNITO_USER_POOL_ID must be set")
	}

	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, err
	}

	return &cognitoClient{
		client:      cognitoidentityprovider.NewFromConfig(cfg),
		appClientID: appClientID,
		userPoolID:  userPoolID,
	}, nil
}

// SignUp registers the user with the pool and returns the subject the pool
// assigned; that subject is our user id everywhere downstream.
func (c *cognitoClient) SignUp(user *User) (string, error) {
	input := &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(c.appClientID),
		Username: aws.String(user.Email),
		Password: aws.String(user.Password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(user.Email)},
		},
	}

	out, err := c.client.SignUp(context.Background(), input)
	if err != nil {
		return "", err
	}
	return aws.ToString(out.UserSub), nil
}

func (c *cognitoClient) ConfirmAccount(confirm *UserConfirmation) error {
	input := &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(c.appClientID),
		Username:         aws.String(confirm.Email),
		ConfirmationCode: aws.String(confirm.Code),
	}

	_, err := c.client.ConfirmSignUp(context.Background(), input)
	return err
}

// SignIn is the token exchange: credentials in, access and id tokens out.
func (c *cognitoClient) SignIn(login *UserLogin) (*AuthCreate, error) {
	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.appClientID),
		AuthParameters: map[string]string{
			"USERNAME": login.Email,
			"PASSWORD": login.Password,
		},
	}

	out, err := c.client.InitiateAuth(context.Background(), input)
	if err != nil {
		return nil, err
	}
	if out.AuthenticationResult == nil {
		return nil, errors.New("authentication challenge not supported")
	}

	return &AuthCreate{
		AccessToken: aws.ToString(out.AuthenticationResult.AccessToken),
		IDToken:     aws.ToString(out.AuthenticationResult.IdToken),
	}, nil
}

// FetchProfile resolves an access token to the (sub, email) pair.
func (c *cognitoClient) FetchProfile(accessToken string) (*Profile, error) {
	out, err := c.client.GetUser(context.Background(), &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return nil, err
	}

	profile := &Profile{}
	for _, attr := range out.UserAttributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			profile.Sub = aws.ToString(attr.Value)
		case "email":
			profile.Email = aws.ToString(attr.Value)
		}
	}

	if profile.Sub == "" {
		return nil, errors.New("provider returned no subject for token")
	}
	return profile, nil
}

func (c *cognitoClient) AdminDeleteUser(email string) error {
	input := &cognitoidentityprovider.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(email),
	}

	_, err := c.client.AdminDeleteUser(context.Background(), input)
	return err
}
