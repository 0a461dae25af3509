package main

import (
	"os"
	"strconv"

	"moim/cmd/internal/domain/sqlite"
	"moim/cmd/internal/domain/sqlite/repository"
	cognitoclient "moim/cmd/internal/integration/aws/cognito"
	"moim/cmd/internal/routes"
	"moim/cmd/internal/service"
	"moim/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const defaultRoomCapacity = 8

func main() {
	validate := validator.New()
	registerValidators(validate)

	err := godotenv.Load()
	if err != nil {
		log.Fatal("failed to load .env file", err)
	}

	// Init SQLite
	db, err := sqlite.Init(envOr("DB_PATH", "./database.db"))
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	// Cognito client
	cogClient, err := cognitoclient.InitCognitoClient()
	if err != nil {
		log.Fatal("failed to initialize cognito client", err)
	}

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	partRepo := repository.NewParticipantRepository(db)
	banRepo := repository.NewBanRepository(db)

	// Getting services
	partService := service.NewParticipationService(partRepo, roomRepo)
	userService := service.NewUserService(userRepo, banRepo, validate, cogClient)
	roomService := service.NewRoomService(roomRepo, userRepo, banRepo, partService, validate, roomCapacity())

	// Getting routes
	userRoutes := routes.NewUserDefault(userService)
	roomRoutes := routes.NewRoomDefault(roomService)

	e := echo.New()
	e.Use(middleware.CORS())

	// Rooms
	e.POST("/api/rooms", roomRoutes.CreateRoom)
	e.GET("/api/rooms", roomRoutes.SearchRooms)
	e.GET("/api/rooms/mine", roomRoutes.GetMyRooms)
	e.POST("/api/rooms/:id/enter", roomRoutes.EnterRoom)
	e.POST("/api/rooms/:id/exit", roomRoutes.ExitRoom)

	// Users
	e.GET("/api/users", userRoutes.GetUsers)
	e.GET("/api/users/:id", userRoutes.GetUser)
	e.POST("/api/users", userRoutes.CreateUser)
	e.POST("/api/users/login", userRoutes.CreateLogin)
	e.POST("/api/users/verify", userRoutes.VerifySignup)
	e.POST("/api/users/bans", userRoutes.BanUser)

	err = e.Start(":" + envOr("PORT", "6060"))
	if err != nil {
		e.Logger.Fatal(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("nodupes", validators.NoDupes)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
	_ = validate.RegisterValidation("iso8601", validators.IsIso8601)
}

func roomCapacity() int {
	raw := os.Getenv("ROOM_CAPACITY")
	if raw == "" {
		return defaultRoomCapacity
	}

	capacity, err := strconv.Atoi(raw)
	if err != nil || capacity < 1 {
		log.Fatalf("ROOM_CAPACITY must be a positive integer, got %q", raw)
	}
	return capacity
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
