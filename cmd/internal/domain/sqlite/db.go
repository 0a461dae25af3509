package sqlite

import (
	"time"

	"moim/cmd/internal/domain/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Init(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Room{},
		&entity.Menu{},
		&entity.RoomMenu{},
		&entity.Participant{},
		&entity.Ban{},
	)
	if err != nil {
		return nil, err
	}

	if err := seedMenus(db); err != nil {
		return nil, err
	}

	// A single connection serializes all store work, which is what makes
	// the booking check-then-act sequences safe without row locks.
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// seedMenus makes sure every catalog menu name has a row to link against.
func seedMenus(db *gorm.DB) error {
	for _, name := range entity.MenuNames {
		menu := entity.Menu{Name: name}
		err := db.Where("name = ?", name).FirstOrCreate(&menu).Error
		if err != nil {
			return err
		}
	}
	return nil
}
