package entity

type Menu struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"not null;uniqueIndex"`
}

type RoomMenu struct {
	ID     int64 `gorm:"primaryKey"`
	RoomID int64 `gorm:"not null;index"` // References: rooms(id)
	MenuID int64 `gorm:"not null"`       // References: menus(id)

	// Relations
	Menu Menu `gorm:"foreignKey:MenuID;references:ID"`
}
