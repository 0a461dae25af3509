package entity

type Participant struct {
	ID     int64  `gorm:"primaryKey"`
	RoomID int64  `gorm:"not null;index:idx_room_user,unique"` // References: rooms(id)
	UserID string `gorm:"not null;index:idx_room_user,unique"` // References: users(id)
	// CreatedAt is the join time; the earliest remaining participant
	// inherits ownership when the owner leaves.
	CreatedAt int64 `gorm:"not null"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:ID"`
}
