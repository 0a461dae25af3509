package entity

type RoomStatus string

const (
	RoomStatusActive   RoomStatus = "active"
	RoomStatusInactive RoomStatus = "inactive"
)

type Room struct {
	ID    int64  `gorm:"primaryKey"`
	Title string `gorm:"not null"`
	// MeetTime is epoch millis; 0 means the room has no fixed time yet.
	MeetTime  int64      `gorm:"not null;index"`
	Location  string     `gorm:"not null"`
	Status    RoomStatus `gorm:"not null;index"`
	Capacity  int        `gorm:"not null"`
	OwnerID   string     `gorm:"not null"` // References: users(id)
	CreatedAt int64      `gorm:"not null"`
	UpdatedAt int64      `gorm:"not null"`

	// Relations
	Owner        User          `gorm:"foreignKey:OwnerID;references:ID"`
	RoomMenus    []RoomMenu    `gorm:"foreignKey:RoomID;references:ID"`
	Participants []Participant `gorm:"foreignKey:RoomID;references:ID"`
}
