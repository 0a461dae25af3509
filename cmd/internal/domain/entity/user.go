package entity

type User struct {
	// ID is the subject issued by the identity provider.
	ID            string `gorm:"primaryKey"`
	Username      string `gorm:"not null"`
	Email         string `gorm:"not null;uniqueIndex"`
	EmailVerified bool   `gorm:"not null"`
	CreatedAt     int64  `gorm:"not null"`
	UpdatedAt     int64  `gorm:"not null"`

	// Relations
	Bans []Ban `gorm:"foreignKey:SrcID;references:ID"`
}
