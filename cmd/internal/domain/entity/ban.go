package entity

// Ban is a directed block: Src no longer wants to see rooms Dest is in.
type Ban struct {
	ID        int64  `gorm:"primaryKey"`
	SrcID     string `gorm:"not null;index:idx_src_dest,unique"` // References: users(id)
	DestID    string `gorm:"not null;index:idx_src_dest,unique"` // References: users(id)
	CreatedAt int64  `gorm:"not null"`

	// Relations
	Dest User `gorm:"foreignKey:DestID;references:ID"`
}
