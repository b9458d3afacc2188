package models

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Relations
	Notifications []Notification `gorm:"foreignKey:UserID"`
}
