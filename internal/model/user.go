package model

import (
	"time"
)

type User struct {
	ID        uint64  `gorm:"primaryKey"`
	Username  string  `gorm:"type:varchar(50);uniqueIndex:idx_username;not null"`
	Password  string  `gorm:"type:varchar(255);not null"`
	Nickname  string  `gorm:"type:varchar(50)"`
	AvatarURL *string `gorm:"type:varchar(255)"`
	Bio       *string `gorm:"type:varchar(255)"`
	IsBan     bool    `gorm:"type:tinyint(1);default:0"`
	IsDelete  bool    `gorm:"type:tinyint(1);default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserRoles []UserRole `gorm:"foreignKey:UserID;references:ID"`
}

func (User) TableName() string {
	return "users"
}
