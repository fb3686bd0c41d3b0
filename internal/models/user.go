package models

import (
	"time"
)

// User is an account identified by email. Username, first and last name are
// display fields; the password is stored as a bcrypt hash and never serialized.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
}

// FullName renders the display name used in shopping list reports.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Subscription links a follower to the user they follow. The same pair cannot
// exist twice; self-subscription is rejected at the service layer.
type Subscription struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	FollowerID  uint      `gorm:"not null;index;uniqueIndex:idx_subscriptions_pair" json:"follower_id"`
	FollowingID uint      `gorm:"not null;index;uniqueIndex:idx_subscriptions_pair" json:"following_id"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
