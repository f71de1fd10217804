package models

import "time"

// Follower is a directed follow edge from FollowerID to FollowingID.
// The pair is unique and a user can never follow themselves.
type Follower struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_followers_pair;check:chk_followers_not_self,follower_id <> following_id" json:"followerId"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_followers_pair;index:idx_followers_following_id" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`

	// Relationships
	FollowerUser  *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	FollowingUser *User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Follower) TableName() string {
	return "followers"
}
