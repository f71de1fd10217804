package cache

import (
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	SessionKeyPrefix = "session:%s"
)

// UserTTL bounds how stale a cached public user can be.
const UserTTL = 5 * time.Minute

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// SessionKey is the registry entry for an issued session id.
func SessionKey(jti string) string {
	return fmt.Sprintf(SessionKeyPrefix, jti)
}
