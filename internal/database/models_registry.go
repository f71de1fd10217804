package database

import "petchef/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// parents before children so AutoMigrate can create foreign keys in order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Pet{},
		&models.Recipe{},
		&models.Comment{},
		&models.Favorite{},
		&models.Follower{},
	}
}
