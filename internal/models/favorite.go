package models

import "time"

// Favorite records that a user favorited a recipe.
// The combination of UserID and RecipeID must be unique.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_recipe" json:"userId"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorites_user_recipe;index:idx_favorites_recipe_id" json:"recipeId"`
	CreatedAt time.Time `json:"createdAt"`

	// Relationships
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
}

// TableName specifies the table name for GORM
func (Favorite) TableName() string {
	return "favorites"
}
