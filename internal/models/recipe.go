package models

import "time"

// Recipe is a published pet-food recipe.
// CookCount is system-managed and only ever grows through an atomic increment.
type Recipe struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index:idx_recipes_user_id" json:"userId"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Ingredients  string         `gorm:"type:text;not null" json:"ingredients"`
	Instructions string         `gorm:"type:text;not null" json:"instructions"`
	PetType      PetType        `gorm:"type:varchar(10);not null;index:idx_recipes_pet_category,priority:1;check:chk_recipes_pet_type,pet_type IN ('dog','cat')" json:"petType"`
	Category     RecipeCategory `gorm:"type:varchar(20);not null;index:idx_recipes_pet_category,priority:2;check:chk_recipes_category,category IN ('meat','poultry','fish','treats')" json:"category"`
	CookingType  CookingType    `gorm:"type:varchar(20);not null;check:chk_recipes_cooking_type,cooking_type IN ('raw','cooked','baked','mixed')" json:"cookingType"`
	PrepTime     int            `gorm:"not null;check:chk_recipes_prep_time,prep_time > 0" json:"prepTime"`
	ImageURL     *string        `gorm:"size:500" json:"imageUrl,omitempty"`
	YoutubeURL   *string        `gorm:"size:500" json:"youtubeUrl,omitempty"`
	CookCount    int            `gorm:"not null;default:0;check:chk_recipes_cook_count,cook_count >= 0" json:"cookCount"`
	CreatedAt    time.Time      `gorm:"index:idx_recipes_created_at" json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`

	// Computed on read
	FavoritesCount int64 `gorm:"->;-:migration" json:"favoritesCount"`
	CommentsCount  int64 `gorm:"->;-:migration" json:"commentsCount"`

	Author *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

// TableName specifies the table name for GORM
func (Recipe) TableName() string {
	return "recipes"
}

// RecipeUpdate is a partial update for a recipe. Nil fields are left unchanged.
// It has no CookCount field on purpose: the counter is not client writable.
type RecipeUpdate struct {
	Title        *string         `json:"title,omitempty" form:"title" validate:"omitempty,min=1,max=200"`
	Ingredients  *string         `json:"ingredients,omitempty" form:"ingredients" validate:"omitempty,min=1"`
	Instructions *string         `json:"instructions,omitempty" form:"instructions" validate:"omitempty,min=1"`
	PetType      *PetType        `json:"petType,omitempty" form:"petType" validate:"omitempty,pettype"`
	Category     *RecipeCategory `json:"category,omitempty" form:"category" validate:"omitempty,category"`
	CookingType  *CookingType    `json:"cookingType,omitempty" form:"cookingType" validate:"omitempty,cookingtype"`
	PrepTime     *int            `json:"prepTime,omitempty" form:"prepTime" validate:"omitempty,gt=0"`
	ImageURL     *string         `json:"imageUrl,omitempty" form:"imageUrl" validate:"omitempty,max=500"`
	YoutubeURL   *string         `json:"youtubeUrl,omitempty" form:"youtubeUrl" validate:"omitempty,url,max=500"`
}

// Columns returns the column values to write.
func (u RecipeUpdate) Columns() map[string]any {
	cols := make(map[string]any)
	setIfPresent(cols, "title", u.Title)
	setIfPresent(cols, "ingredients", u.Ingredients)
	setIfPresent(cols, "instructions", u.Instructions)
	setIfPresent(cols, "pet_type", u.PetType)
	setIfPresent(cols, "category", u.Category)
	setIfPresent(cols, "cooking_type", u.CookingType)
	setIfPresent(cols, "prep_time", u.PrepTime)
	setIfPresent(cols, "image_url", u.ImageURL)
	setIfPresent(cols, "youtube_url", u.YoutubeURL)
	return cols
}

// RecipeFilter selects recipes for listing. Zero-valued fields do not filter.
type RecipeFilter struct {
	PetType     PetType
	Category    RecipeCategory
	CookingType CookingType
	UserID      uint
	// Search is a case-sensitive substring matched against title or ingredients.
	Search string
	// Page is 1-indexed.
	Page  int
	Limit int
}

const (
	DefaultRecipePageSize = 10
	MaxRecipePageSize     = 100
)

// Normalize applies the default page and limit.
func (f RecipeFilter) Normalize() RecipeFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultRecipePageSize
	}
	if f.Limit > MaxRecipePageSize {
		f.Limit = MaxRecipePageSize
	}
	return f
}

// Offset returns the number of rows to skip for the normalized page.
func (f RecipeFilter) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.Limit
}
