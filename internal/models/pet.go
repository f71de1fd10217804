package models

import "time"

// Pet is a pet profile owned by a user.
type Pet struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index:idx_pets_user_id" json:"userId"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Type            PetType   `gorm:"type:varchar(10);not null;check:chk_pets_type,type IN ('dog','cat')" json:"type"`
	Breed           *string   `gorm:"size:100" json:"breed,omitempty"`
	Age             *int      `json:"age,omitempty"`
	Weight          *float64  `json:"weight,omitempty"`
	ProfileImageURL *string   `gorm:"size:500" json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Owner *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Pet) TableName() string {
	return "pets"
}

// PetUpdate is a partial update for a pet. Nil fields are left unchanged.
type PetUpdate struct {
	Name            *string  `json:"name,omitempty" form:"name" validate:"omitempty,min=1,max=100"`
	Type            *PetType `json:"type,omitempty" form:"type" validate:"omitempty,pettype"`
	Breed           *string  `json:"breed,omitempty" form:"breed" validate:"omitempty,max=100"`
	Age             *int     `json:"age,omitempty" form:"age" validate:"omitempty,gte=0,lte=100"`
	Weight          *float64 `json:"weight,omitempty" form:"weight" validate:"omitempty,gt=0"`
	ProfileImageURL *string  `json:"profileImageUrl,omitempty" form:"profileImageUrl" validate:"omitempty,max=500"`
}

// Columns returns the column values to write.
func (u PetUpdate) Columns() map[string]any {
	cols := make(map[string]any)
	setIfPresent(cols, "name", u.Name)
	setIfPresent(cols, "type", u.Type)
	setIfPresent(cols, "breed", u.Breed)
	setIfPresent(cols, "age", u.Age)
	setIfPresent(cols, "weight", u.Weight)
	setIfPresent(cols, "profile_image_url", u.ProfileImageURL)
	return cols
}
