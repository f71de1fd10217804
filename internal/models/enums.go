package models

// PetType is the species a pet profile or recipe is meant for.
type PetType string

const (
	PetTypeDog PetType = "dog"
	PetTypeCat PetType = "cat"
)

// Valid reports whether t is one of the supported pet types.
func (t PetType) Valid() bool {
	switch t {
	case PetTypeDog, PetTypeCat:
		return true
	}
	return false
}

// RecipeCategory groups recipes by their main ingredient.
type RecipeCategory string

const (
	CategoryMeat    RecipeCategory = "meat"
	CategoryPoultry RecipeCategory = "poultry"
	CategoryFish    RecipeCategory = "fish"
	CategoryTreats  RecipeCategory = "treats"
)

// Valid reports whether c is one of the supported recipe categories.
func (c RecipeCategory) Valid() bool {
	switch c {
	case CategoryMeat, CategoryPoultry, CategoryFish, CategoryTreats:
		return true
	}
	return false
}

// CookingType describes how a recipe is prepared.
type CookingType string

const (
	CookingRaw    CookingType = "raw"
	CookingCooked CookingType = "cooked"
	CookingBaked  CookingType = "baked"
	CookingMixed  CookingType = "mixed"
)

// Valid reports whether c is one of the supported cooking types.
func (c CookingType) Valid() bool {
	switch c {
	case CookingRaw, CookingCooked, CookingBaked, CookingMixed:
		return true
	}
	return false
}
