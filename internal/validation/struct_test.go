package validation

import (
	"testing"

	"petchef/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recipeInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	PetType     string `json:"petType" validate:"required,pettype"`
	Category    string `json:"category" validate:"required,category"`
	CookingType string `json:"cookingType" validate:"required,cookingtype"`
	PrepTime    int    `json:"prepTime" validate:"gt=0"`
}

func TestStruct(t *testing.T) {
	t.Parallel()
	valid := recipeInput{Title: "Frango Assado", PetType: "dog", Category: "poultry", CookingType: "baked", PrepTime: 40}

	tests := []struct {
		name      string
		mutate    func(in *recipeInput)
		wantField string
	}{
		{"Valid", func(in *recipeInput) {}, ""},
		{"Missing Title", func(in *recipeInput) { in.Title = "" }, "title"},
		{"Unknown Pet Type", func(in *recipeInput) { in.PetType = "hamster" }, "petType"},
		{"Unknown Category", func(in *recipeInput) { in.Category = "veggie" }, "category"},
		{"Unknown Cooking Type", func(in *recipeInput) { in.CookingType = "fried" }, "cookingType"},
		{"Zero Prep Time", func(in *recipeInput) { in.PrepTime = 0 }, "prepTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := Struct(in)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, models.CodeValidation, appErr.Code)
			assert.Equal(t, tt.wantField, appErr.Field)
		})
	}
}

func TestFormatValidationError_UsesParam(t *testing.T) {
	t.Parallel()
	err := Struct(recipeInput{Title: string(make([]byte, 201)), PetType: "cat", Category: "fish", CookingType: "raw", PrepTime: 5})
	require.Error(t, err)
	assert.Equal(t, "title must not exceed 200 characters", err.Error())
}
