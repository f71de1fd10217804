package service

import (
	"context"
	"testing"

	"petchef/internal/models"
	"petchef/internal/repository"
	"petchef/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newLaggingStorage pairs a primary with a replica that never receives
// the primary's writes.
func newLaggingStorage(t *testing.T) *repository.Storage {
	t.Helper()
	return repository.NewStorage(testutil.NewSQLiteDB(t),
		repository.WithHashCost(bcrypt.MinCost),
		repository.WithReadReplica(testutil.NewSQLiteDB(t)))
}

func TestWritePaths_ReadFromPrimary(t *testing.T) {
	store := newLaggingStorage(t)
	ctx := context.Background()

	ana := &models.User{Username: "ana", Email: "ana@x.com", Password: "Plain-Password-1!"}
	require.NoError(t, store.Users.Create(ctx, ana))
	bob := &models.User{Username: "bob", Email: "bob@x.com", Password: "Plain-Password-1!"}
	require.NoError(t, store.Users.Create(ctx, bob))

	recipes := NewRecipeService(store.Recipes)
	in := validRecipeInput()
	in.UserID = ana.ID
	recipe, err := recipes.CreateRecipe(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, recipe)
	assert.Equal(t, "Frango Assado", recipe.Title)

	title := "Frango Assado com Batata"
	updated, err := recipes.UpdateRecipe(ctx, ana.ID, recipe.ID, models.RecipeUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	_, err = recipes.UpdateRecipe(ctx, bob.ID, recipe.ID, models.RecipeUpdate{Title: &title})
	assertErrorCode(t, err, models.CodeForbidden)

	comments := NewCommentService(store.Comments, store.Recipes)
	top, err := comments.CreateComment(ctx, CreateCommentInput{UserID: bob.ID, RecipeID: recipe.ID, Content: "Rex loved it"})
	require.NoError(t, err)
	reply, err := comments.CreateComment(ctx, CreateCommentInput{UserID: ana.ID, RecipeID: recipe.ID, ParentID: &top.ID, Content: "Thanks!"})
	require.NoError(t, err)
	require.NoError(t, comments.DeleteComment(ctx, ana.ID, reply.ID))

	favorites := NewFavoriteService(store.Favorites, store.Recipes, store.Users)
	_, err = favorites.AddFavorite(ctx, bob.ID, recipe.ID)
	require.NoError(t, err)

	pets := NewPetService(store.Pets, store.Users)
	pet, err := pets.CreatePet(ctx, CreatePetInput{UserID: ana.ID, Name: "Rex", Type: models.PetTypeDog})
	require.NoError(t, err)
	name := "Rex II"
	_, err = pets.UpdatePet(ctx, ana.ID, pet.ID, models.PetUpdate{Name: &name})
	require.NoError(t, err)
	require.NoError(t, pets.DeletePet(ctx, ana.ID, pet.ID))

	require.NoError(t, recipes.DeleteRecipe(ctx, ana.ID, recipe.ID))
}
