package service

import (
	"context"
	"errors"
	"testing"

	"petchef/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, uint, models.UserUpdate) (*models.User, error)
	deleteFn        func(context.Context, uint) error
	searchFn        func(context.Context, string, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, id uint, update models.UserUpdate) (*models.User, error) {
	return s.updateFn(ctx, id, update)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) GetProfile(ctx context.Context, id uint) (*models.UserProfile, error) {
	u, err := s.getByIDFn(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{User: *u}, nil
}
func (s *userRepoStub) Search(ctx context.Context, q string, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, q, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, id uint, _ models.UserUpdate) (*models.User, error) { return &models.User{ID: id}, nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		searchFn:        func(_ context.Context, _ string, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// petRepoStub is a stub for repository.PetRepository.
type petRepoStub struct {
	createFn  func(context.Context, *models.Pet) error
	getByIDFn func(context.Context, uint) (*models.Pet, error)
	updateFn  func(context.Context, uint, models.PetUpdate) (*models.Pet, error)
	deleteFn  func(context.Context, uint) error
}

func (s *petRepoStub) Create(ctx context.Context, pet *models.Pet) error { return s.createFn(ctx, pet) }
func (s *petRepoStub) GetByID(ctx context.Context, id uint) (*models.Pet, error) {
	return s.getByIDFn(ctx, id)
}
func (s *petRepoStub) ListByUser(_ context.Context, _ uint) ([]models.Pet, error) { return nil, nil }
func (s *petRepoStub) Update(ctx context.Context, id uint, update models.PetUpdate) (*models.Pet, error) {
	return s.updateFn(ctx, id, update)
}
func (s *petRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopPetRepo() *petRepoStub {
	return &petRepoStub{
		createFn:  func(_ context.Context, _ *models.Pet) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Pet, error) { return &models.Pet{ID: id}, nil },
		updateFn:  func(_ context.Context, id uint, _ models.PetUpdate) (*models.Pet, error) { return &models.Pet{ID: id}, nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

// recipeRepoStub is a stub for repository.RecipeRepository.
type recipeRepoStub struct {
	createFn    func(context.Context, *models.Recipe) error
	getByIDFn   func(context.Context, uint) (*models.Recipe, error)
	listFn      func(context.Context, models.RecipeFilter) ([]models.Recipe, error)
	updateFn    func(context.Context, uint, models.RecipeUpdate) (*models.Recipe, error)
	deleteFn    func(context.Context, uint) error
	incrementFn func(context.Context, uint) (*models.Recipe, error)
}

func (s *recipeRepoStub) Create(ctx context.Context, r *models.Recipe) error { return s.createFn(ctx, r) }
func (s *recipeRepoStub) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	return s.getByIDFn(ctx, id)
}
func (s *recipeRepoStub) List(ctx context.Context, f models.RecipeFilter) ([]models.Recipe, error) {
	return s.listFn(ctx, f)
}
func (s *recipeRepoStub) Update(ctx context.Context, id uint, update models.RecipeUpdate) (*models.Recipe, error) {
	return s.updateFn(ctx, id, update)
}
func (s *recipeRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *recipeRepoStub) IncrementCookCount(ctx context.Context, id uint) (*models.Recipe, error) {
	return s.incrementFn(ctx, id)
}

func noopRecipeRepo() *recipeRepoStub {
	return &recipeRepoStub{
		createFn:    func(_ context.Context, _ *models.Recipe) error { return nil },
		getByIDFn:   func(_ context.Context, id uint) (*models.Recipe, error) { return &models.Recipe{ID: id}, nil },
		listFn:      func(_ context.Context, _ models.RecipeFilter) ([]models.Recipe, error) { return nil, nil },
		updateFn:    func(_ context.Context, id uint, _ models.RecipeUpdate) (*models.Recipe, error) { return &models.Recipe{ID: id}, nil },
		deleteFn:    func(_ context.Context, _ uint) error { return nil },
		incrementFn: func(_ context.Context, id uint) (*models.Recipe, error) { return &models.Recipe{ID: id, CookCount: 1}, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn  func(context.Context, *models.Comment) error
	getByIDFn func(context.Context, uint) (*models.Comment, error)
	deleteFn  func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *commentRepoStub) ListTopLevel(_ context.Context, _ uint) ([]*models.Comment, error) {
	return nil, nil
}
func (s *commentRepoStub) ListReplies(_ context.Context, _ uint) ([]*models.Comment, error) {
	return nil, nil
}
func (s *commentRepoStub) ListThread(_ context.Context, _ uint) ([]*models.Comment, error) {
	return nil, nil
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

// followerRepoStub is a stub for repository.FollowerRepository.
type followerRepoStub struct {
	followFn func(context.Context, uint, uint) (*models.Follower, error)
}

func (s *followerRepoStub) IsFollowing(_ context.Context, _, _ uint) (bool, error) { return false, nil }
func (s *followerRepoStub) Follow(ctx context.Context, followerID, followingID uint) (*models.Follower, error) {
	return s.followFn(ctx, followerID, followingID)
}
func (s *followerRepoStub) Unfollow(_ context.Context, _, _ uint) error { return nil }
func (s *followerRepoStub) ListFollowers(_ context.Context, _ uint) ([]models.User, error) {
	return nil, nil
}
func (s *followerRepoStub) ListFollowing(_ context.Context, _ uint) ([]models.User, error) {
	return nil, nil
}

// assertErrorCode asserts that err is an AppError carrying code.
func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertErrorCode(t, err, models.CodeValidation)
}
