package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"petchef/internal/models"
	"petchef/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T, matchers ...sqlmock.QueryMatcher) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	var db *sql.DB
	var mock sqlmock.Sqlmock
	var err error
	if len(matchers) > 0 {
		db, mock, err = sqlmock.New(sqlmock.QueryMatcherOption(matchers[0]))
	} else {
		db, mock, err = sqlmock.New()
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	return NewStorage(testutil.NewSQLiteDB(t), WithHashCost(bcrypt.MinCost))
}

func mustCreateUser(t *testing.T, s *Storage, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@x.com", Password: "Plain-Password-1!"}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func TestUserRepository_GetByID_OmitsPassword(t *testing.T) {
	matcher := sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		if strings.Contains(actual, "password") {
			return fmt.Errorf("query selects the password column: %s", actual)
		}
		return sqlmock.QueryMatcherRegexp.Match(expected, actual)
	})
	db, mock := setupMockDB(t, matcher)
	repo := NewStorage(db).Users
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        uint
		mockBehavior  func()
		expectedUser  *models.User
		expectedError string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email"}).
					AddRow(1, "ana", "ana@x.com")
				mock.ExpectQuery(`SELECT .+ FROM "users" WHERE "users"\."id" = \$1`).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Username: "ana", Email: "ana@x.com"},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(`SELECT .+ FROM "users" WHERE "users"\."id" = \$1`).
					WithArgs(99, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			expectedError: models.CodeNotFound,
		},
		{
			name:   "Database Error",
			userID: 1,
			mockBehavior: func() {
				mock.ExpectQuery(`SELECT .+ FROM "users"`).
					WithArgs(1, 1).
					WillReturnError(errors.New("connection timeout"))
			},
			expectedError: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, models.ErrorCode(err))
				assert.Nil(t, user)
			} else if assert.NotNil(t, user) {
				assert.Equal(t, tt.expectedUser.Username, user.Username)
				assert.Empty(t, user.Password)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Search_Postgres(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStorage(db).Users

	mock.ExpectQuery(regexp.QuoteMeta(`strpos(LOWER(username), $1) > 0 ORDER BY username ASC LIMIT $2`)).
		WithArgs("an", 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "ana"))

	users, err := repo.Search(context.Background(), "  AN ", 0, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Postgres(t *testing.T) {
	t.Run("Duplicate username", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewStorage(db, WithHashCost(bcrypt.MinCost)).Users

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"})
		mock.ExpectRollback()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE username = $1 AND id <> $2`)).
			WithArgs("ana", 0).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		u := &models.User{Username: "ana", Email: "ana@x.com", Password: "Plain-Password-1!"}
		err := repo.Create(context.Background(), u)
		require.Error(t, err)
		assert.True(t, models.IsDuplicateKey(err))

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "username", appErr.Field)
		assert.Empty(t, u.Password)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_CreateHashesPassword(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	u := &models.User{ID: 77, Username: "ana", Email: "ana@x.com", Password: "Plain-Password-1!"}
	require.NoError(t, s.Users.Create(ctx, u))
	assert.NotEqual(t, uint(77), u.ID, "caller supplied ids are ignored")
	assert.Empty(t, u.Password, "returned record has the hash stripped")

	stored, err := s.Users.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "Plain-Password-1!", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Plain-Password-1!")))

	byID, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, byID.Password)
	assert.Equal(t, "ana@x.com", byID.Email)

	byEmail, err := s.Users.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	missing, err := s.Users.GetByEmail(ctx, "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_Duplicates(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	mustCreateUser(t, s, "ana")

	tests := []struct {
		name      string
		user      models.User
		wantField string
	}{
		{"Same username", models.User{Username: "ana", Email: "other@x.com", Password: "pw"}, "username"},
		{"Same email", models.User{Username: "bea", Email: "ana@x.com", Password: "pw"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			err := s.Users.Create(ctx, &u)
			require.Error(t, err)
			assert.True(t, models.IsDuplicateKey(err))

			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantField, appErr.Field)
		})
	}
}

func TestUserRepository_Update(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	ana := mustCreateUser(t, s, "ana")
	mustCreateUser(t, s, "bob")

	city := "Lisboa"
	newPassword := "Another-Password-2!"
	updated, err := s.Users.Update(ctx, ana.ID, models.UserUpdate{City: &city, Password: &newPassword})
	require.NoError(t, err)
	assert.Equal(t, "Lisboa", *updated.City)
	assert.Equal(t, "ana", updated.Username, "unsupplied fields are unchanged")
	assert.Empty(t, updated.Password)
	assert.False(t, updated.UpdatedAt.Before(ana.UpdatedAt))

	stored, err := s.Users.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(newPassword)))

	taken := "bob"
	_, err = s.Users.Update(ctx, ana.ID, models.UserUpdate{Username: &taken})
	assert.True(t, models.IsDuplicateKey(err))

	_, err = s.Users.Update(ctx, 9999, models.UserUpdate{City: &city})
	assert.True(t, models.IsNotFound(err))

	unchanged, err := s.Users.Update(ctx, ana.ID, models.UserUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Lisboa", *unchanged.City)
}

func TestUserRepository_ProfileAndSearch(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	ana := mustCreateUser(t, s, "ana")
	bob := mustCreateUser(t, s, "bob")
	mustCreateUser(t, s, "joana")

	require.NoError(t, s.Pets.Create(ctx, &models.Pet{UserID: ana.ID, Name: "Rex", Type: models.PetTypeDog}))
	mustCreateRecipe(t, s, ana.ID, "Frango Assado")
	_, err := s.Followers.Follow(ctx, bob.ID, ana.ID)
	require.NoError(t, err)

	profile, err := s.Users.GetProfile(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.PetsCount)
	assert.Equal(t, int64(1), profile.RecipesCount)
	assert.Equal(t, int64(1), profile.FollowersCount)
	assert.Equal(t, int64(0), profile.FollowingCount)
	assert.Empty(t, profile.Password)

	_, err = s.Users.GetProfile(ctx, 4242)
	assert.True(t, models.IsNotFound(err))

	found, err := s.Users.Search(ctx, "ANA", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "ana", found[0].Username)
	assert.Equal(t, "joana", found[1].Username)
	for _, u := range found {
		assert.Empty(t, u.Password)
	}
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	ana := mustCreateUser(t, s, "ana")
	bob := mustCreateUser(t, s, "bob")

	require.NoError(t, s.Pets.Create(ctx, &models.Pet{UserID: ana.ID, Name: "Rex", Type: models.PetTypeDog}))
	recipe := mustCreateRecipe(t, s, ana.ID, "Frango Assado")
	bobsRecipe := mustCreateRecipe(t, s, bob.ID, "Peixe Cozido")

	top := &models.Comment{UserID: bob.ID, RecipeID: recipe.ID, Content: "Looks tasty"}
	require.NoError(t, s.Comments.Create(ctx, top))
	require.NoError(t, s.Comments.Create(ctx, &models.Comment{UserID: ana.ID, RecipeID: bobsRecipe.ID, Content: "Rex loved it"}))
	_, err := s.Favorites.Add(ctx, bob.ID, recipe.ID)
	require.NoError(t, err)
	_, err = s.Favorites.Add(ctx, ana.ID, bobsRecipe.ID)
	require.NoError(t, err)
	_, err = s.Followers.Follow(ctx, bob.ID, ana.ID)
	require.NoError(t, err)

	require.NoError(t, s.Users.Delete(ctx, ana.ID))

	db := s.DB()
	count := func(model any, where string, args ...any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Where(where, args...).Count(&n).Error)
		return n
	}
	assert.Zero(t, count(&models.Pet{}, "user_id = ?", ana.ID))
	assert.Zero(t, count(&models.Recipe{}, "user_id = ?", ana.ID))
	assert.Zero(t, count(&models.Comment{}, "recipe_id = ? OR user_id = ?", recipe.ID, ana.ID))
	assert.Zero(t, count(&models.Favorite{}, "recipe_id = ? OR user_id = ?", recipe.ID, ana.ID))
	assert.Zero(t, count(&models.Follower{}, "follower_id = ? OR following_id = ?", ana.ID, ana.ID))
	assert.Equal(t, int64(1), count(&models.Recipe{}, "user_id = ?", bob.ID))

	_, err = s.Users.GetByID(ctx, ana.ID)
	assert.True(t, models.IsNotFound(err))
	assert.True(t, models.IsNotFound(s.Users.Delete(ctx, ana.ID)))
}
