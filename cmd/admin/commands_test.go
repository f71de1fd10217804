package main

import (
	"bytes"
	"context"
	"testing"

	"petchef/internal/models"
	"petchef/internal/repository"
	"petchef/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAdminFixture(t *testing.T) (*repository.Storage, *models.User) {
	t.Helper()
	store := repository.NewStorage(testutil.NewSQLiteDB(t), repository.WithHashCost(bcrypt.MinCost))

	user := &models.User{Username: "ana", Email: "ana@x.com", Password: "Plain-Password-1!"}
	require.NoError(t, store.Users.Create(context.Background(), user))
	require.NoError(t, store.Users.Create(context.Background(),
		&models.User{Username: "bob", Email: "bob@x.com", Password: "Plain-Password-1!"}))
	return store, user
}

func runAdmin(t *testing.T, store *repository.Storage, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(func() (*repository.Storage, error) { return store, nil })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestListUsers(t *testing.T) {
	store, _ := newAdminFixture(t)

	out, err := runAdmin(t, store, "list-users")
	require.NoError(t, err)
	assert.Contains(t, out, "ana@x.com")
	assert.Contains(t, out, "bob@x.com")

	out, err = runAdmin(t, store, "list-users", "-q", "AN")
	require.NoError(t, err)
	assert.Contains(t, out, "ana")
	assert.NotContains(t, out, "bob")
}

func TestShowUser(t *testing.T) {
	store, ana := newAdminFixture(t)

	out, err := runAdmin(t, store, "show-user", "ana")
	require.NoError(t, err)
	assert.Contains(t, out, "email:     ana@x.com")
	assert.Contains(t, out, "recipes:   0")

	_, err = runAdmin(t, store, "show-user", "999")
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	byID, err := runAdmin(t, store, "show-user", "1")
	require.NoError(t, err)
	assert.Contains(t, byID, ana.Username)
}

func TestDeleteUser(t *testing.T) {
	store, ana := newAdminFixture(t)

	_, err := runAdmin(t, store, "delete-user", "ana")
	require.Error(t, err, "deletion needs --yes")

	out, err := runAdmin(t, store, "delete-user", "ana", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted user ana")

	_, err = store.Users.GetByID(context.Background(), ana.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestResetPassword(t *testing.T) {
	store, _ := newAdminFixture(t)

	_, err := runAdmin(t, store, "reset-password", "ana", "short")
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	out, err := runAdmin(t, store, "reset-password", "ana", "Brand-New-Pass-2!")
	require.NoError(t, err)
	assert.Contains(t, out, "password reset for ana")

	user, err := store.Users.GetByUsername(context.Background(), "ana")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Brand-New-Pass-2!")))
}
