// Package service holds the domain rules that sit between the HTTP handlers
// and the storage layer: input validation, ownership checks and
// cross-entity preconditions.
package service

import (
	"context"
	"strings"

	"petchef/internal/models"
	"petchef/internal/observability"
	"petchef/internal/repository"
	"petchef/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
}

// RegisterInput is the insertion contract for a new account.
type RegisterInput struct {
	Username  string  `json:"username" form:"username" validate:"required"`
	Email     string  `json:"email" form:"email" validate:"required"`
	Password  string  `json:"password" form:"password" validate:"required"`
	FirstName *string `json:"firstName,omitempty" form:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" form:"lastName" validate:"omitempty,max=100"`
	State     *string `json:"state,omitempty" form:"state" validate:"omitempty,max=100"`
	City      *string `json:"city,omitempty" form:"city" validate:"omitempty,max=100"`
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register validates the input and creates the account. The returned user
// never carries the password hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (user *models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "Register")
	defer func() { observability.EndSpan(span, err) }()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := checkCredentials(&in.Username, &in.Email, &in.Password); err != nil {
		return nil, err
	}

	user = &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		State:     in.State,
		City:      in.City,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (user *models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "Authenticate")
	defer func() { observability.EndSpan(span, err) }()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}

	user.Password = ""
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.UserProfile, error) {
	return s.userRepo.GetProfile(ctx, id)
}

// UpdateProfile applies a partial update to the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in models.UserUpdate) (*models.User, error) {
	if in.IsEmpty() {
		return nil, models.NewValidationError("No fields to update")
	}
	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		in.Username = &v
	}
	if in.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &v
	}

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := checkCredentials(in.Username, in.Email, in.Password); err != nil {
		return nil, err
	}

	return s.userRepo.Update(ctx, userID, in)
}

// DeleteAccount removes the user together with everything they own.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	return s.userRepo.Delete(ctx, userID)
}

func (s *UserService) Search(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	const maxQueryLen = 100
	query = strings.TrimSpace(query)
	if len(query) > maxQueryLen {
		return nil, models.NewFieldValidationError("q", "Search query too long (max 100 characters)")
	}
	return s.userRepo.Search(ctx, query, limit, offset)
}

// checkCredentials runs the account field rules on whichever values are set.
func checkCredentials(username, email, password *string) error {
	if username != nil {
		if err := validation.ValidateUsername(*username); err != nil {
			return models.NewFieldValidationError("username", err.Error())
		}
	}
	if email != nil {
		if err := validation.ValidateEmail(*email); err != nil {
			return models.NewFieldValidationError("email", err.Error())
		}
	}
	if password != nil {
		if err := validation.ValidatePassword(*password); err != nil {
			return models.NewFieldValidationError("password", err.Error())
		}
	}
	return nil
}
