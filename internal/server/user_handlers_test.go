package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"petchef/internal/models"
	"petchef/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetUserProfile(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockUserRepository)
	s := &Server{userService: service.NewUserService(mockRepo)}

	app.Get("/users/:id", s.GetUserProfile)

	tests := []struct {
		name           string
		userIDParam    string
		mockSetup      func()
		expectedStatus int
	}{
		{
			name:        "Success",
			userIDParam: "1",
			mockSetup: func() {
				mockRepo.On("GetProfile", mock.Anything, uint(1)).
					Return(&models.UserProfile{User: models.User{ID: 1, Username: "ana"}, PetsCount: 2}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid ID",
			userIDParam:    "abc",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Zero ID",
			userIDParam:    "0",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Not Found",
			userIDParam: "99",
			mockSetup: func() {
				mockRepo.On("GetProfile", mock.Anything, uint(99)).Return(nil, models.NewNotFoundError("User", 99))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Storage failure",
			userIDParam: "7",
			mockSetup: func() {
				mockRepo.On("GetProfile", mock.Anything, uint(7)).Return(nil, models.NewInternalError(errors.New("connection reset")))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			req := httptest.NewRequest(http.MethodGet, "/users/"+tt.userIDParam, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
	mockRepo.AssertExpectations(t)
}

func TestSearchUsers(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockUserRepository)
	s := &Server{userService: service.NewUserService(mockRepo)}
	app.Get("/users", s.SearchUsers)

	mockRepo.On("Search", mock.Anything, "ana", 100, 5).Return([]models.User{{ID: 1, Username: "ana"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users?q=ana&limit=500&offset=5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestUpdateMyProfile_Unauthenticated(t *testing.T) {
	app := fiber.New()
	s := &Server{userService: service.NewUserService(new(MockUserRepository))}
	app.Put("/users/profile", s.UpdateMyProfile)

	req := httptest.NewRequest(http.MethodPut, "/users/profile", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
