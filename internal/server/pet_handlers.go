package server

import (
	"petchef/internal/models"
	"petchef/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListMyPets handles GET /api/pets
// @Summary List own pets
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Pet
// @Router /pets [get]
func (s *Server) ListMyPets(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	pets, err := s.petService.ListPets(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(pets)
}

// GetUserPets handles GET /api/users/:id/pets
// @Summary List a user's pets
// @Tags pets
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Pet
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/pets [get]
func (s *Server) GetUserPets(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pets, err := s.petService.ListPets(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(pets)
}

// GetPet handles GET /api/pets/:id
// @Summary Get a pet
// @Tags pets
// @Produce json
// @Param id path int true "Pet ID"
// @Success 200 {object} models.Pet
// @Failure 404 {object} models.ErrorResponse
// @Router /pets/{id} [get]
func (s *Server) GetPet(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pet, err := s.petService.GetPet(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(pet)
}

// CreatePet handles POST /api/pets
// @Summary Create a pet
// @Tags pets
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body service.CreatePetInput true "Pet"
// @Success 201 {object} models.Pet
// @Failure 400 {object} models.ErrorResponse
// @Router /pets [post]
func (s *Server) CreatePet(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}

	var req service.CreatePetInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}
	req.UserID = userID

	url, err := s.uploads.Save(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	if url != "" {
		req.ProfileImageURL = ptr(url)
	}

	pet, err := s.petService.CreatePet(c.UserContext(), req)
	if err != nil {
		s.uploads.Discard(c.UserContext(), url)
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pet)
}

// UpdatePet handles PUT /api/pets/:id
// @Summary Update own pet
// @Tags pets
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pet ID"
// @Param request body models.PetUpdate true "Fields to change"
// @Success 200 {object} models.Pet
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /pets/{id} [put]
func (s *Server) UpdatePet(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	petID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req models.PetUpdate
	if err := bindBody(c, &req); err != nil {
		return nil
	}
	url, err := s.uploads.Save(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	if url != "" {
		req.ProfileImageURL = ptr(url)
	}

	pet, err := s.petService.UpdatePet(c.UserContext(), userID, petID, req)
	if err != nil {
		s.uploads.Discard(c.UserContext(), url)
		return respondServiceError(c, err)
	}
	return c.JSON(pet)
}

// DeletePet handles DELETE /api/pets/:id
// @Summary Delete own pet
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pet ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /pets/{id} [delete]
func (s *Server) DeletePet(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	petID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.petService.DeletePet(c.UserContext(), userID, petID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Pet deleted"})
}
