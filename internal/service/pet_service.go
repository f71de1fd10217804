package service

import (
	"context"

	"petchef/internal/models"
	"petchef/internal/repository"
	"petchef/internal/validation"
)

type PetService struct {
	petRepo  repository.PetRepository
	userRepo repository.UserRepository
}

// CreatePetInput is the insertion contract for a pet.
type CreatePetInput struct {
	UserID          uint           `json:"-"`
	Name            string         `json:"name" form:"name" validate:"required,max=100"`
	Type            models.PetType `json:"type" form:"type" validate:"required,pettype"`
	Breed           *string        `json:"breed,omitempty" form:"breed" validate:"omitempty,max=100"`
	Age             *int           `json:"age,omitempty" form:"age" validate:"omitempty,gte=0,lte=100"`
	Weight          *float64       `json:"weight,omitempty" form:"weight" validate:"omitempty,gt=0"`
	ProfileImageURL *string        `json:"profileImageUrl,omitempty" form:"profileImageUrl" validate:"omitempty,max=500"`
}

func NewPetService(petRepo repository.PetRepository, userRepo repository.UserRepository) *PetService {
	return &PetService{petRepo: petRepo, userRepo: userRepo}
}

func (s *PetService) CreatePet(ctx context.Context, in CreatePetInput) (*models.Pet, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	pet := &models.Pet{
		UserID:          in.UserID,
		Name:            in.Name,
		Type:            in.Type,
		Breed:           in.Breed,
		Age:             in.Age,
		Weight:          in.Weight,
		ProfileImageURL: in.ProfileImageURL,
	}
	if err := s.petRepo.Create(ctx, pet); err != nil {
		return nil, err
	}
	return pet, nil
}

func (s *PetService) GetPet(ctx context.Context, id uint) (*models.Pet, error) {
	return s.petRepo.GetByID(ctx, id)
}

// ListPets returns the user's pets, newest first.
func (s *PetService) ListPets(ctx context.Context, userID uint) ([]models.Pet, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.petRepo.ListByUser(ctx, userID)
}

func (s *PetService) UpdatePet(ctx context.Context, userID, petID uint, in models.PetUpdate) (*models.Pet, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.ownedPet(ctx, userID, petID); err != nil {
		return nil, err
	}
	return s.petRepo.Update(ctx, petID, in)
}

func (s *PetService) DeletePet(ctx context.Context, userID, petID uint) error {
	if _, err := s.ownedPet(ctx, userID, petID); err != nil {
		return err
	}
	return s.petRepo.Delete(ctx, petID)
}

func (s *PetService) ownedPet(ctx context.Context, userID, petID uint) (*models.Pet, error) {
	pet, err := s.petRepo.GetByID(repository.UsePrimary(ctx), petID)
	if err != nil {
		return nil, err
	}
	if pet.UserID != userID {
		return nil, models.NewForbiddenError("You can only modify your own pets")
	}
	return pet, nil
}
