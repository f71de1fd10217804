package repository

import (
	"context"

	"petchef/internal/models"
)

// PetRepository defines persistence operations for pets.
type PetRepository interface {
	Create(ctx context.Context, pet *models.Pet) error
	GetByID(ctx context.Context, id uint) (*models.Pet, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Pet, error)
	Update(ctx context.Context, id uint, update models.PetUpdate) (*models.Pet, error)
	Delete(ctx context.Context, id uint) error
}

type petRepository struct {
	base
}

func (r *petRepository) Create(ctx context.Context, pet *models.Pet) error {
	pet.ID = 0
	if err := r.db.WithContext(ctx).Create(pet).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User", pet.UserID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *petRepository) GetByID(ctx context.Context, id uint) (*models.Pet, error) {
	var pet models.Pet
	if err := r.readDB(ctx).WithContext(ctx).First(&pet, id).Error; err != nil {
		return nil, notFoundOr(err, "Pet", id)
	}
	return &pet, nil
}

// ListByUser returns the user's pets, newest first.
func (r *petRepository) ListByUser(ctx context.Context, userID uint) ([]models.Pet, error) {
	pets := []models.Pet{}
	err := r.readDB(ctx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&pets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return pets, nil
}

func (r *petRepository) Update(ctx context.Context, id uint, update models.PetUpdate) (*models.Pet, error) {
	if cols := update.Columns(); len(cols) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Pet{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, models.NewNotFoundError("Pet", id)
		}
	}

	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, id).Error; err != nil {
		return nil, notFoundOr(err, "Pet", id)
	}
	return &pet, nil
}

func (r *petRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Pet{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Pet", id)
	}
	return nil
}
