package seed

import (
	"context"
	"fmt"
	"log"

	"petchef/internal/models"
	"petchef/internal/repository"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers          int
	PetsPerUser       int
	RecipesPerUser    int
	CommentsPerRecipe int
	// FavoritesPerUser and FollowsPerUser are upper bounds; picks that land
	// on an existing edge are skipped.
	FavoritesPerUser int
	FollowsPerUser   int
	ShouldClean      bool
	DryRun           bool
	MaxDays          int
	RandSeed         int64
}

// DefaultOptions is a small but fully connected demo dataset.
func DefaultOptions() Options {
	return Options{
		NumUsers:          20,
		PetsPerUser:       2,
		RecipesPerUser:    3,
		CommentsPerRecipe: 3,
		FavoritesPerUser:  5,
		FollowsPerUser:    4,
		MaxDays:           90,
	}
}

// Summary counts what a seeding run created.
type Summary struct {
	Users     int
	Pets      int
	Recipes   int
	Comments  int
	Favorites int
	Follows   int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d users, %d pets, %d recipes, %d comments, %d favorites, %d follows",
		s.Users, s.Pets, s.Recipes, s.Comments, s.Favorites, s.Follows)
}

// Seeder populates a database with demo data.
type Seeder struct {
	store   *repository.Storage
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder writing through store.
func NewSeeder(store *repository.Storage, opts Options) *Seeder {
	return &Seeder{store: store, factory: NewFactory(store, opts), opts: opts}
}

// Factory exposes the entity factory for callers composing their own data.
func (s *Seeder) Factory() *Factory {
	return s.factory
}

// Run seeds the demo accounts and then NumUsers generated users with their
// pets, recipes, comments, favorites and follows.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	log.Printf("🌱 Starting database seeding with %d users...", s.opts.NumUsers)

	if s.opts.ShouldClean && !s.opts.DryRun {
		if err := Clean(ctx, s.store.DB()); err != nil {
			return nil, fmt.Errorf("clean: %w", err)
		}
	}

	sum := &Summary{}
	demo, err := s.seedDemo(ctx, sum)
	if err != nil {
		return nil, fmt.Errorf("demo accounts: %w", err)
	}

	users := append([]*models.User{}, demo...)
	for i := 0; i < s.opts.NumUsers; i++ {
		u, err := s.factory.CreateUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
		sum.Users++
	}
	log.Printf("✓ %d users created", sum.Users)

	var recipes []*models.Recipe
	for _, u := range users[len(demo):] {
		for range s.opts.PetsPerUser {
			if _, err := s.factory.CreatePet(ctx, u); err != nil {
				return nil, fmt.Errorf("create pet: %w", err)
			}
			sum.Pets++
		}
		for range s.opts.RecipesPerUser {
			r, err := s.factory.CreateRecipe(ctx, u)
			if err != nil {
				return nil, fmt.Errorf("create recipe: %w", err)
			}
			recipes = append(recipes, r)
			sum.Recipes++
		}
	}
	log.Printf("✓ %d pets and %d recipes created", sum.Pets, sum.Recipes)

	if err := s.seedComments(ctx, users, recipes, sum); err != nil {
		return nil, err
	}
	if err := s.seedSocial(ctx, users, recipes, sum); err != nil {
		return nil, err
	}

	log.Printf("✅ Seeding complete: %s", sum)
	return sum, nil
}

// seedDemo creates the fixed accounts ana and bob: ana owns Rex and the
// Frango Assado recipe, which bob has favorited.
func (s *Seeder) seedDemo(ctx context.Context, sum *Summary) ([]*models.User, error) {
	f := s.factory
	ana, err := f.CreateUser(ctx, func(u *models.User) {
		u.Username, u.Email = "ana", "ana@x.com"
	})
	if err != nil {
		return nil, err
	}
	bob, err := f.CreateUser(ctx, func(u *models.User) {
		u.Username, u.Email = "bob", "bob@x.com"
	})
	if err != nil {
		return nil, err
	}
	sum.Users += 2

	if _, err := f.CreatePet(ctx, ana, func(p *models.Pet) {
		p.Name, p.Type = "Rex", models.PetTypeDog
	}); err != nil {
		return nil, err
	}
	sum.Pets++

	frango, err := f.CreateRecipe(ctx, ana, func(r *models.Recipe) {
		r.Title = "Frango Assado"
		r.Ingredients = "chicken thighs, brown rice, carrots, parsley"
		r.PetType = models.PetTypeDog
		r.Category = models.CategoryPoultry
		r.CookingType = models.CookingBaked
		r.PrepTime = 40
		r.YoutubeURL = nil
	})
	if err != nil {
		return nil, err
	}
	sum.Recipes++

	if _, err := f.Favorite(ctx, bob, frango); err != nil {
		return nil, err
	}
	sum.Favorites++
	return []*models.User{ana, bob}, nil
}

func (s *Seeder) seedComments(ctx context.Context, users []*models.User, recipes []*models.Recipe, sum *Summary) error {
	f := s.factory
	for _, r := range recipes {
		var last *models.Comment
		for i := range s.opts.CommentsPerRecipe {
			var parent *models.Comment
			// every third comment answers the previous one
			if i%3 == 2 && last != nil {
				parent = last
			}
			c, err := f.CreateComment(ctx, pick(f, users), r, parent)
			if err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
			last = c
			sum.Comments++
		}
	}
	log.Printf("✓ %d comments created", sum.Comments)
	return nil
}

func (s *Seeder) seedSocial(ctx context.Context, users []*models.User, recipes []*models.Recipe, sum *Summary) error {
	f := s.factory
	for _, u := range users {
		if len(recipes) > 0 {
			for range s.opts.FavoritesPerUser {
				ok, err := f.Favorite(ctx, u, pick(f, recipes))
				if err != nil {
					return fmt.Errorf("favorite: %w", err)
				}
				if ok {
					sum.Favorites++
				}
			}
		}
		for range s.opts.FollowsPerUser {
			ok, err := f.Follow(ctx, u, pick(f, users))
			if err != nil {
				return fmt.Errorf("follow: %w", err)
			}
			if ok {
				sum.Follows++
			}
		}
	}
	log.Printf("✓ social graph created")
	return nil
}

// Clean deletes every user. Foreign-key cascades remove the rest.
func Clean(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.User{}).Error
}
