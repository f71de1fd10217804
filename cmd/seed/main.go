// Command main runs the database seeder for PetChef.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"petchef/internal/bootstrap"
	"petchef/internal/config"
	"petchef/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	numUsers := flag.Int("users", defaults.NumUsers, "Number of random users to create")
	pets := flag.Int("pets", defaults.PetsPerUser, "Pets per user")
	recipes := flag.Int("recipes", defaults.RecipesPerUser, "Recipes per user")
	comments := flag.Int("comments", defaults.CommentsPerRecipe, "Comments per recipe")
	favorites := flag.Int("favorites", defaults.FavoritesPerUser, "Maximum favorites per user")
	follows := flag.Int("follows", defaults.FollowsPerUser, "Maximum follows per user")
	maxDays := flag.Int("days", defaults.MaxDays, "Spread created_at over this many past days")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Build entities without writing them")
	flag.Parse()

	if *randSeed == 0 {
		*randSeed = time.Now().UnixNano()
	}

	log.Println("🌱 PetChef Seeder")
	log.Printf("Target: %d users, %d pets/user, %d recipes/user, clean=%v dry_run=%v seed=%d",
		*numUsers, *pets, *recipes, *shouldClean, *dryRun, *randSeed)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	rt, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	store := bootstrap.NewStorage(cfg, rt.DB, rt.Redis)
	s := seed.NewSeeder(store, seed.Options{
		NumUsers:          *numUsers,
		PetsPerUser:       *pets,
		RecipesPerUser:    *recipes,
		CommentsPerRecipe: *comments,
		FavoritesPerUser:  *favorites,
		FollowsPerUser:    *follows,
		ShouldClean:       *shouldClean,
		DryRun:            *dryRun,
		MaxDays:           *maxDays,
		RandSeed:          *randSeed,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✅ %s", summary)
	log.Printf("Demo login: ana / %s", seed.DemoPassword)
}
