// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"petchef/internal/models"
	"petchef/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

// DemoPassword is the plaintext password of every seeded account.
const DemoPassword = "Petchef-Demo-1!"

var (
	proteins = map[models.RecipeCategory][]string{
		models.CategoryMeat:    {"beef", "lamb", "pork", "venison", "rabbit"},
		models.CategoryPoultry: {"chicken", "turkey", "duck", "quail"},
		models.CategoryFish:    {"salmon", "sardines", "cod", "mackerel", "tuna"},
		models.CategoryTreats:  {"pumpkin", "peanut butter", "sweet potato", "apple", "banana"},
	}

	sides = []string{
		"brown rice", "carrots", "peas", "spinach", "oats", "quinoa", "green beans",
		"zucchini", "blueberries", "egg", "fish oil", "kale", "parsley", "bone broth",
	}

	dishes = map[models.CookingType][]string{
		models.CookingRaw:    {"Bowl", "Mix", "Tartare"},
		models.CookingCooked: {"Stew", "Skillet", "Hash", "Porridge"},
		models.CookingBaked:  {"Bake", "Loaf", "Biscuits", "Assado"},
		models.CookingMixed:  {"Medley", "Topper", "Feast"},
	}

	// small curated set of public YouTube IDs
	youtubeIDs = []string{"dQw4w9WgXcQ", "9bZkp7q19f0", "3JZ_D3ELwOQ", "L_jWHffIx5E", "kXYiU_JCYtU"}

	petTypes     = []models.PetType{models.PetTypeDog, models.PetTypeCat}
	categories   = []models.RecipeCategory{models.CategoryMeat, models.CategoryPoultry, models.CategoryFish, models.CategoryTreats}
	cookingTypes = []models.CookingType{models.CookingRaw, models.CookingCooked, models.CookingBaked, models.CookingMixed}
)

// Factory builds domain entities and persists them through the storage
// layer, so passwords are hashed and constraints apply as they do for API
// traffic.
type Factory struct {
	store *repository.Storage
	opts  Options
	faker *gofakeit.Faker
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a Factory bound to store. A zero Options.RandSeed
// seeds from the clock.
func NewFactory(store *repository.Storage, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{store: store, opts: opts, faker: gofakeit.New(seed), nextID: 1000}
}

func pick[T any](f *Factory, items []T) T {
	return items[f.faker.Number(0, len(items)-1)]
}

// backdate returns a creation time spread over the last MaxDays days.
func (f *Factory) backdate() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	offset := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute
	return time.Now().Add(-offset)
}

func (f *Factory) assignID() uint {
	f.nextID++
	return f.nextID
}

// BuildUser constructs a user with a plaintext DemoPassword. It does not persist it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	username := fmt.Sprintf("%s%d", usernameStem(f.faker.FirstName()), f.faker.Number(100, 9999))
	if len(username) > 30 {
		username = username[:30]
	}
	first, last := f.faker.FirstName(), f.faker.LastName()
	state, city := f.faker.State(), f.faker.City()

	user := &models.User{
		Username:        username,
		Email:           username + "@" + f.faker.DomainName(),
		Password:        DemoPassword,
		FirstName:       &first,
		LastName:        &last,
		State:           &state,
		City:            &city,
		ProfileImageURL: ptr(fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username)),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser builds and persists a user. Generated usernames that collide
// are regenerated a few times before giving up.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	const attempts = 3
	var err error
	for range attempts {
		user := f.BuildUser(overrides...)
		if f.opts.DryRun {
			user.ID = f.assignID()
			log.Printf("[dry-run] CreateUser: %s", user.Username)
			return user, nil
		}
		if err = f.store.Users.Create(ctx, user); err == nil {
			return user, nil
		}
		if !models.IsDuplicateKey(err) {
			return nil, err
		}
	}
	return nil, err
}

// BuildPet constructs a pet for owner without persisting it.
func (f *Factory) BuildPet(owner *models.User, overrides ...func(*models.Pet)) *models.Pet {
	petType := pick(f, petTypes)
	breed := f.faker.Dog()
	weight := f.faker.Float64Range(3, 40)
	if petType == models.PetTypeCat {
		breed = f.faker.Cat()
		weight = f.faker.Float64Range(2, 8)
	}
	age := f.faker.Number(0, 18)
	weight = float64(int(weight*10)) / 10

	pet := &models.Pet{
		UserID:          owner.ID,
		Name:            f.faker.PetName(),
		Type:            petType,
		Breed:           &breed,
		Age:             &age,
		Weight:          &weight,
		ProfileImageURL: ptr(fmt.Sprintf("https://picsum.photos/seed/pet-%s/400/400", f.faker.UUID())),
	}
	for _, override := range overrides {
		override(pet)
	}
	return pet
}

// CreatePet builds and persists a pet for owner.
func (f *Factory) CreatePet(ctx context.Context, owner *models.User, overrides ...func(*models.Pet)) (*models.Pet, error) {
	pet := f.BuildPet(owner, overrides...)
	if f.opts.DryRun {
		pet.ID = f.assignID()
		log.Printf("[dry-run] CreatePet: %s (%s) owner=%d", pet.Name, pet.Type, pet.UserID)
		return pet, nil
	}
	if err := f.store.Pets.Create(ctx, pet); err != nil {
		return nil, err
	}
	return pet, nil
}

// BuildRecipe constructs a recipe authored by author without persisting it.
// Title, ingredients and dish name follow the drawn category and cooking type.
func (f *Factory) BuildRecipe(author *models.User, overrides ...func(*models.Recipe)) *models.Recipe {
	category := pick(f, categories)
	cooking := pick(f, cookingTypes)
	protein := pick(f, proteins[category])

	ingredients := []string{protein}
	for range f.faker.Number(2, 4) {
		ingredients = append(ingredients, pick(f, sides))
	}

	steps := make([]string, 0, 4)
	for i := range f.faker.Number(3, 5) {
		steps = append(steps, fmt.Sprintf("%d. %s", i+1, f.faker.Sentence(8)))
	}

	recipe := &models.Recipe{
		UserID:       author.ID,
		Title:        titleCase(f.faker.Adjective() + " " + protein + " " + pick(f, dishes[cooking])),
		Ingredients:  strings.Join(ingredients, ", "),
		Instructions: strings.Join(steps, "\n"),
		PetType:      pick(f, petTypes),
		Category:     category,
		CookingType:  cooking,
		PrepTime:     f.faker.Number(1, 24) * 5,
		ImageURL:     ptr(fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.faker.UUID())),
		CreatedAt:    f.backdate(),
	}
	if f.faker.Number(0, 3) == 0 {
		recipe.YoutubeURL = ptr("https://www.youtube.com/watch?v=" + pick(f, youtubeIDs))
	}
	if len(recipe.Title) > 200 {
		recipe.Title = recipe.Title[:200]
	}
	for _, override := range overrides {
		override(recipe)
	}
	return recipe
}

// CreateRecipe builds and persists a recipe for author.
func (f *Factory) CreateRecipe(ctx context.Context, author *models.User, overrides ...func(*models.Recipe)) (*models.Recipe, error) {
	recipe := f.BuildRecipe(author, overrides...)
	if f.opts.DryRun {
		recipe.ID = f.assignID()
		log.Printf("[dry-run] CreateRecipe: %q author=%d", recipe.Title, recipe.UserID)
		return recipe, nil
	}
	if err := f.store.Recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// CreateComment persists a comment by user on recipe, as a reply when parent is set.
func (f *Factory) CreateComment(ctx context.Context, user *models.User, recipe *models.Recipe, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:   user.ID,
		RecipeID: recipe.ID,
		Content:  f.faker.Sentence(f.faker.Number(4, 14)),
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if f.opts.DryRun {
		comment.ID = f.assignID()
		return comment, nil
	}
	if err := f.store.Comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Favorite records user favoriting recipe and reports whether a new row
// was written. Existing favorites are not an error.
func (f *Factory) Favorite(ctx context.Context, user *models.User, recipe *models.Recipe) (bool, error) {
	if f.opts.DryRun {
		return true, nil
	}
	_, err := f.store.Favorites.Add(ctx, user.ID, recipe.ID)
	return created(err)
}

// Follow makes follower follow target and reports whether a new edge was
// written. Self-follows are skipped and existing edges are not an error.
func (f *Factory) Follow(ctx context.Context, follower, target *models.User) (bool, error) {
	if follower.ID == target.ID {
		return false, nil
	}
	if f.opts.DryRun {
		return true, nil
	}
	_, err := f.store.Followers.Follow(ctx, follower.ID, target.ID)
	return created(err)
}

func created(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case models.IsDuplicateKey(err):
		return false, nil
	default:
		return false, err
	}
}

// usernameStem lowercases name and drops anything a username cannot contain.
func usernameStem(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "chef"
	}
	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func ptr[T any](v T) *T {
	return &v
}
