// Package memstore is an in-memory implementation of every domain repository.
// It emulates the unique constraints and cascades of the PostgreSQL schema so
// usecase and handler tests can run without a database.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

type pair struct {
	left, right uint
}

// Store holds all tables behind one mutex
type Store struct {
	mu    sync.Mutex
	seq   uint
	clock time.Time

	users       map[uint]domain.User
	tags        map[uint]domain.Tag
	ingredients map[uint]domain.Ingredient
	recipes     map[uint]domain.Recipe
	recipeTags  map[uint][]uint
	lines       map[uint][]domain.RecipeIngredient
	favorites   map[pair]bool // (user, recipe)
	cart        map[pair]bool // (user, recipe)
	follows     map[pair]bool // (subscriber, author)
}

// New creates an empty store
func New() *Store {
	return &Store{
		clock:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		users:       map[uint]domain.User{},
		tags:        map[uint]domain.Tag{},
		ingredients: map[uint]domain.Ingredient{},
		recipes:     map[uint]domain.Recipe{},
		recipeTags:  map[uint][]uint{},
		lines:       map[uint][]domain.RecipeIngredient{},
		favorites:   map[pair]bool{},
		cart:        map[pair]bool{},
		follows:     map[pair]bool{},
	}
}

func (s *Store) nextID() uint {
	s.seq++
	return s.seq
}

// tick advances the fake clock so insertion order is visible in timestamps.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// Users returns the user repository
func (s *Store) Users() domain.UserRepository { return &userRepo{s} }

// Tags returns the tag repository
func (s *Store) Tags() domain.TagRepository { return &tagRepo{s} }

// Ingredients returns the ingredient repository
func (s *Store) Ingredients() domain.IngredientRepository { return &ingredientRepo{s} }

// Recipes returns the recipe repository
func (s *Store) Recipes() domain.RecipeRepository { return &recipeRepo{s} }

// Favorites returns the favorite relation repository
func (s *Store) Favorites() domain.MembershipRepository {
	return &membershipRepo{s: s, kind: domain.KindFavorite, rows: s.favorites}
}

// ShoppingCart returns the shopping cart relation repository
func (s *Store) ShoppingCart() domain.MembershipRepository {
	return &membershipRepo{s: s, kind: domain.KindShoppingCart, rows: s.cart}
}

// Subscriptions returns the subscription repository
func (s *Store) Subscriptions() domain.SubscriptionRepository { return &subscriptionRepo{s} }

// AddTag inserts a tag directly
func (s *Store) AddTag(name, color, slug string) domain.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag := domain.Tag{ID: s.nextID(), Name: name, Color: color, Slug: slug}
	s.tags[tag.ID] = tag
	return tag
}

// AddIngredient inserts an ingredient directly
func (s *Store) AddIngredient(name, unit string) domain.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	ing := domain.Ingredient{ID: s.nextID(), Name: name, MeasurementUnit: unit}
	s.ingredients[ing.ID] = ing
	return ing
}

// RecipeCount returns the number of stored recipes
func (s *Store) RecipeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipes)
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return domain.ErrDuplicate
		}
	}
	user.ID = r.s.nextID()
	user.CreatedAt = r.s.tick()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findBy(func(u domain.User) bool { return u.Email == email })
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.findBy(func(u domain.User) bool { return u.Username == username })
}

func (r *userRepo) findBy(match func(domain.User) bool) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepo) FindAll(_ context.Context, limit, offset int) ([]domain.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return page(users, limit, offset), int64(len(users)), nil
}

func (r *userRepo) UpdatePassword(_ context.Context, id uint, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Password = hash
	r.s.users[id] = u
	return nil
}

type tagRepo struct{ s *Store }

func (r *tagRepo) FindAll(_ context.Context) ([]domain.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tags := make([]domain.Tag, 0, len(r.s.tags))
	for _, t := range r.s.tags {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (r *tagRepo) FindByID(_ context.Context, id uint) (*domain.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tags[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *tagRepo) FindBySlugs(_ context.Context, slugs []string) ([]domain.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		want[s] = true
	}
	var out []domain.Tag
	for _, t := range r.s.tags {
		if want[t.Slug] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *tagRepo) CountByIDs(_ context.Context, ids []uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range distinct(ids) {
		if _, ok := r.s.tags[id]; ok {
			n++
		}
	}
	return n, nil
}

func (r *tagRepo) Upsert(_ context.Context, tags []domain.Tag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, in := range tags {
		updated := false
		for id, t := range r.s.tags {
			if t.Slug == in.Slug {
				t.Name, t.Color = in.Name, in.Color
				r.s.tags[id] = t
				updated = true
				break
			}
		}
		if !updated {
			in.ID = r.s.nextID()
			r.s.tags[in.ID] = in
		}
	}
	return nil
}

type ingredientRepo struct{ s *Store }

func (r *ingredientRepo) FindAll(_ context.Context, namePrefix string) ([]domain.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prefix := strings.ToLower(namePrefix)
	out := []domain.Ingredient{}
	for _, ing := range r.s.ingredients {
		if strings.HasPrefix(strings.ToLower(ing.Name), prefix) {
			out = append(out, ing)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ingredientRepo) FindByID(_ context.Context, id uint) (*domain.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ing, ok := r.s.ingredients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ing, nil
}

func (r *ingredientRepo) CountByIDs(_ context.Context, ids []uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range distinct(ids) {
		if _, ok := r.s.ingredients[id]; ok {
			n++
		}
	}
	return n, nil
}

type membershipRepo struct {
	s    *Store
	kind domain.MembershipKind
	rows map[pair]bool
}

func (r *membershipRepo) Kind() domain.MembershipKind { return r.kind }

func (r *membershipRepo) Add(_ context.Context, userID, recipeID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.recipes[recipeID]; !ok {
		return domain.ErrNotFound
	}
	key := pair{userID, recipeID}
	if r.rows[key] {
		return domain.ErrDuplicate
	}
	r.rows[key] = true
	return nil
}

func (r *membershipRepo) Remove(_ context.Context, userID, recipeID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.rows, pair{userID, recipeID})
	return nil
}

func (r *membershipRepo) Exists(_ context.Context, userID, recipeID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.rows[pair{userID, recipeID}], nil
}

func (r *membershipRepo) Contains(_ context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[uint]bool{}
	for _, id := range recipeIDs {
		if r.rows[pair{userID, id}] {
			out[id] = true
		}
	}
	return out, nil
}

type subscriptionRepo struct{ s *Store }

func (r *subscriptionRepo) Create(_ context.Context, sub *domain.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pair{sub.SubscriberID, sub.AuthorID}
	if r.s.follows[key] {
		return domain.ErrDuplicate
	}
	r.s.follows[key] = true
	sub.ID = r.s.nextID()
	sub.CreatedAt = r.s.tick()
	return nil
}

func (r *subscriptionRepo) Delete(_ context.Context, subscriberID, authorID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pair{subscriberID, authorID}
	if !r.s.follows[key] {
		return domain.ErrNotFound
	}
	delete(r.s.follows, key)
	return nil
}

func (r *subscriptionRepo) Exists(_ context.Context, subscriberID, authorID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.follows[pair{subscriberID, authorID}], nil
}

func (r *subscriptionRepo) FindAuthors(_ context.Context, subscriberID uint, limit, offset int) ([]domain.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	authors := []domain.User{}
	for key := range r.s.follows {
		if key.left == subscriberID {
			authors = append(authors, r.s.users[key.right])
		}
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].Username < authors[j].Username })
	return page(authors, limit, offset), int64(len(authors)), nil
}

func (r *subscriptionRepo) SubscribedTo(_ context.Context, subscriberID uint, authorIDs []uint) (map[uint]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[uint]bool{}
	for _, id := range authorIDs {
		if r.s.follows[pair{subscriberID, id}] {
			out[id] = true
		}
	}
	return out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func distinct(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
