package memstore

import (
	"context"
	"sort"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

type recipeRepo struct{ s *Store }

func (r *recipeRepo) Create(_ context.Context, recipe *domain.Recipe, tagIDs []uint, lines []domain.IngredientLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[recipe.AuthorID]; !ok {
		return domain.ErrNotFound
	}
	rows, err := r.buildLines(0, lines)
	if err != nil {
		return err
	}
	if err := r.checkTags(tagIDs); err != nil {
		return err
	}

	recipe.ID = r.s.nextID()
	recipe.PubDate = r.s.tick()
	for i := range rows {
		rows[i].RecipeID = recipe.ID
	}

	stored := *recipe
	stored.Author = domain.User{}
	stored.Tags = nil
	stored.Ingredients = nil
	r.s.recipes[recipe.ID] = stored
	r.s.recipeTags[recipe.ID] = append([]uint(nil), tagIDs...)
	r.s.lines[recipe.ID] = rows
	return nil
}

// buildLines validates lines like the foreign keys and the unique index would.
func (r *recipeRepo) buildLines(recipeID uint, lines []domain.IngredientLine) ([]domain.RecipeIngredient, error) {
	seen := map[uint]bool{}
	rows := make([]domain.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		if _, ok := r.s.ingredients[line.IngredientID]; !ok {
			return nil, domain.ErrNotFound
		}
		if seen[line.IngredientID] {
			return nil, domain.ErrDuplicate
		}
		seen[line.IngredientID] = true
		rows = append(rows, domain.RecipeIngredient{
			ID:           r.s.nextID(),
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		})
	}
	return rows, nil
}

func (r *recipeRepo) checkTags(tagIDs []uint) error {
	seen := map[uint]bool{}
	for _, id := range tagIDs {
		if _, ok := r.s.tags[id]; !ok {
			return domain.ErrNotFound
		}
		if seen[id] {
			return domain.ErrDuplicate
		}
		seen[id] = true
	}
	return nil
}

func (r *recipeRepo) Update(_ context.Context, id uint, changes domain.RecipeChanges) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	recipe, ok := r.s.recipes[id]
	if !ok {
		return domain.ErrNotFound
	}

	var rows []domain.RecipeIngredient
	if changes.Lines != nil {
		var err error
		if rows, err = r.buildLines(id, changes.Lines); err != nil {
			return err
		}
	}
	if changes.TagIDs != nil {
		if err := r.checkTags(changes.TagIDs); err != nil {
			return err
		}
	}

	if changes.Name != nil {
		recipe.Name = *changes.Name
	}
	if changes.Description != nil {
		recipe.Description = *changes.Description
	}
	if changes.CookingTime != nil {
		recipe.CookingTime = *changes.CookingTime
	}
	if changes.Image != nil {
		recipe.Image = *changes.Image
	}
	r.s.recipes[id] = recipe

	if changes.TagIDs != nil {
		r.s.recipeTags[id] = append([]uint(nil), changes.TagIDs...)
	}
	if changes.Lines != nil {
		r.s.lines[id] = rows
	}
	return nil
}

func (r *recipeRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.recipes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.recipes, id)
	delete(r.s.recipeTags, id)
	delete(r.s.lines, id)
	for key := range r.s.favorites {
		if key.right == id {
			delete(r.s.favorites, key)
		}
	}
	for key := range r.s.cart {
		if key.right == id {
			delete(r.s.cart, key)
		}
	}
	return nil
}

func (r *recipeRepo) FindByID(_ context.Context, id uint) (*domain.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	recipe, ok := r.s.recipes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	full := r.hydrate(recipe)
	return &full, nil
}

// hydrate loads associations the way the gorm preloads do.
func (r *recipeRepo) hydrate(recipe domain.Recipe) domain.Recipe {
	recipe.Author = r.s.users[recipe.AuthorID]

	recipe.Tags = make([]domain.Tag, 0, len(r.s.recipeTags[recipe.ID]))
	for _, tagID := range r.s.recipeTags[recipe.ID] {
		recipe.Tags = append(recipe.Tags, r.s.tags[tagID])
	}
	sort.Slice(recipe.Tags, func(i, j int) bool { return recipe.Tags[i].Name < recipe.Tags[j].Name })

	recipe.Ingredients = make([]domain.RecipeIngredient, 0, len(r.s.lines[recipe.ID]))
	for _, line := range r.s.lines[recipe.ID] {
		line.Ingredient = r.s.ingredients[line.IngredientID]
		recipe.Ingredients = append(recipe.Ingredients, line)
	}
	return recipe
}

func (r *recipeRepo) FindAll(_ context.Context, filter domain.RecipeFilter, limit, offset int) ([]domain.Recipe, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matched := []domain.Recipe{}
	for _, recipe := range r.s.recipes {
		if r.matches(recipe, filter) {
			matched = append(matched, recipe)
		}
	}
	sortNewestFirst(matched)

	out := page(matched, limit, offset)
	for i := range out {
		out[i] = r.hydrate(out[i])
	}
	return out, int64(len(matched)), nil
}

func (r *recipeRepo) matches(recipe domain.Recipe, f domain.RecipeFilter) bool {
	if f.AuthorID != 0 && recipe.AuthorID != f.AuthorID {
		return false
	}
	if f.FavoritedBy != 0 && !r.s.favorites[pair{f.FavoritedBy, recipe.ID}] {
		return false
	}
	if f.InCartOf != 0 && !r.s.cart[pair{f.InCartOf, recipe.ID}] {
		return false
	}
	if len(f.TagSlugs) == 0 {
		return true
	}
	for _, tagID := range r.s.recipeTags[recipe.ID] {
		for _, slug := range f.TagSlugs {
			if r.s.tags[tagID].Slug == slug {
				return true
			}
		}
	}
	return false
}

func (r *recipeRepo) FindByAuthor(_ context.Context, authorID uint, limit int) ([]domain.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []domain.Recipe{}
	for _, recipe := range r.s.recipes {
		if recipe.AuthorID == authorID {
			out = append(out, recipe)
		}
	}
	sortNewestFirst(out)
	return page(out, limit, 0), nil
}

func (r *recipeRepo) CountByAuthor(_ context.Context, authorID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, recipe := range r.s.recipes {
		if recipe.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (r *recipeRepo) Exists(_ context.Context, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.recipes[id]
	return ok, nil
}

func (r *recipeRepo) ShoppingList(_ context.Context, userID uint) ([]domain.ShoppingListLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	type group struct{ name, unit string }
	totals := map[group]int64{}
	for key := range r.s.cart {
		if key.left != userID {
			continue
		}
		for _, line := range r.s.lines[key.right] {
			ing := r.s.ingredients[line.IngredientID]
			totals[group{ing.Name, ing.MeasurementUnit}] += int64(line.Amount)
		}
	}

	out := make([]domain.ShoppingListLine, 0, len(totals))
	for g, total := range totals {
		out = append(out, domain.ShoppingListLine{Name: g.name, MeasurementUnit: g.unit, TotalAmount: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].MeasurementUnit < out[j].MeasurementUnit
	})
	return out, nil
}

func sortNewestFirst(recipes []domain.Recipe) {
	sort.Slice(recipes, func(i, j int) bool {
		if !recipes[i].PubDate.Equal(recipes[j].PubDate) {
			return recipes[i].PubDate.After(recipes[j].PubDate)
		}
		return recipes[i].ID > recipes[j].ID
	})
}
