package recipe

import (
	"context"

	"gorm.io/gorm"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []*entities.RecipeIngredient) error
		GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error)
		DeleteRecipe(ctx context.Context, id uint) error
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, userID uint, page, limit int) ([]*entities.Recipe, int64, error)

		GetFavouriteRecipeIDs(ctx context.Context, userID uint) ([]uint, error)
		IsFavourited(ctx context.Context, userID, recipeID uint) (bool, error)
		CreateFavourite(ctx context.Context, favourite *entities.UserFavourite) error
		DeleteFavourite(ctx context.Context, userID, recipeID uint) (int64, error)

		GetCartRecipeIDs(ctx context.Context, userID uint) ([]uint, error)
		IsInShoppingCart(ctx context.Context, userID, recipeID uint) (bool, error)
		CreateCartEntry(ctx context.Context, entry *entities.UserShoppingCart) error
		DeleteCartEntry(ctx context.Context, userID, recipeID uint) (int64, error)
		GetShoppingCartIngredients(ctx context.Context, userID uint) ([]*entities.RecipeIngredient, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Author", "Tags.*", "RecipeIngredients.Ingredient").Create(recipe).Error
	})
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []*entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Tags", "RecipeIngredients").Save(recipe).Error; err != nil {
			return err
		}

		if err := tx.Model(recipe).Omit("Tags.*").Association("Tags").Replace(tags); err != nil {
			return err
		}

		// replace the ingredient set wholesale: delete then recreate
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Omit("Recipe", "Ingredient").Create(&ingredients).Error
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("RecipeIngredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.UserFavourite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.UserShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Recipe{}, "id = ?", id).Error
	})
}

// applyRecipeFilter appends the listing predicates to query. Membership
// filters are single IN/NOT IN subqueries against recipes.id, so multi-tag
// matches cannot duplicate rows. The favourite and cart filters apply to
// authenticated viewers only; subqueries are built on db so they carry none
// of the outer query's clauses.
func applyRecipeFilter(query, db *gorm.DB, filter domain.RecipeFilter, userID uint) *gorm.DB {
	if filter.IsFavorited != nil && userID != 0 {
		sub := db.Model(&entities.UserFavourite{}).
			Select("recipe_id").
			Where("user_id = ?", userID)
		if *filter.IsFavorited {
			query = query.Where("recipes.id IN (?)", sub)
		} else {
			query = query.Where("recipes.id NOT IN (?)", sub)
		}
	}

	if filter.IsInShoppingCart != nil && userID != 0 {
		sub := db.Model(&entities.UserShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", userID)
		if *filter.IsInShoppingCart {
			query = query.Where("recipes.id IN (?)", sub)
		} else {
			query = query.Where("recipes.id NOT IN (?)", sub)
		}
	}

	if len(filter.Tags) > 0 {
		sub := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.Tags)
		query = query.Where("recipes.id IN (?)", sub)
	}

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}

	return query
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, userID uint, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	query := applyRecipeFilter(r.db.WithContext(ctx).Model(&entities.Recipe{}), r.db, filter, userID)

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Preload("Tags").
		Preload("RecipeIngredients.Ingredient").
		Order("recipes.id desc").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetFavouriteRecipeIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&entities.UserFavourite{}).
		Where("user_id = ?", userID).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *recipeRepository) IsFavourited(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.UserFavourite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) CreateFavourite(ctx context.Context, favourite *entities.UserFavourite) error {
	return r.db.WithContext(ctx).Create(favourite).Error
}

func (r *recipeRepository) DeleteFavourite(ctx context.Context, userID, recipeID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.UserFavourite{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) GetCartRecipeIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&entities.UserShoppingCart{}).
		Where("user_id = ?", userID).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *recipeRepository) IsInShoppingCart(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.UserShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) CreateCartEntry(ctx context.Context, entry *entities.UserShoppingCart) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *recipeRepository) DeleteCartEntry(ctx context.Context, userID, recipeID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.UserShoppingCart{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) GetShoppingCartIngredients(ctx context.Context, userID uint) ([]*entities.RecipeIngredient, error) {
	var items []*entities.RecipeIngredient
	if err := r.db.WithContext(ctx).
		Preload("Ingredient").
		Joins("JOIN user_shopping_carts ON user_shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("user_shopping_carts.user_id = ?", userID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
