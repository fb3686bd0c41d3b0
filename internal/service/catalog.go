package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// hexColorPattern matches 3- or 6-digit HEX color codes with a leading #.
var hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// CatalogService serves the read-only tag and ingredient catalogs and the
// write operations used by seeding.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListTags returns all tags ordered by name.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTag returns one tag by id.
func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundf("tag %d does not exist", id)
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// CreateTag validates the color code and stores a tag. Name, color and slug
// must be unique as a triple; color and slug also on their own.
func (s *CatalogService) CreateTag(ctx context.Context, tag *models.Tag) error {
	if !hexColorPattern.MatchString(tag.Color) {
		return Validationf("color must be a HEX code such as #ff0000")
	}
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		return asConflict(err, "a tag with this name, color or slug already exists")
	}
	return nil
}

// likeEscaper neutralizes LIKE metacharacters in user-supplied search input,
// so a literal % or _ in the prefix matches itself.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListIngredients returns catalog ingredients ordered by name, optionally
// restricted to a case-insensitive name prefix.
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).Order("name ASC")
	if namePrefix != "" {
		prefix := likeEscaper.Replace(strings.ToLower(namePrefix))
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, prefix+"%")
	}
	var ingredients []models.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetIngredient returns one ingredient by id.
func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).First(&ingredient, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundf("ingredient %d does not exist", id)
	}
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// CreateIngredient stores a catalog ingredient; (name, unit) must be unique.
func (s *CatalogService) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	if err := s.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return asConflict(err, "ingredient %q (%s) already exists", ingredient.Name, ingredient.MeasurementUnit)
	}
	return nil
}

// ReplaceIngredients wipes the catalog and loads the given entries in one
// transaction. Used by the CSV seed command.
func (s *CatalogService) ReplaceIngredients(ctx context.Context, ingredients []models.Ingredient) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		if len(ingredients) == 0 {
			return nil
		}
		return tx.Create(&ingredients).Error
	})
}
