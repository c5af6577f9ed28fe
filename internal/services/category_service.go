package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tripbudget/internal/classifier"
	apperrors "tripbudget/internal/errors"
	"tripbudget/internal/models"
)

// categoryService handles category lookups. Categories are global
// configuration seeded by migrations.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// GetAllCategories returns every category ordered by name.
func (s *categoryService) GetAllCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetCategoryByName retrieves a category by its unique name
func (s *categoryService) GetCategoryByName(name string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "category "+name+" not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// classifierLookup adapts a CategoryServicer to classifier.CategoryLookup.
type classifierLookup struct {
	categories CategoryServicer
}

// NewClassifierLookup lets the classifier resolve corpus names through the
// category service.
func NewClassifierLookup(categories CategoryServicer) classifier.CategoryLookup {
	return &classifierLookup{categories: categories}
}

// FindCategoryByName reports a missing category as nil so that the
// classifier can tell it apart from a failed query.
func (l *classifierLookup) FindCategoryByName(_ context.Context, name string) (*classifier.CategoryRef, error) {
	category, err := l.categories.GetCategoryByName(name)
	if errors.Is(err, apperrors.ErrCategoryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &classifier.CategoryRef{ID: category.ID, Name: category.Name}, nil
}
