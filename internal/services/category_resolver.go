package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"tripbudget/internal/classifier"
	apperrors "tripbudget/internal/errors"
	"tripbudget/internal/logger"
	"tripbudget/internal/models"
)

// CategoryResolver decides the category of a new transaction. An explicit
// category always wins. Otherwise the description is classified, and when
// that gives nothing the fallback category is used. Without a description
// there is nothing to classify and the category is required.
type CategoryResolver struct {
	categories   CategoryServicer
	predictor    classifier.Predictor
	fallbackName string
	log          *zap.SugaredLogger
}

// NewCategoryResolver creates a resolver. predictor may be nil, in which
// case descriptions always resolve to the fallback category.
func NewCategoryResolver(categories CategoryServicer, predictor classifier.Predictor, fallbackName string) *CategoryResolver {
	return &CategoryResolver{
		categories:   categories,
		predictor:    predictor,
		fallbackName: fallbackName,
		log:          logger.Named("categorize"),
	}
}

// Resolve returns the persisted category for a transaction.
func (r *CategoryResolver) Resolve(ctx context.Context, categoryID, description *string) (*models.Category, error) {
	if categoryID != nil && strings.TrimSpace(*categoryID) != "" {
		return r.categories.GetCategoryByID(strings.TrimSpace(*categoryID))
	}

	if description == nil || strings.TrimSpace(*description) == "" {
		return nil, apperrors.ErrCategoryRequired
	}

	if r.predictor != nil {
		if ref := r.predictor.Classify(ctx, *description); ref != nil {
			category, err := r.categories.GetCategoryByID(ref.ID)
			switch {
			case err == nil:
				return category, nil
			case errors.Is(err, apperrors.ErrCategoryNotFound):
				r.log.Warnw("Predicted category no longer exists", "category", ref.Name, "id", ref.ID)
			default:
				return nil, err
			}
		}
	}

	if r.fallbackName == "" {
		return nil, apperrors.ErrCategoryRequired
	}
	category, err := r.categories.GetCategoryByName(r.fallbackName)
	if err != nil {
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			r.log.Warnw("Fallback category is missing", "category", r.fallbackName)
			return nil, apperrors.ErrCategoryRequired
		}
		return nil, err
	}
	return category, nil
}
