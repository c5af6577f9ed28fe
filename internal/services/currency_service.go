package services

import (
	"gorm.io/gorm"

	apperrors "tripbudget/internal/errors"
	"tripbudget/internal/models"
)

// currencyService handles currency lookups.
type currencyService struct {
	db *gorm.DB
}

// NewCurrencyService creates a new CurrencyServicer.
func NewCurrencyService(db *gorm.DB) CurrencyServicer {
	return &currencyService{db: db}
}

// GetAllCurrencies returns every supported currency ordered by name.
func (s *currencyService) GetAllCurrencies() ([]models.Currency, error) {
	var currencies []models.Currency
	if err := s.db.Order("name ASC").Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if currencies == nil {
		currencies = []models.Currency{}
	}
	return currencies, nil
}
