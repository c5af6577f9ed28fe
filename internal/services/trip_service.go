package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "tripbudget/internal/errors"
	"tripbudget/internal/models"
	"tripbudget/internal/pagination"
)

// tripService handles trip-related business logic.
type tripService struct {
	db *gorm.DB
}

// NewTripService creates a new TripServicer.
func NewTripService(db *gorm.DB) TripServicer {
	return &tripService{db: db}
}

// dateOnly drops the time of day, keeping the calendar date as written.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateTrip creates a new trip for a user
func (s *tripService) CreateTrip(userID string, input CreateTripInput) (*models.Trip, error) {
	title := strings.TrimSpace(input.Title)
	if n := utf8.RuneCountInString(title); n < 3 || n > 255 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title must be between 3 and 255 characters")
	}
	if input.Budget.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget must not be negative")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start and end dates are required")
	}

	start, end := dateOnly(input.StartDate), dateOnly(input.EndDate)
	if end.Before(start) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidDateRange, "end date must not be before start date")
	}

	status := input.Status
	if status == "" {
		status = models.TripStatusPlanned
	}
	if !status.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown trip status")
	}

	var currency models.Currency
	if err := s.db.Where("id = ?", input.CurrencyID).First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	trip := &models.Trip{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		StartDate:   start,
		EndDate:     end,
		Budget:      input.Budget.Round(2),
		CurrencyID:  currency.ID,
		Status:      status,
	}
	if err := s.db.Omit("Currency").Create(trip).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	trip.Currency = currency

	return trip, nil
}

// GetUserTrips retrieves a paginated list of a user's trips, newest first,
// optionally restricted to one status.
func (s *tripService) GetUserTrips(userID string, page pagination.PageRequest, status *models.TripStatus) (*pagination.PageResponse[models.Trip], error) {
	page.Defaults()

	base := s.db.Model(&models.Trip{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var trips []models.Trip
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Currency").
		Order("start_date DESC").
		Find(&trips).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(trips, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTripByID retrieves a trip by ID, scoped to its owner.
func (s *tripService) GetTripByID(userID, tripID string) (*models.Trip, error) {
	var trip models.Trip
	if err := s.db.Preload("Currency").
		Where("id = ? AND user_id = ?", tripID, userID).
		First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &trip, nil
}

// UpdateTrip changes the given fields of one of the user's trips. The
// resulting date range must still end on or after its start.
func (s *tripService) UpdateTrip(userID, tripID string, input UpdateTripInput) (*models.Trip, error) {
	trip, err := s.GetTripByID(userID, tripID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if n := utf8.RuneCountInString(title); n < 3 || n > 255 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title must be between 3 and 255 characters")
		}
		updates["title"] = title
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Budget != nil {
		if input.Budget.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget must not be negative")
		}
		updates["budget"] = input.Budget.Round(2)
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown trip status")
		}
		updates["status"] = *input.Status
	}

	start, end := trip.StartDate, trip.EndDate
	if input.StartDate != nil {
		start = dateOnly(*input.StartDate)
		updates["start_date"] = start
	}
	if input.EndDate != nil {
		end = dateOnly(*input.EndDate)
		updates["end_date"] = end
	}
	if dateOnly(end).Before(dateOnly(start)) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidDateRange, "end date must not be before start date")
	}

	if input.CurrencyID != nil && *input.CurrencyID != trip.CurrencyID {
		var currency models.Currency
		if err := s.db.Where("id = ?", *input.CurrencyID).First(&currency).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCurrencyNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["currency_id"] = currency.ID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Trip{}).Where("id = ?", trip.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetTripByID(userID, tripID)
}

// DeleteTrip removes one of the user's trips together with its transactions.
func (s *tripService) DeleteTrip(userID, tripID string) error {
	trip, err := s.GetTripByID(userID, tripID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", trip.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(trip).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
