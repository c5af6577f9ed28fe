package integration

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"tripbudget/internal/classifier"
	"tripbudget/internal/handlers"
	"tripbudget/internal/logger"
	"tripbudget/internal/middleware"
	"tripbudget/internal/models"
	"tripbudget/internal/services"
	"tripbudget/internal/testutil"
	"tripbudget/internal/validator"
)

const (
	testJWTSecret   = "integration-test-secret"
	testAdminAPIKey = "integration-admin-key"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB         *gorm.DB
	Router     *gin.Engine
	Classifier *classifier.Classifier
	Categories map[string]*models.Category
	Currency   *models.Currency
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database. The clock is fixed at now.
func setupApp(t *testing.T, now time.Time) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	categories := testutil.SeedCategories(t, db)
	currency := testutil.CreateTestCurrency(t, db, "UAH")

	// Services
	auditService := services.NewAuditService(db)
	categoryService := services.NewCategoryService(db)
	tripService := services.NewTripService(db)
	currencyService := services.NewCurrencyService(db)
	categoryClassifier := classifier.New(classifier.DefaultCorpus(),
		services.NewClassifierLookup(categoryService), classifier.NaiveBayes{}, logger.Named("classifier"))
	resolver := services.NewCategoryResolver(categoryService, categoryClassifier, "Інше")
	transactionService := services.NewTransactionService(db, tripService, resolver)
	analyticsService := services.NewAnalyticsService(tripService, transactionService,
		func() time.Time { return now }, time.UTC)

	// Handlers
	tripHandler := handlers.NewTripHandler(tripService, auditService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, categoryClassifier)
	currencyHandler := handlers.NewCurrencyHandler(currencyService)
	classifierHandler := handlers.NewClassifierHandler(categoryClassifier, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")
	v1.POST("/classifier/train", middleware.AdminKeyMiddleware(testAdminAPIKey), classifierHandler.Train)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware([]byte(testJWTSecret)))

	trips := protected.Group("/trips")
	trips.POST("", tripHandler.CreateTrip)
	trips.GET("", tripHandler.GetTrips)
	trips.GET("/:id", tripHandler.GetTrip)
	trips.PUT("/:id", tripHandler.UpdateTrip)
	trips.DELETE("/:id", tripHandler.DeleteTrip)
	trips.GET("/:id/forecast", analyticsHandler.GetTripForecast)
	trips.POST("/:id/transactions", transactionHandler.CreateTransaction)
	trips.GET("/:id/transactions", transactionHandler.GetTripTransactions)
	trips.PUT("/:id/transactions/:transactionId", transactionHandler.UpdateTransaction)
	trips.DELETE("/:id/transactions/:transactionId", transactionHandler.DeleteTransaction)

	categoryRoutes := protected.Group("/categories")
	categoryRoutes.GET("", categoryHandler.GetCategories)
	categoryRoutes.POST("/classify", categoryHandler.ClassifyDescription)

	protected.GET("/currencies", currencyHandler.GetCurrencies)
	protected.GET("/classifier/status", classifierHandler.Status)

	return &testApp{
		DB:         db,
		Router:     router,
		Classifier: categoryClassifier,
		Categories: categories,
		Currency:   currency,
	}
}

// tokenFor signs an access token the way the identity service does.
func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:    userID,
		Email:     userID + "@example.com",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// trainClassifier trains up front so tests do not depend on lazy training.
func (app *testApp) trainClassifier(t *testing.T) {
	t.Helper()
	if result := app.Classifier.Train(context.Background()); !result.Trained {
		t.Fatalf("classifier did not train: %+v", result)
	}
}

// requestWithKey makes an operational request authenticated by API key.
func (app *testApp) requestWithKey(method, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-API-Key", apiKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}
