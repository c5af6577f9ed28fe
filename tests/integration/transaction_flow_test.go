package integration

import (
	"fmt"
	"net/http"
	"testing"

	"tripbudget/internal/testutil"
)

// addExpense records an expense and returns the created transaction.
func (app *testApp) addExpense(t *testing.T, token, tripID, body string) map[string]interface{} {
	t.Helper()
	rec := app.request("POST", "/api/v1/trips/"+tripID+"/transactions", body, token)
	expectStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["transaction"].(map[string]interface{})
}

func categoryName(tx map[string]interface{}) string {
	category, _ := tx["category"].(map[string]interface{})
	name, _ := category["name"].(string)
	return name
}

func TestTransactionFlow_Categorization(t *testing.T) {
	app := setupApp(t, midTrip)
	app.trainClassifier(t)
	token := tokenFor(t, testutil.NewUserID())
	tripID := app.createTrip(t, token, "5000", "2026-07-01", "2026-07-05")

	t.Run("explicit category wins", func(t *testing.T) {
		body := fmt.Sprintf(`{"amount":"80","description":"таксі до вокзалу","category_id":%q}`,
			app.Categories["Розваги"].ID)
		tx := app.addExpense(t, token, tripID, body)
		if got := categoryName(tx); got != "Розваги" {
			t.Errorf("expected Розваги, got %s", got)
		}
	})

	t.Run("description is classified", func(t *testing.T) {
		tx := app.addExpense(t, token, tripID, `{"amount":"250","description":"Таксі до вокзалу"}`)
		if got := categoryName(tx); got != "Транспорт" {
			t.Errorf("expected Транспорт, got %s", got)
		}

		tx = app.addExpense(t, token, tripID, `{"amount":"420","description":"обід в ресторані"}`)
		if got := categoryName(tx); got != "Харчування" {
			t.Errorf("expected Харчування, got %s", got)
		}
	})

	t.Run("unrecognised description falls back", func(t *testing.T) {
		tx := app.addExpense(t, token, tripID, `{"amount":"15","description":"qwerty zxcv"}`)
		if got := categoryName(tx); got != "Інше" {
			t.Errorf("expected Інше, got %s", got)
		}
	})

	t.Run("no category and no description", func(t *testing.T) {
		for _, body := range []string{`{"amount":"15"}`, `{"amount":"15","description":"   "}`} {
			rec := app.request("POST", "/api/v1/trips/"+tripID+"/transactions", body, token)
			expectStatus(t, rec, http.StatusBadRequest)
			if code := errorCode(t, rec); code != "CATEGORY_REQUIRED" {
				t.Errorf("expected CATEGORY_REQUIRED, got %s", code)
			}
		}
	})

	t.Run("unknown explicit category", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/trips/"+tripID+"/transactions",
			`{"amount":"15","category_id":"0190f1c2-7a3b-7c4d-8e5f-0000000000ee"}`, token)
		expectStatus(t, rec, http.StatusBadRequest)
		if code := errorCode(t, rec); code != "CATEGORY_NOT_FOUND" {
			t.Errorf("expected CATEGORY_NOT_FOUND, got %s", code)
		}
	})

	t.Run("amount below one cent", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/trips/"+tripID+"/transactions",
			`{"amount":"0.001","description":"кава"}`, token)
		expectStatus(t, rec, http.StatusBadRequest)
	})
}

func TestTransactionFlow_LazyTraining(t *testing.T) {
	app := setupApp(t, midTrip)
	token := tokenFor(t, testutil.NewUserID())
	tripID := app.createTrip(t, token, "5000", "2026-07-01", "2026-07-05")

	if app.Classifier.Trained() {
		t.Fatal("classifier should start untrained")
	}

	tx := app.addExpense(t, token, tripID, `{"amount":"900","description":"ніч в готелі"}`)
	if got := categoryName(tx); got != "Проживання" {
		t.Errorf("expected Проживання, got %s", got)
	}
	if !app.Classifier.Trained() {
		t.Error("classifier should be trained after the first prediction")
	}
}

func TestTransactionFlow_ListFilterAndDelete(t *testing.T) {
	app := setupApp(t, midTrip)
	app.trainClassifier(t)
	token := tokenFor(t, testutil.NewUserID())
	tripID := app.createTrip(t, token, "5000", "2026-07-01", "2026-07-05")

	app.addExpense(t, token, tripID, `{"amount":"100","description":"кава","transaction_date":"2026-07-01"}`)
	taxi := app.addExpense(t, token, tripID, `{"amount":"200","description":"таксі до вокзалу","transaction_date":"2026-07-02"}`)

	rec := app.request("GET", "/api/v1/trips/"+tripID+"/transactions", "", token)
	expectStatus(t, rec, http.StatusOK)
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(data))
	}
	if first := data[0].(map[string]interface{}); first["id"] != taxi["id"] {
		t.Errorf("expected newest transaction first, got %v", first["id"])
	}

	rec = app.request("GET", "/api/v1/trips/"+tripID+"/transactions?to_date=2026-07-01", "", token)
	expectStatus(t, rec, http.StatusOK)
	if total := parseJSON(t, rec)["total_items"].(float64); total != 1 {
		t.Errorf("expected 1 transaction up to July 1, got %.0f", total)
	}

	transportID := app.Categories["Транспорт"].ID
	rec = app.request("GET", "/api/v1/trips/"+tripID+"/transactions?category_id="+transportID, "", token)
	expectStatus(t, rec, http.StatusOK)
	if total := parseJSON(t, rec)["total_items"].(float64); total != 1 {
		t.Errorf("expected 1 transport transaction, got %.0f", total)
	}

	rec = app.request("DELETE", "/api/v1/trips/"+tripID+"/transactions/"+taxi["id"].(string), "", token)
	expectStatus(t, rec, http.StatusOK)

	rec = app.request("DELETE", "/api/v1/trips/"+tripID+"/transactions/"+taxi["id"].(string), "", token)
	expectStatus(t, rec, http.StatusNotFound)

	rec = app.request("GET", "/api/v1/trips/"+tripID+"/transactions", "", token)
	expectStatus(t, rec, http.StatusOK)
	if total := parseJSON(t, rec)["total_items"].(float64); total != 1 {
		t.Errorf("expected 1 transaction after delete, got %.0f", total)
	}
}

func TestTransactionFlow_Update(t *testing.T) {
	app := setupApp(t, midTrip)
	token := tokenFor(t, testutil.NewUserID())
	tripID := app.createTrip(t, token, "5000", "2026-07-01", "2026-07-05")
	tx := app.addExpense(t, token, tripID,
		fmt.Sprintf(`{"amount":"80","category_id":%q,"description":"квитки","transaction_date":"2026-07-01"}`, app.Categories["Інше"].ID))
	path := "/api/v1/trips/" + tripID + "/transactions/" + tx["id"].(string)

	body := fmt.Sprintf(`{"amount":"95.5","category_id":%q}`, app.Categories["Розваги"].ID)
	rec := app.request("PUT", path, body, token)
	expectStatus(t, rec, http.StatusOK)
	updated := parseJSON(t, rec)["transaction"].(map[string]interface{})
	if updated["amount"] != "95.5" {
		t.Errorf("expected amount \"95.5\", got %v", updated["amount"])
	}
	if name := categoryName(updated); name != "Розваги" {
		t.Errorf("expected Розваги, got %q", name)
	}
	if updated["description"] != "квитки" {
		t.Errorf("expected description to be kept, got %v", updated["description"])
	}

	rec = app.request("PUT", path, `{"category_id":"0190f1c2-7a3b-7c4d-8e5f-0000000000ee"}`, token)
	expectStatus(t, rec, http.StatusBadRequest)
	if code := errorCode(t, rec); code != "CATEGORY_NOT_FOUND" {
		t.Errorf("expected CATEGORY_NOT_FOUND, got %s", code)
	}

	rec = app.request("PUT", path, `{"amount":"0"}`, token)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = app.request("PUT", "/api/v1/trips/"+tripID+"/transactions/0190f1c2-7a3b-7c4d-8e5f-0000000000ef", `{"amount":"1"}`, token)
	expectStatus(t, rec, http.StatusNotFound)
}
