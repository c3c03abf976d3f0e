package enhance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"veckomeny/internal/recipe"
)

func TestEnhance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/enhance" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer enh-key" {
			t.Errorf("Unexpected Authorization header: %s", auth)
		}

		var rec recipe.Recipe
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		if rec.Title != "pannkakor recept" {
			t.Errorf("Unexpected recipe title in request: '%s'", rec.Title)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"recipe": recipe.Recipe{
				Title:       "Pannkakor",
				Ingredients: []string{"Ägg", "Mjölk", "Vetemjöl"},
			},
			"model": "test-model",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "enh-key")
	enhanced, err := client.Enhance(context.Background(), recipe.Recipe{
		ID:        "r1",
		Title:     "pannkakor recept",
		Servings:  4,
		SourceURL: "https://example.com/pannkakor",
	})
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}

	if enhanced.Recipe.Title != "Pannkakor" {
		t.Errorf("Expected title 'Pannkakor', got '%s'", enhanced.Recipe.Title)
	}
	if enhanced.Recipe.ID != "r1" {
		t.Errorf("Expected original ID to be kept, got '%s'", enhanced.Recipe.ID)
	}
	if enhanced.Recipe.SourceURL != "https://example.com/pannkakor" {
		t.Errorf("Expected original source URL to be kept, got '%s'", enhanced.Recipe.SourceURL)
	}
	if enhanced.Recipe.Servings != 4 {
		t.Errorf("Expected servings to fall back to original, got %d", enhanced.Recipe.Servings)
	}
	if enhanced.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", enhanced.Model)
	}
	if enhanced.EnhancedAt == "" {
		t.Error("Expected EnhancedAt to be set")
	}
}

func TestEnhanceAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	if _, err := client.Enhance(context.Background(), recipe.Recipe{Title: "x"}); err == nil {
		t.Error("Expected error from failing backend, got nil")
	}
}

func TestEnhanceEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"recipe":{},"model":"m"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	if _, err := client.Enhance(context.Background(), recipe.Recipe{Title: "x"}); err == nil {
		t.Error("Expected error for empty enhancer result, got nil")
	}
}
