package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"furnace_engine/internal/catalog"
	"furnace_engine/internal/service"
)

func TestCatalogHandlers_Listings(t *testing.T) {
	cat := &mockCatalog{
		fuels:      catalog.Defaults().Fuels.Fuels(),
		recipes:    []catalog.Recipe{{ID: "raw_iron", Category: catalog.CategorySmelting}},
		archetypes: catalog.Defaults().Archetypes.Archetypes(),
	}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Catalog: cat})

	cases := []struct {
		path  string
		key   string
		count int
	}{
		{"/api/v1/catalog/fuels", "fuels", len(cat.fuels)},
		{"/api/v1/catalog/recipes?category=Smelting", "recipes", 1},
		{"/api/v1/catalog/archetypes", "archetypes", len(cat.archetypes)},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, tc.path, nil)))
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			var out map[string]json.RawMessage
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			var n int
			_ = json.Unmarshal(out["count"], &n)
			if n != tc.count || len(out[tc.key]) == 0 {
				t.Fatalf("unexpected body: %s", w.Body.String())
			}
		})
	}
	if cat.lastCategory != catalog.CategorySmelting {
		t.Fatalf("category not normalized: %q", cat.lastCategory)
	}
}

func TestCatalogHandlers_AddFuelPassesRawBody(t *testing.T) {
	body := `{"id":"cryo","item":{"type":"ICE","variant":"cryo"},"burn_time":100,"temperature":-50,"custom":true}`
	cat := &mockCatalog{addFuelResp: catalog.Fuel{ID: "cryo", Custom: true}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Catalog: cat})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodPost, "/api/v1/catalog/fuels", bytes.NewBufferString(body))))
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if cat.lastRaw != body {
		t.Fatalf("raw body not forwarded: %q", cat.lastRaw)
	}

	cat.addFuelErr = fmt.Errorf("%w: burn_time must be > 0", catalog.ErrInvalidFuel)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodPost, "/api/v1/catalog/fuels", bytes.NewBufferString(`{}`))))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCatalogHandlers_AddRecipeReportsOverlaps(t *testing.T) {
	cat := &mockCatalog{addRecipeResp: service.RecipeResult{
		Recipe:   catalog.Recipe{ID: "iron_nuggets"},
		Overlaps: []string{"raw_iron"},
	}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Catalog: cat})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodPost, "/api/v1/catalog/recipes", bytes.NewBufferString(`{"id":"iron_nuggets"}`))))
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var res service.RecipeResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Recipe.ID != "iron_nuggets" || len(res.Overlaps) != 1 || res.Overlaps[0] != "raw_iron" {
		t.Fatalf("unexpected result: %+v", res)
	}

	cat.addRecipeErr = catalog.ErrInvalidRecipe
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodPost, "/api/v1/catalog/recipes", bytes.NewBufferString(`[]`))))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCatalogHandlers_Remove(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		err      error
		wantCode int
	}{
		{"fuel removed", "/api/v1/catalog/fuels/cryo", nil, http.StatusNoContent},
		{"fuel missing", "/api/v1/catalog/fuels/cryo", service.ErrFuelNotFound, http.StatusNotFound},
		{"recipe removed", "/api/v1/catalog/recipes/glass", nil, http.StatusNoContent},
		{"recipe missing", "/api/v1/catalog/recipes/glass", service.ErrRecipeNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat := &mockCatalog{removeErr: tc.err}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Catalog: cat})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodDelete, tc.path, nil)))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d", w.Code, tc.wantCode)
			}
			if cat.lastRemoved == "" {
				t.Fatalf("service not called")
			}
		})
	}
}
