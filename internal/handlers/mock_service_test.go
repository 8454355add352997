package handlers

import (
	"context"
	"net/http"

	"furnace_engine/internal/catalog"
	"furnace_engine/internal/engine"
	"furnace_engine/internal/furnace"
	"furnace_engine/internal/models"
	"furnace_engine/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastGenUsername    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockFurnace struct {
	snap furnace.Snapshot

	registerErr   error
	unregisterErr error
	setSlotErr    error
	shutdownErr   error
	restartErr    error

	lastLoc       furnace.Location
	lastArchetype string
	lastSlot      service.SlotParams
	shutdownCalls int
	restartCalls  int
}

func (m *mockFurnace) Register(_ context.Context, loc furnace.Location, archetype string) (furnace.Snapshot, error) {
	m.lastLoc, m.lastArchetype = loc, archetype
	return m.snap, m.registerErr
}
func (m *mockFurnace) Unregister(_ context.Context, loc furnace.Location) error {
	m.lastLoc = loc
	return m.unregisterErr
}
func (m *mockFurnace) SetSlot(_ context.Context, p service.SlotParams) (furnace.Snapshot, error) {
	m.lastSlot = p
	return m.snap, m.setSlotErr
}
func (m *mockFurnace) Shutdown(_ context.Context, loc furnace.Location) error {
	m.lastLoc = loc
	m.shutdownCalls++
	return m.shutdownErr
}
func (m *mockFurnace) Restart(_ context.Context, loc furnace.Location) error {
	m.lastLoc = loc
	m.restartCalls++
	return m.restartErr
}

// mockMonitoring serves states by location key.
type mockMonitoring struct {
	states map[string]furnace.Snapshot
	err    error
}

func (m *mockMonitoring) GetState(_ context.Context, loc furnace.Location) (furnace.Snapshot, error) {
	if m.err != nil {
		return furnace.Snapshot{}, m.err
	}
	st, ok := m.states[loc.String()]
	if !ok {
		return furnace.Snapshot{}, engine.ErrUnknownFurnace
	}
	return st, nil
}
func (m *mockMonitoring) ListStates(_ context.Context) []furnace.Snapshot {
	out := make([]furnace.Snapshot, 0, len(m.states))
	for _, st := range m.states {
		out = append(out, st)
	}
	return out
}

type mockCatalog struct {
	fuels      []catalog.Fuel
	recipes    []catalog.Recipe
	archetypes []catalog.Archetype

	addFuelResp   catalog.Fuel
	addFuelErr    error
	addRecipeResp service.RecipeResult
	addRecipeErr  error
	removeErr     error

	lastRaw      string
	lastCategory string
	lastRemoved  string
}

func (m *mockCatalog) Fuels() []catalog.Fuel { return m.fuels }
func (m *mockCatalog) AddFuel(_ context.Context, raw []byte) (catalog.Fuel, error) {
	m.lastRaw = string(raw)
	return m.addFuelResp, m.addFuelErr
}
func (m *mockCatalog) RemoveFuel(_ context.Context, id string) error {
	m.lastRemoved = id
	return m.removeErr
}
func (m *mockCatalog) Recipes(category string) []catalog.Recipe {
	m.lastCategory = category
	return m.recipes
}
func (m *mockCatalog) AddRecipe(_ context.Context, raw []byte) (service.RecipeResult, error) {
	m.lastRaw = string(raw)
	return m.addRecipeResp, m.addRecipeErr
}
func (m *mockCatalog) RemoveRecipe(_ context.Context, id string) error {
	m.lastRemoved = id
	return m.removeErr
}
func (m *mockCatalog) Archetypes() []catalog.Archetype { return m.archetypes }

type mockEventLog struct {
	resp       []models.FurnaceEvent
	err        error
	lastFilter service.LogFilter
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.FurnaceEvent, error) {
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withAuth(req *http.Request) *http.Request {
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}

func testSnapshot(loc furnace.Location, temp float64) furnace.Snapshot {
	return furnace.Snapshot{
		State: furnace.State{
			Location:           loc,
			Archetype:          catalog.ArchetypeStone,
			CurrentTemperature: temp,
			Input:              []catalog.Stack{{}},
			Fuel:               []catalog.Stack{{}},
			Output:             []catalog.Stack{{}},
		},
		Temperature: "20.0°C",
	}
}
