package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"furnace_engine/internal/catalog"
	"furnace_engine/internal/engine"
	"furnace_engine/internal/furnace"
	"furnace_engine/internal/service"
)

var home = furnace.Location{World: "world", X: 10, Y: 64, Z: -3}

const homePath = "/api/v1/furnaces/world:10:64:-3"

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(statusOK)) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

func TestFurnaceHandlers_ListAndGet(t *testing.T) {
	mon := &mockMonitoring{states: map[string]furnace.Snapshot{
		home.String(): testSnapshot(home, 350),
	}}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 7},
		Monitoring:    mon,
	}
	r := newTestRouter(s)

	// list requires auth → 401 without header
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/furnaces", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, "/api/v1/furnaces", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d, body=%s", w.Code, w.Body.String())
	}
	var list struct {
		Count    int                `json:"count"`
		Furnaces []furnace.Snapshot `json:"furnaces"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if list.Count != 1 || list.Furnaces[0].Location != home {
		t.Fatalf("unexpected list: %+v", list)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, homePath, nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d, body=%s", w.Code, w.Body.String())
	}
	var snap furnace.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.CurrentTemperature != 350 || snap.Archetype != catalog.ArchetypeStone {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, "/api/v1/furnaces/world:1:1:1", nil)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown furnace, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, "/api/v1/furnaces/nowhere", nil)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad location, got %d", w.Code)
	}
}

func TestFurnaceHandlers_Register(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{"created", `{"location":"world:10:64:-3","archetype":"STONE_FURNACE"}`, nil, http.StatusCreated},
		{"missing archetype", `{"location":"world:10:64:-3"}`, nil, http.StatusBadRequest},
		{"bad location", `{"location":"world:10","archetype":"STONE_FURNACE"}`, nil, http.StatusBadRequest},
		{"already registered", `{"location":"world:10:64:-3","archetype":"STONE_FURNACE"}`, engine.ErrAlreadyRegistered, http.StatusConflict},
		{"unknown archetype", `{"location":"world:10:64:-3","archetype":"GOLD"}`, engine.ErrUnknownArchetype, http.StatusBadRequest},
		{"storage failure", `{"location":"world:10:64:-3","archetype":"STONE_FURNACE"}`, fmt.Errorf("register %s: %w", home, errors.New("disk full")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fu := &mockFurnace{snap: testSnapshot(home, 20), registerErr: tc.err}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Furnace: fu})

			w := httptest.NewRecorder()
			req := withAuth(httptest.NewRequest(http.MethodPost, "/api/v1/furnaces", bytes.NewBufferString(tc.body)))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantCode == http.StatusCreated && (fu.lastLoc != home || fu.lastArchetype != catalog.ArchetypeStone) {
				t.Fatalf("Register got %v %q", fu.lastLoc, fu.lastArchetype)
			}
			if tc.wantCode == http.StatusInternalServerError && bytes.Contains(w.Body.Bytes(), []byte("disk full")) {
				t.Fatalf("internal error leaked to client: %s", w.Body.String())
			}
		})
	}
}

func TestFurnaceHandlers_Unregister(t *testing.T) {
	fu := &mockFurnace{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Furnace: fu})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodDelete, homePath, nil)))
	if w.Code != http.StatusOK || fu.lastLoc != home {
		t.Fatalf("delete status=%d loc=%v body=%s", w.Code, fu.lastLoc, w.Body.String())
	}

	fu.unregisterErr = engine.ErrUnknownFurnace
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodDelete, homePath, nil)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestFurnaceHandlers_SetSlot(t *testing.T) {
	cases := []struct {
		name      string
		path      string
		body      string
		err       error
		wantCode  int
		wantKind  furnace.SlotKind
		wantIndex int
		wantStack catalog.Stack
	}{
		{
			name:      "fill input",
			path:      homePath + "/slots/input/0",
			body:      `{"type":"RAW_IRON","amount":8}`,
			wantCode:  http.StatusOK,
			wantKind:  furnace.SlotInput,
			wantStack: catalog.NewStack(catalog.ItemRawIron, 8),
		},
		{
			name:      "tagged fuel",
			path:      homePath + "/slots/fuel/1",
			body:      `{"type":"COAL","variant":"refined","amount":2,"max_stack":16}`,
			wantCode:  http.StatusOK,
			wantKind:  furnace.SlotFuel,
			wantIndex: 1,
			wantStack: catalog.Stack{Descriptor: catalog.Descriptor{Type: "COAL", Variant: "refined"}, Amount: 2, MaxStack: 16},
		},
		{
			name:     "empty body clears",
			path:     homePath + "/slots/output/0",
			wantCode: http.StatusOK,
			wantKind: furnace.SlotOutput,
		},
		{
			name:     "zero amount clears",
			path:     homePath + "/slots/input/0",
			body:     `{"type":"SAND","amount":0}`,
			wantCode: http.StatusOK,
			wantKind: furnace.SlotInput,
		},
		{name: "bad index", path: homePath + "/slots/input/x", wantCode: http.StatusBadRequest},
		{name: "bad json", path: homePath + "/slots/input/0", body: `{"amount":`, wantCode: http.StatusBadRequest},
		{name: "out of range", path: homePath + "/slots/input/9", body: `{"type":"SAND","amount":1}`, err: engine.ErrSlotOutOfRange, wantCode: http.StatusBadRequest},
		{name: "unknown kind", path: homePath + "/slots/hopper/0", err: engine.ErrUnknownSlotKind, wantCode: http.StatusBadRequest},
		{name: "unknown furnace", path: homePath + "/slots/input/0", err: engine.ErrUnknownFurnace, wantCode: http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fu := &mockFurnace{snap: testSnapshot(home, 20), setSlotErr: tc.err}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Furnace: fu})

			w := httptest.NewRecorder()
			req := withAuth(httptest.NewRequest(http.MethodPut, tc.path, bytes.NewBufferString(tc.body)))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantCode != http.StatusOK {
				return
			}
			got := fu.lastSlot
			if got.Location != home || got.Kind != tc.wantKind || got.Index != tc.wantIndex || got.Stack != tc.wantStack {
				t.Fatalf("SetSlot params: %+v", got)
			}
		})
	}
}

func TestFurnaceHandlers_ShutdownRestart(t *testing.T) {
	snap := testSnapshot(home, 20)
	snap.EmergencyShutdown = true
	mon := &mockMonitoring{states: map[string]furnace.Snapshot{home.String(): snap}}
	fu := &mockFurnace{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Furnace: fu, Monitoring: mon})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodPost, homePath+"/shutdown", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("shutdown status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Status string           `json:"status"`
		State  furnace.Snapshot `json:"state"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != statusShutdown || !resp.State.EmergencyShutdown || fu.shutdownCalls != 1 {
		t.Fatalf("bad shutdown response: %+v calls=%d", resp, fu.shutdownCalls)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodPost, homePath+"/restart", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("restart status=%d, body=%s", w.Code, w.Body.String())
	}
	resp.Status = ""
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != statusRestarted || fu.restartCalls != 1 {
		t.Fatalf("bad restart response: %+v", resp)
	}

	fu.shutdownErr = engine.ErrUnknownFurnace
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodPost, "/api/v1/furnaces/world:0:0:0/shutdown", nil)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
