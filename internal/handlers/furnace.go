package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"furnace_engine/internal/catalog"
	"furnace_engine/internal/engine"
	"furnace_engine/internal/furnace"
	"furnace_engine/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK           = "ok"
	statusUnregistered = "unregistered"
	statusShutdown     = "shutdown"
	statusRestarted    = "restarted"

	errInternal        = "internal error"
	errInvalidBodyPref = "invalid body: "
	errInvalidIndex    = "slot index must be an integer"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "user_id", currentUserID(c)}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// statusFor maps service and engine errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnknownFurnace),
		errors.Is(err, service.ErrFuelNotFound),
		errors.Is(err, service.ErrRecipeNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, engine.ErrUnknownArchetype),
		errors.Is(err, engine.ErrSlotOutOfRange),
		errors.Is(err, engine.ErrUnknownSlotKind),
		errors.Is(err, catalog.ErrInvalidFuel),
		errors.Is(err, catalog.ErrInvalidRecipe),
		service.IsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the mapped status. Client errors echo the
// message; server errors hide it.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := statusFor(err)
	msg := errInternal
	if code < http.StatusInternalServerError {
		msg = err.Error()
	}
	h.logAndJSONError(c, code, msg, logKey, err, kv...)
}

// locationParam parses the :location path segment or writes a 400.
func (h *Handler) locationParam(c *gin.Context) (furnace.Location, bool) {
	loc, err := furnace.ParseLocation(c.Param("location"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return furnace.Location{}, false
	}
	return loc, true
}

// RegisterRequest is the payload for placing a furnace.
type RegisterRequest struct {
	// Block position, "world:x:y:z"
	Location string `json:"location" binding:"required" example:"world:10:64:-3"`
	// Archetype name. Allowed by default: STONE_FURNACE, IRON_FURNACE, BLAST_FURNACE
	Archetype string `json:"archetype" binding:"required" example:"STONE_FURNACE"`
}

// SlotRequest is the payload for writing one slot. An empty body or a zero
// amount clears the slot.
type SlotRequest struct {
	Type     string `json:"type" example:"RAW_IRON"`
	Variant  string `json:"variant,omitempty"`
	Amount   int    `json:"amount" example:"8"`
	MaxStack int    `json:"max_stack,omitempty"`
}

func (r SlotRequest) stack() catalog.Stack {
	if r.Amount == 0 {
		return catalog.Stack{}
	}
	return catalog.Stack{
		Descriptor: catalog.Descriptor{Type: r.Type, Variant: r.Variant},
		Amount:     r.Amount,
		MaxStack:   r.MaxStack,
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      List furnaces
// @Tags         furnaces
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, furnaces"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/furnaces [get]
// @Security     BearerAuth
func (h *Handler) listFurnaces(c *gin.Context) {
	list := h.services.Monitoring.ListStates(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"count": len(list), "furnaces": list})
}

// @Summary      Register furnace
// @Tags         furnaces
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Location and archetype"
// @Success      201   {object}  furnace.Snapshot
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/furnaces [post]
// @Security     BearerAuth
func (h *Handler) registerFurnace(c *gin.Context) {
	var req RegisterRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	loc, err := furnace.ParseLocation(req.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, err := h.services.Furnace.Register(c.Request.Context(), loc, req.Archetype)
	if err != nil {
		h.respondError(c, "furnace_register_failed", err, "location", loc.String(), "archetype", req.Archetype)
		return
	}
	h.audit(c, "furnace_registered", "location", loc.String(), "archetype", req.Archetype)
	c.JSON(http.StatusCreated, snap)
}

// @Summary      Get furnace
// @Tags         furnaces
// @Produce      json
// @Param        location  path      string  true  "world:x:y:z"
// @Success      200       {object}  furnace.Snapshot
// @Failure      404       {object}  map[string]string
// @Router       /api/v1/furnaces/{location} [get]
// @Security     BearerAuth
func (h *Handler) getFurnace(c *gin.Context) {
	loc, ok := h.locationParam(c)
	if !ok {
		return
	}
	snap, err := h.services.Monitoring.GetState(c.Request.Context(), loc)
	if err != nil {
		h.respondError(c, "furnace_get_failed", err, "location", loc.String())
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Unregister furnace
// @Tags         furnaces
// @Produce      json
// @Param        location  path      string  true  "world:x:y:z"
// @Success      200       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /api/v1/furnaces/{location} [delete]
// @Security     BearerAuth
func (h *Handler) unregisterFurnace(c *gin.Context) {
	loc, ok := h.locationParam(c)
	if !ok {
		return
	}
	if err := h.services.Furnace.Unregister(c.Request.Context(), loc); err != nil {
		h.respondError(c, "furnace_unregister_failed", err, "location", loc.String())
		return
	}
	h.audit(c, "furnace_unregistered", "location", loc.String())
	c.JSON(http.StatusOK, gin.H{"status": statusUnregistered, "location": loc.String()})
}

// @Summary      Set slot
// @Description  Replaces one input, fuel or output slot. An empty body or amount 0 clears it.
// @Tags         furnaces
// @Accept       json
// @Produce      json
// @Param        location  path      string       true   "world:x:y:z"
// @Param        kind      path      string       true   "Slot kind"  Enums(input,fuel,output)
// @Param        index     path      int          true   "Slot index"
// @Param        body      body      SlotRequest  false  "Stack"
// @Success      200       {object}  furnace.Snapshot
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /api/v1/furnaces/{location}/slots/{kind}/{index} [put]
// @Security     BearerAuth
func (h *Handler) setSlot(c *gin.Context) {
	loc, ok := h.locationParam(c)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidIndex})
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	var req SlotRequest
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
			return
		}
	}

	snap, err := h.services.Furnace.SetSlot(c.Request.Context(), service.SlotParams{
		Location: loc,
		Kind:     furnace.SlotKind(c.Param("kind")),
		Index:    idx,
		Stack:    req.stack(),
	})
	if err != nil {
		h.respondError(c, "furnace_set_slot_failed", err,
			"location", loc.String(), "kind", c.Param("kind"), "index", idx)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Emergency shutdown
// @Tags         furnaces
// @Produce      json
// @Param        location  path      string  true  "world:x:y:z"
// @Success      200       {object}  map[string]interface{}
// @Failure      404       {object}  map[string]string
// @Router       /api/v1/furnaces/{location}/shutdown [post]
// @Security     BearerAuth
func (h *Handler) shutdownFurnace(c *gin.Context) {
	loc, ok := h.locationParam(c)
	if !ok {
		return
	}
	if err := h.services.Furnace.Shutdown(c.Request.Context(), loc); err != nil {
		h.respondError(c, "furnace_shutdown_failed", err, "location", loc.String())
		return
	}
	h.audit(c, "furnace_shutdown_requested", "location", loc.String())
	h.respondWithStatusAndState(c, statusShutdown, loc)
}

// @Summary      Restart after shutdown
// @Tags         furnaces
// @Produce      json
// @Param        location  path      string  true  "world:x:y:z"
// @Success      200       {object}  map[string]interface{}
// @Failure      404       {object}  map[string]string
// @Router       /api/v1/furnaces/{location}/restart [post]
// @Security     BearerAuth
func (h *Handler) restartFurnace(c *gin.Context) {
	loc, ok := h.locationParam(c)
	if !ok {
		return
	}
	if err := h.services.Furnace.Restart(c.Request.Context(), loc); err != nil {
		h.respondError(c, "furnace_restart_failed", err, "location", loc.String())
		return
	}
	h.audit(c, "furnace_restart_requested", "location", loc.String())
	h.respondWithStatusAndState(c, statusRestarted, loc)
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, loc furnace.Location) {
	resp := gin.H{"status": status}
	if st, err := h.services.Monitoring.GetState(c.Request.Context(), loc); err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}
