package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"furnace_engine/internal/furnace"
	"furnace_engine/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid     = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid       = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errLimitInvalid    = "invalid 'limit'; must be a non-negative integer"
	errLocationInvalid = "invalid 'location'; use world:x:y:z"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List logs
// @Description  Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'), type and location. If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         logs
// @Produce      json
// @Param        from      query   string  false  "Start of range"  example(2025-08-01)
// @Param        to        query   string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        type      query   string  false  "Event type"  Enums(REGISTERED,UNREGISTERED,IGNITED,BURNED_OUT,DEPOSITED,EXPLODED,SHUTDOWN,RESTART,CATALOG)
// @Param        location  query   string  false  "Furnace location, world:x:y:z"
// @Param        limit     query   int     false  "Max events (capped at 1000)"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from time.Time
		to   time.Time
		// Normalize event type: trim spaces and uppercase to match expected values.
		eventType = strings.ToUpper(strings.TrimSpace(c.Query("type")))
		location  string
		limit     int
		err       error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	// If only a date is provided, make 'to' end-of-day inclusive.
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if qs := c.Query("location"); qs != "" {
		loc, err := furnace.ParseLocation(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLocationInvalid})
			return
		}
		location = loc.String()
	}
	if qs := c.Query("limit"); qs != "" {
		limit, err = strconv.Atoi(qs)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
			return
		}
	}

	events, err := h.services.EventLog.List(ctx, service.LogFilter{
		From:     from,
		To:       to,
		Type:     eventType,
		Location: location,
		Limit:    limit,
	})
	if err != nil {
		if service.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load logs", "logs_list_failed", err,
			"from", from, "to", to, "type", eventType, "location", location)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// parseQueryTime accepts the formats listed on getLogs, normalized to UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
