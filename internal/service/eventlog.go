package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"furnace_engine/internal/models"
	"furnace_engine/internal/repository"
)

const maxLogLimit = 1000

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errInvalidLimit     = errors.New("invalid limit: must be >= 0")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (repository.EventFilter, error) {
	out := repository.EventFilter{
		From:     normalizeToUTC(f.From),
		To:       normalizeToUTC(f.To),
		Type:     normalizeEventType(f.Type),
		Location: strings.TrimSpace(f.Location),
		Limit:    f.Limit,
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return repository.EventFilter{}, errInvalidTimeRange
	}
	if out.Limit < 0 {
		return repository.EventFilter{}, errInvalidLimit
	}
	if out.Limit > maxLogLimit {
		out.Limit = maxLogLimit
	}
	return out, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.FurnaceEvent, error) {
	filter, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, filter)
}

// IsValidationError reports whether err was caused by a bad filter.
func IsValidationError(err error) bool {
	return errors.Is(err, errInvalidTimeRange) || errors.Is(err, errInvalidLimit)
}
