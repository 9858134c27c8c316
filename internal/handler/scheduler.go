package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/attendance-scheduler/internal/model"
	"github.com/iliyamo/attendance-scheduler/internal/queue"
	"github.com/iliyamo/attendance-scheduler/internal/repository"
	"github.com/iliyamo/attendance-scheduler/internal/schedule"
	"github.com/iliyamo/attendance-scheduler/internal/service"
)

// SchedulerHandler runs one scheduler pass: read every profile,
// evaluate today's entry/exit instances against the profile's local
// clock, materialize due events idempotently, then dispatch the
// best-effort downstream notifications for rows that were actually
// inserted.  The whole pass is stateless and safe to trigger on any
// cadence; the store's uniqueness key absorbs overlapping runs.
type SchedulerHandler struct {
	Profiles *repository.ProfileRepo
	Events   *repository.EventRepo
	Marker   *service.Marker
}

// NewSchedulerHandler constructs a SchedulerHandler.  All dependencies
// must be non-nil.
func NewSchedulerHandler(profiles *repository.ProfileRepo, events *repository.EventRepo, marker *service.Marker) *SchedulerHandler {
	if profiles == nil || events == nil || marker == nil {
		panic("nil dependency passed to NewSchedulerHandler")
	}
	return &SchedulerHandler{Profiles: profiles, Events: events, Marker: marker}
}

// schedulerSummary is the JSON response of a scheduler run.
type schedulerSummary struct {
	Detail     string `json:"detail"`
	Considered int    `json:"considered"`
	Candidates int    `json:"candidates"`
	Inserted   int    `json:"inserted"`
}

// Run handles POST /v1/scheduler/run.
func (h *SchedulerHandler) Run(c echo.Context) error {
	ctx := c.Request().Context()

	profiles, err := h.Profiles.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"detail": "Failed to load attendance profiles", "error": err.Error(),
		})
	}

	// The clock is read once here; the evaluator itself only ever sees
	// the injected local instant.
	now := time.Now()
	candidates := make([]model.ScheduleEvent, 0)
	for _, p := range profiles {
		if !p.IsActive {
			continue
		}
		localNow := now.In(schedule.SafeLocation(p.Timezone))
		if ev := schedule.Evaluate(p, model.EventTypeEntry, localNow); ev != nil {
			candidates = append(candidates, *ev)
		}
		if ev := schedule.Evaluate(p, model.EventTypeExit, localNow); ev != nil {
			candidates = append(candidates, *ev)
		}
	}

	var inserted []model.ScheduleEvent
	if len(candidates) > 0 {
		inserted, err = h.Events.UpsertEvents(ctx, candidates)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"detail": "Failed to persist attendance events", "error": err.Error(),
			})
		}
	}

	if len(inserted) > 0 {
		// Fire-and-forget relative to persistence: mark calls fan out
		// concurrently and are joined before responding; broker
		// publishes are best-effort and already log their own failures.
		h.Marker.MarkAll(ctx, inserted)
		for _, ev := range inserted {
			_ = service.PublishEventMaterialized(ctx, queue.EventMaterialized{
				EventID:      ev.ID,
				UserID:       ev.UserID,
				EventType:    ev.EventType,
				EventDate:    ev.EventDate,
				ScheduledFor: ev.ScheduledFor.UTC().Format(time.RFC3339),
			})
		}
	}

	return c.JSON(http.StatusOK, schedulerSummary{
		Detail:     "Attendance schedule processed",
		Considered: len(profiles),
		Candidates: len(candidates),
		Inserted:   len(inserted),
	})
}
