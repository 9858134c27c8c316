package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/attendance-scheduler/internal/model"
	"github.com/iliyamo/attendance-scheduler/internal/repository"
	"github.com/iliyamo/attendance-scheduler/internal/schedule"
	"github.com/iliyamo/attendance-scheduler/internal/whatsapp"
)

// templateSender is the slice of the provider client one delivery pass
// uses.  *whatsapp.Client satisfies it; tests drive the pass with a
// scripted sender instead.
type templateSender interface {
	BuildTemplatePayload(userID, checkinDate, checkinTime, address string, latitude, longitude float64, phoneNumber string) whatsapp.TemplatePayload
	SendTemplate(ctx context.Context, s *whatsapp.Session, payload whatsapp.TemplatePayload) (int, error)
}

// NotifierHandler runs one delivery pass: load every event still
// pending, resolve contact profiles, send one localized template
// message per event strictly sequentially through a single session,
// and finally mark the successful ones notified in one batch.  Events
// that fail stay pending and are retried by the next run; events whose
// contact has no phone number are skipped without being counted as
// failures.
type NotifierHandler struct {
	Profiles *repository.ProfileRepo
	Events   *repository.EventRepo
	WhatsApp *whatsapp.Client
}

// NewNotifierHandler constructs a NotifierHandler.  All dependencies
// must be non-nil.
func NewNotifierHandler(profiles *repository.ProfileRepo, events *repository.EventRepo, wa *whatsapp.Client) *NotifierHandler {
	if profiles == nil || events == nil || wa == nil {
		panic("nil dependency passed to NewNotifierHandler")
	}
	return &NotifierHandler{Profiles: profiles, Events: events, WhatsApp: wa}
}

// failureEntry reports one event that could not be delivered.
type failureEntry struct {
	ID    uint64 `json:"id"`
	Error string `json:"error"`
}

// notifierSummary is the JSON response of a notifier run.
type notifierSummary struct {
	Detail   string         `json:"detail"`
	Pending  int            `json:"pending"`
	Notified int            `json:"notified"`
	Skipped  int            `json:"skipped"`
	Failures []failureEntry `json:"failures"`
}

// Run handles POST /v1/notifier/run.
func (h *NotifierHandler) Run(c echo.Context) error {
	ctx := c.Request().Context()

	pending, err := h.Events.ListPending(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"detail": "Failed to load pending events", "error": err.Error(),
		})
	}
	if len(pending) == 0 {
		return c.JSON(http.StatusOK, notifierSummary{
			Detail:   "No pending events",
			Failures: []failureEntry{},
		})
	}

	contacts, err := h.Profiles.ListContactsByUserIDs(ctx, uniqueUserIDs(pending))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"detail": "Failed to load contact profiles", "error": err.Error(),
		})
	}
	byUser := make(map[string]model.ContactProfile, len(contacts))
	for _, contact := range contacts {
		byUser[contact.UserID] = contact
	}

	notifiedIDs, skipped, failures := deliverPending(ctx, h.WhatsApp, pending, byUser)

	if err := h.Events.MarkNotified(ctx, notifiedIDs); err != nil {
		// Sent-but-unmarked events will be resent next run; the count
		// of successful sends is included so operators can see the
		// duplicate-delivery exposure.
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"detail": "Failed to update notifications", "error": err.Error(),
			"notified": len(notifiedIDs),
		})
	}

	return c.JSON(http.StatusOK, notifierSummary{
		Detail:   "Notifications processed",
		Pending:  len(pending),
		Notified: len(notifiedIDs),
		Skipped:  skipped,
		Failures: failures,
	})
}

// deliverPending walks one pending batch in order and sends one
// localized template per event.  One session serves the whole batch:
// it starts unauthenticated, the first send logs in lazily, and every
// auth transition updates the tokens through the pointer.  Sends stay
// sequential to respect provider session and rate constraints.
//
// Events whose contact is missing a phone number are skipped: neither
// success nor failure, they stay pending until contact data is
// completed and never enter the returned id list.  Transport errors
// and non-2xx provider statuses become failure entries; only cleanly
// delivered ids are returned for marking.
func deliverPending(ctx context.Context, sender templateSender, pending []model.ScheduleEvent, contacts map[string]model.ContactProfile) (notifiedIDs []uint64, skipped int, failures []failureEntry) {
	session := whatsapp.Session{}
	notifiedIDs = make([]uint64, 0, len(pending))
	failures = []failureEntry{}

	for _, ev := range pending {
		contact, ok := contacts[ev.UserID]
		if !ok || contact.PhoneNumber == nil || *contact.PhoneNumber == "" {
			skipped++
			continue
		}

		timezone := ev.Timezone
		if timezone == "" {
			timezone = "UTC"
		}
		checkinDate, checkinTime := schedule.FormatLocal(ev.ScheduledFor, timezone)

		payload := sender.BuildTemplatePayload(
			ev.UserID, checkinDate, checkinTime,
			contact.LocationAddress, contact.LocationLatitude, contact.LocationLongitude,
			*contact.PhoneNumber)

		status, err := sender.SendTemplate(ctx, &session, payload)
		if err != nil {
			failures = append(failures, failureEntry{ID: ev.ID, Error: err.Error()})
			continue
		}
		if status < 200 || status >= 300 {
			failures = append(failures, failureEntry{ID: ev.ID, Error: statusText(status)})
			continue
		}
		notifiedIDs = append(notifiedIDs, ev.ID)
	}
	return notifiedIDs, skipped, failures
}

// uniqueUserIDs collects the deduplicated user id set of a batch.
func uniqueUserIDs(events []model.ScheduleEvent) []string {
	seen := make(map[string]struct{}, len(events))
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.UserID]; ok {
			continue
		}
		seen[ev.UserID] = struct{}{}
		ids = append(ids, ev.UserID)
	}
	return ids
}

// statusText renders a provider HTTP status as a per-event failure reason.
func statusText(status int) string {
	return "status " + strconv.Itoa(status)
}
