package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/attendance-scheduler/internal/model"
	"github.com/iliyamo/attendance-scheduler/internal/whatsapp"
)

// fakeSender scripts per-recipient delivery outcomes and records every
// payload handed to it.  Payload construction is delegated to the real
// builder so the tests see the exact template shape.
type fakeSender struct {
	builder  *whatsapp.Client
	statuses map[string]int   // provider status by waId (default 200)
	errs     map[string]error // transport error by waId
	sent     []whatsapp.TemplatePayload
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		builder:  whatsapp.NewClient(whatsapp.Config{TemplateName: "ticket_order", LanguageCode: "en"}),
		statuses: map[string]int{},
		errs:     map[string]error{},
	}
}

func (f *fakeSender) BuildTemplatePayload(userID, checkinDate, checkinTime, address string, latitude, longitude float64, phoneNumber string) whatsapp.TemplatePayload {
	return f.builder.BuildTemplatePayload(userID, checkinDate, checkinTime, address, latitude, longitude, phoneNumber)
}

func (f *fakeSender) SendTemplate(_ context.Context, _ *whatsapp.Session, payload whatsapp.TemplatePayload) (int, error) {
	f.sent = append(f.sent, payload)
	if err := f.errs[payload.WaID]; err != nil {
		return 0, err
	}
	if status, ok := f.statuses[payload.WaID]; ok {
		return status, nil
	}
	return http.StatusOK, nil
}

func phonePtr(s string) *string { return &s }

func pendingEvent(id uint64, userID, timezone string) model.ScheduleEvent {
	return model.ScheduleEvent{
		ID:           id,
		UserID:       userID,
		EventType:    model.EventTypeEntry,
		EventDate:    "2024-03-05",
		ScheduledFor: time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC),
		Timezone:     timezone,
	}
}

func contactFor(userID string, phone *string) model.ContactProfile {
	return model.ContactProfile{
		UserID:            userID,
		PhoneNumber:       phone,
		LocationAddress:   "Av. Arequipa 123",
		LocationLatitude:  -12.05,
		LocationLongitude: -77.04,
	}
}

func TestDeliverPending_SkipsEventsWithoutPhone(t *testing.T) {
	t.Parallel()

	sender := newFakeSender()
	pending := []model.ScheduleEvent{
		pendingEvent(1, "with-phone", "America/Lima"),
		pendingEvent(2, "nil-phone", "America/Lima"),
		pendingEvent(3, "empty-phone", "America/Lima"),
		pendingEvent(4, "no-contact-row", "America/Lima"),
	}
	contacts := map[string]model.ContactProfile{
		"with-phone":  contactFor("with-phone", phonePtr("+51987654321")),
		"nil-phone":   contactFor("nil-phone", nil),
		"empty-phone": contactFor("empty-phone", phonePtr("")),
	}

	notified, skipped, failures := deliverPending(context.Background(), sender, pending, contacts)

	// Skipped events are neither marked nor reported as failures; they
	// just stay pending.
	require.Equal(t, []uint64{1}, notified)
	require.Equal(t, 3, skipped)
	require.Empty(t, failures)
	require.Len(t, sender.sent, 1)
	require.Equal(t, "51987654321", sender.sent[0].WaID)
}

func TestDeliverPending_ClassifiesFailures(t *testing.T) {
	t.Parallel()

	sender := newFakeSender()
	sender.statuses["51900000001"] = http.StatusInternalServerError
	sender.errs["51900000002"] = errors.New("dial tcp: connection refused")

	pending := []model.ScheduleEvent{
		pendingEvent(10, "rejected", "America/Lima"),
		pendingEvent(11, "unreachable", "America/Lima"),
		pendingEvent(12, "delivered", "America/Lima"),
	}
	contacts := map[string]model.ContactProfile{
		"rejected":    contactFor("rejected", phonePtr("+51900000001")),
		"unreachable": contactFor("unreachable", phonePtr("+51900000002")),
		"delivered":   contactFor("delivered", phonePtr("+51900000003")),
	}

	notified, skipped, failures := deliverPending(context.Background(), sender, pending, contacts)

	require.Equal(t, []uint64{12}, notified)
	require.Equal(t, 0, skipped)
	require.Equal(t, []failureEntry{
		{ID: 10, Error: "status 500"},
		{ID: 11, Error: "dial tcp: connection refused"},
	}, failures)

	// A failed send does not stop the batch; all three were attempted.
	require.Len(t, sender.sent, 3)
	require.NotContains(t, notified, uint64(10))
	require.NotContains(t, notified, uint64(11))
}

func TestDeliverPending_LocalizesPayloadTimes(t *testing.T) {
	t.Parallel()

	sender := newFakeSender()
	pending := []model.ScheduleEvent{
		pendingEvent(20, "lima", "America/Lima"),
		pendingEvent(21, "no-zone", ""), // empty zone falls back to UTC
	}
	contacts := map[string]model.ContactProfile{
		"lima":    contactFor("lima", phonePtr("+51911111111")),
		"no-zone": contactFor("no-zone", phonePtr("+51922222222")),
	}

	notified, skipped, failures := deliverPending(context.Background(), sender, pending, contacts)
	require.Equal(t, []uint64{20, 21}, notified)
	require.Equal(t, 0, skipped)
	require.Empty(t, failures)
	require.Len(t, sender.sent, 2)

	// 2024-03-05T14:07Z is 09:07 the same day in Lima.
	lima := sender.sent[0]
	require.Equal(t, whatsapp.TemplateText{Type: "text", Text: "lima"}, lima.Body.Map["employee_name"])
	require.Equal(t, whatsapp.TemplateText{Type: "text", Text: "05/03/2024"}, lima.Body.Map["checkin_date"])
	require.Equal(t, whatsapp.TemplateText{Type: "text", Text: "09:07"}, lima.Body.Map["checkin_time"])
	require.Equal(t, whatsapp.TemplateText{Type: "text", Text: "Av. Arequipa 123"}, lima.Body.Map["checkin_location"])

	utc := sender.sent[1]
	require.Equal(t, whatsapp.TemplateText{Type: "text", Text: "05/03/2024"}, utc.Body.Map["checkin_date"])
	require.Equal(t, whatsapp.TemplateText{Type: "text", Text: "14:07"}, utc.Body.Map["checkin_time"])
}

func TestDeliverPending_EmptyBatch(t *testing.T) {
	t.Parallel()

	sender := newFakeSender()
	notified, skipped, failures := deliverPending(context.Background(), sender, nil, nil)
	require.Empty(t, notified)
	require.Equal(t, 0, skipped)
	require.Empty(t, failures)
	require.Empty(t, sender.sent)
}
