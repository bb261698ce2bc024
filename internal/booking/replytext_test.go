package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield-labs/clinic-scheduler/internal/intent"
	"github.com/oakfield-labs/clinic-scheduler/internal/schedule"
)

func TestReplySubject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Appointment", "Re: Appointment"},
		{"Re: Appointment", "Re: Appointment"},
		{"RE: appointment", "RE: appointment"},
		{"  Booking  ", "Re: Booking"},
		{"", "Your appointment request"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, replySubject(tt.in))
	}
}

func weekSlots(t *testing.T) []schedule.Slot {
	t.Helper()
	windows := []schedule.Window{
		{Doctor: "Dr. Reyes", Day: time.Monday, Start: schedule.ClockTime{Hour: 9}, End: schedule.ClockTime{Hour: 11}},
		{Doctor: "Dr. Reyes", Day: time.Wednesday, Start: schedule.ClockTime{Hour: 14}, End: schedule.ClockTime{Hour: 15}},
	}
	now := time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC)
	slots := schedule.Generate(windows, now)
	require.Len(t, slots, 3)
	return slots
}

func TestAvailabilityBodyGroupsByDay(t *testing.T) {
	body := availabilityBody("Dr. Reyes", "Oakfield Clinic", weekSlots(t))

	assert.Contains(t, body, "Dr. Reyes's remaining availability")
	assert.Contains(t, body, "Monday (June 2):\n  9:00 AM to 10:00 AM\n  10:00 AM to 11:00 AM\n")
	assert.Contains(t, body, "Wednesday (June 4):\n  2:00 PM to 3:00 PM\n")
	assert.Contains(t, body, "Reply with the day and time")
	assert.Contains(t, body, "Oakfield Clinic")
}

func TestAvailabilityBodyFullyBooked(t *testing.T) {
	body := availabilityBody("Dr. Reyes", "Oakfield Clinic", nil)
	assert.Contains(t, body, "fully booked for the rest of this week")
	assert.NotContains(t, body, "Reply with the day and time")
}

func TestConfirmationBody(t *testing.T) {
	slots := weekSlots(t)

	single := confirmationBody("Dr. Reyes", "Oakfield Clinic", Outcome{Booked: slots[:1]})
	assert.Contains(t, single, "Your appointment with Dr. Reyes is confirmed")
	assert.Contains(t, single, slots[0].Label)
	assert.NotContains(t, single, "could not be booked")

	partial := confirmationBody("Dr. Reyes", "Oakfield Clinic", Outcome{
		Booked: slots[:2],
		Failed: []intent.SlotRequest{{Day: "Friday", Time: "9:00 AM"}, {Day: "Friday", Time: "10:00 AM"}},
	})
	assert.Contains(t, partial, "Your appointments with Dr. Reyes are confirmed")
	assert.Contains(t, partial, "2 of your requested times could not be booked")
}

func TestApologyBody(t *testing.T) {
	withSlots := apologyBody("Dr. Reyes", "Oakfield Clinic", weekSlots(t))
	assert.Contains(t, withSlots, "none of the times you asked for are available")
	assert.Contains(t, withSlots, "Monday (June 2):")
	assert.Contains(t, withSlots, "Reply with one of the times above")

	empty := apologyBody("Dr. Reyes", "Oakfield Clinic", nil)
	assert.Contains(t, empty, "no other open slots this week")
}
