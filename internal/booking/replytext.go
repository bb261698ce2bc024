package booking

import (
	"fmt"
	"strings"

	"github.com/oakfield-labs/clinic-scheduler/internal/schedule"
)

// replySubject threads the reply onto the patient's subject line.
func replySubject(original string) string {
	s := strings.TrimSpace(original)
	if s == "" {
		return "Your appointment request"
	}
	if strings.HasPrefix(strings.ToLower(s), "re:") {
		return s
	}
	return "Re: " + s
}

// availabilityTable renders open slots grouped by day, in slot order.
func availabilityTable(slots []schedule.Slot) string {
	var b strings.Builder
	var currentDate string
	for _, s := range slots {
		if s.Date != currentDate {
			if currentDate != "" {
				b.WriteString("\n")
			}
			currentDate = s.Date
			fmt.Fprintf(&b, "%s (%s):\n", s.Day, s.Start.Format("January 2"))
		}
		fmt.Fprintf(&b, "  %s\n", s.TimeRange())
	}
	return b.String()
}

func availabilityBody(doctor, clinic string, slots []schedule.Slot) string {
	var b strings.Builder
	b.WriteString("Hello,\n\n")
	if len(slots) == 0 {
		fmt.Fprintf(&b, "%s is fully booked for the rest of this week. Availability resets at the start of each week, so please check back then.\n", doctor)
	} else {
		fmt.Fprintf(&b, "Here is %s's remaining availability for this week:\n\n", doctor)
		b.WriteString(availabilityTable(slots))
		b.WriteString("\nReply with the day and time you would like and we will book it for you.\n")
	}
	fmt.Fprintf(&b, "\nThank you,\n%s", clinic)
	return b.String()
}

func confirmationBody(doctor, clinic string, out Outcome) string {
	var b strings.Builder
	b.WriteString("Hello,\n\n")
	if len(out.Booked) == 1 {
		fmt.Fprintf(&b, "Your appointment with %s is confirmed:\n\n", doctor)
	} else {
		fmt.Fprintf(&b, "Your appointments with %s are confirmed:\n\n", doctor)
	}
	for _, s := range out.Booked {
		fmt.Fprintf(&b, "  %s\n", s.Label)
	}
	if n := len(out.Failed); n > 0 {
		fmt.Fprintf(&b, "\nNote: %d of your requested times could not be booked.\n", n)
	}
	fmt.Fprintf(&b, "\nWe look forward to seeing you.\n\nThank you,\n%s", clinic)
	return b.String()
}

func apologyBody(doctor, clinic string, open []schedule.Slot) string {
	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString("Unfortunately, none of the times you asked for are available.\n\n")
	if len(open) == 0 {
		fmt.Fprintf(&b, "%s has no other open slots this week.\n", doctor)
	} else {
		fmt.Fprintf(&b, "Here is %s's remaining availability for this week:\n\n", doctor)
		b.WriteString(availabilityTable(open))
		b.WriteString("\nReply with one of the times above and we will book it for you.\n")
	}
	fmt.Fprintf(&b, "\nThank you,\n%s", clinic)
	return b.String()
}

func notConfiguredBody(doctor, clinic string) string {
	return fmt.Sprintf("Hello,\n\nWe do not currently have weekly availability on file for %s. Please contact the clinic directly and we will arrange a time for you.\n\nThank you,\n%s", doctor, clinic)
}

func noSlotsBody(doctor, clinic string) string {
	return fmt.Sprintf("Hello,\n\n%s has no remaining open slots this week. Availability resets at the start of each week, so please write back then or contact the clinic directly.\n\nThank you,\n%s", doctor, clinic)
}

func clarificationBody(clinic string) string {
	return fmt.Sprintf("Hello,\n\nThanks for reaching out. We could not quite tell what you were asking for. If you would like to see open times, just ask about availability. If you would like to book, reply with the day and time you want, for example \"Monday at 10:00 AM\".\n\nThank you,\n%s", clinic)
}

func restateBody(clinic string) string {
	return fmt.Sprintf("Hello,\n\nWe could not find a specific day and time in your message. Please restate when you would like to come in, for example \"Monday at 10:00 AM\".\n\nThank you,\n%s", clinic)
}

func faultBody(clinic string) string {
	return fmt.Sprintf("Hello,\n\nSomething went wrong while handling your message. Please try again shortly, or contact the clinic directly.\n\nThank you,\n%s", clinic)
}
