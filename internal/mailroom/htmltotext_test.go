package mailroom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "paragraphs become lines",
			in:   "<p>Hello,</p><p>Is Monday at 10:00 AM open?</p>",
			want: "Hello,\nIs Monday at 10:00 AM open?",
		},
		{
			name: "script and style dropped",
			in:   "<style>p{color:red}</style><p>Book Tuesday</p><script>alert(1)</script>",
			want: "Book Tuesday",
		},
		{
			name: "nested markup flattened",
			in:   "<div><b>Please</b> book <i>Friday</i> at <span>2:00 PM</span></div>",
			want: "Please book Friday at 2:00 PM",
		},
		{
			name: "blank runs collapse",
			in:   "<p>a</p><br><br><br><p>b</p>",
			want: "a\n\nb",
		},
		{
			name: "plain text passes through",
			in:   "no markup here",
			want: "no markup here",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTMLToText(tc.in))
		})
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	m := InboundMessage{From: "pat@example.com", HTMLBody: "<p>Monday 10:00 AM please</p>"}
	m.Normalize()

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "Monday 10:00 AM please", m.Body)
	assert.False(t, m.ReceivedAt.IsZero())
}

func TestNormalizeKeepsExplicitFields(t *testing.T) {
	m := InboundMessage{ID: "msg-1", Body: "plain body", HTMLBody: "<p>ignored</p>"}
	m.Normalize()

	assert.Equal(t, "msg-1", m.ID)
	assert.Equal(t, "plain body", m.Body)
}
