package reply

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSESSenderSend(t *testing.T) {
	api := &fakeSES{}
	sender := NewSESSender(api, SESConfig{FromEmail: "frontdesk@clinic.example", FromName: "Oakfield Clinic"}, nil)
	require.NotNil(t, sender)

	err := sender.Send(context.Background(), Message{
		To:        "pat@example.com",
		ToName:    "Pat",
		Subject:   "Re: Appointment",
		Body:      "You are booked.",
		InReplyTo: "<abc@mail.example>",
	})
	require.NoError(t, err)
	require.NotNil(t, api.input)

	assert.Equal(t, "Oakfield Clinic <frontdesk@clinic.example>", aws.ToString(api.input.FromEmailAddress))
	assert.Equal(t, []string{"pat@example.com"}, api.input.Destination.ToAddresses)

	simple := api.input.Content.Simple
	assert.Equal(t, "Re: Appointment", aws.ToString(simple.Subject.Data))
	assert.Equal(t, "You are booked.", aws.ToString(simple.Body.Text.Data))
	require.Len(t, simple.Headers, 2)
	assert.Equal(t, "In-Reply-To", aws.ToString(simple.Headers[0].Name))
	assert.Equal(t, "<abc@mail.example>", aws.ToString(simple.Headers[0].Value))
}

func TestSESSenderNoThreadingHeadersWithoutInReplyTo(t *testing.T) {
	api := &fakeSES{}
	sender := NewSESSender(api, SESConfig{FromEmail: "frontdesk@clinic.example"}, nil)

	require.NoError(t, sender.Send(context.Background(), Message{To: "pat@example.com", Subject: "Hi", Body: "hello"}))
	assert.Empty(t, api.input.Content.Simple.Headers)
}

func TestSESSenderPropagatesFailure(t *testing.T) {
	api := &fakeSES{err: errors.New("throttled")}
	sender := NewSESSender(api, SESConfig{FromEmail: "frontdesk@clinic.example"}, nil)

	err := sender.Send(context.Background(), Message{To: "pat@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ses send failed")
}

func TestNewSESSenderNilClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{}, nil))
}

func TestNewSendGridSenderRequiresKey(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{}, nil))

	sender := NewSendGridSender(SendGridConfig{APIKey: "SG.test", FromEmail: "frontdesk@clinic.example"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, "Clinic Scheduling", sender.fromName)
}

func TestStubSenderSend(t *testing.T) {
	sender := NewStubSender(nil)
	assert.NoError(t, sender.Send(context.Background(), Message{To: "pat@example.com"}))
}
