package service

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellquiz/internal/config"
	"spellquiz/internal/models"
	"spellquiz/internal/results"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, in)
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func digestReport() Report {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	recs := results.Enrich([]models.SessionRecord{
		sessionAt("r1", "alice", "Set A", day, wrong("want", "wnat"), right("went")),
		sessionAt("r2", "<bob>", "Set A", day.Add(time.Hour), right("want"), right("went")),
	})
	return Report{
		Query:   ReportQuery{From: day.AddDate(0, 0, -7), To: day},
		Records: recs,
		Summary: results.Summarize(recs),
	}
}

func TestEmailServiceDisabledWithoutSender(t *testing.T) {
	svc, err := NewEmailService(context.Background(), config.EmailConfig{AWSRegion: "eu-west-2"}, discardLogger())
	require.NoError(t, err)
	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.SendResultsDigest(context.Background(), "teacher@example.com", digestReport()))
}

func TestSendResultsDigest(t *testing.T) {
	client := &fakeSES{}
	svc := NewEmailServiceWithClient(client, config.EmailConfig{FromEmail: "quiz@example.com", FromName: "Spelling Quiz"}, discardLogger())
	require.True(t, svc.IsEnabled())

	require.NoError(t, svc.SendResultsDigest(context.Background(), "teacher@example.com", digestReport()))

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "Spelling Quiz <quiz@example.com>", aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"teacher@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "Spelling practice results (2 sessions)", aws.ToString(in.Content.Simple.Subject.Data))

	html := aws.ToString(in.Content.Simple.Body.Html.Data)
	assert.Contains(t, html, "2024-03-03 to 2024-03-10")
	assert.Contains(t, html, "wnat → want")
	assert.Contains(t, html, `class="good"`)
	assert.Contains(t, html, `class="perfect"`)
	assert.Contains(t, html, "&lt;bob&gt;")
	assert.NotContains(t, html, "<bob>")

	text := aws.ToString(in.Content.Simple.Body.Text.Data)
	assert.Contains(t, text, "Sessions: 2")
	assert.Contains(t, text, "1st Try")
	assert.Contains(t, text, "2nd Try")
}

func TestSendResultsDigestError(t *testing.T) {
	client := &fakeSES{err: errStore}
	svc := NewEmailServiceWithClient(client, config.EmailConfig{FromEmail: "quiz@example.com"}, discardLogger())

	err := svc.SendResultsDigest(context.Background(), "teacher@example.com", digestReport())
	assert.ErrorIs(t, err, errStore)
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"teacher@example.com", true},
		{" teacher@school.co.uk ", true},
		{"", false},
		{"teacher", false},
		{"teacher@example", false},
		{"two words@example.com", false},
	}
	for _, tt := range tests {
		in, ok := tt.in, tt.ok
		err := ValidateEmail(in)
		if ok {
			assert.NoError(t, err, in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidRecipient, in)
		}
	}
}

func TestSendResultsDigestRejectsBadRecipient(t *testing.T) {
	client := &fakeSES{}
	svc := NewEmailServiceWithClient(client, config.EmailConfig{FromEmail: "quiz@example.com"}, discardLogger())

	err := svc.SendResultsDigest(context.Background(), "not-an-address", digestReport())
	assert.ErrorIs(t, err, ErrInvalidRecipient)
	assert.Empty(t, client.inputs)
}
