package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"spellquiz/internal/config"
	"spellquiz/internal/report"
	"spellquiz/internal/results"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ErrInvalidRecipient is returned for a malformed destination address
var ErrInvalidRecipient = errors.New("invalid recipient email")

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidRecipient)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, email)
	}
	return nil
}

// SESClient is the part of the SES v2 API the email service uses
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client    SESClient
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
	logger    *slog.Logger
}

// NewEmailService creates a new email service. Without a sender address the
// service is disabled and every send is a logged no-op.
func NewEmailService(ctx context.Context, cfg config.EmailConfig, logger *slog.Logger) (*EmailService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FromEmail == "" {
		logger.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{debug: cfg.Debug, logger: logger}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("email service enabled", "from", cfg.FromEmail, "region", cfg.AWSRegion)
	return NewEmailServiceWithClient(sesv2.NewFromConfig(awsCfg), cfg, logger), nil
}

// NewEmailServiceWithClient creates an enabled email service on client
func NewEmailServiceWithClient(client SESClient, cfg config.EmailConfig, logger *slog.Logger) *EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailService{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		enabled:   client != nil && cfg.FromEmail != "",
		debug:     cfg.Debug,
		logger:    logger,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		table { border-collapse: collapse; }
		th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
		th { background-color: #4a90e2; color: white; }
		.perfect { color: #2e7d32; }
		.good { color: #f9a825; }
		.needs-improvement { color: #c62828; }
	</style>
</head>
<body>
	<h1>Spelling Practice Results</h1>
	<p>{{.From}} to {{.To}}</p>
	<p>Sessions: {{.Summary.Sessions}} &middot; Learners: {{len .Summary.Learners}} &middot; Average score: {{.Summary.AverageScore}}%</p>
	<table>
		<tr><th>Learner</th><th>Word Set</th><th>Try</th><th>Score</th><th>Time</th><th>Completed</th><th>Learning Details</th></tr>
		{{range .Rows}}<tr>
			<td>{{.Learner}}</td><td>{{.WordSet}}</td><td>{{.Try}}</td>
			<td class="{{.Band}}">{{.Score}}</td><td>{{.Time}}</td><td>{{.Completed}}</td><td>{{.Details}}</td>
		</tr>
		{{else}}<tr><td colspan="7">No results found</td></tr>
		{{end}}
	</table>
</body>
</html>
`))

type digestRow struct {
	Learner   string
	WordSet   string
	Try       string
	Score     string
	Time      string
	Completed string
	Details   string
	Band      results.ScoreBand
}

type digestData struct {
	From, To string
	Summary  results.Summary
	Rows     []digestRow
}

// SendResultsDigest emails a report as an HTML table with a plain text
// alternative
func (s *EmailService) SendResultsDigest(ctx context.Context, toEmail string, rep Report) error {
	toEmail = strings.TrimSpace(toEmail)
	if err := ValidateEmail(toEmail); err != nil {
		return err
	}
	if !s.enabled {
		s.logger.InfoContext(ctx, "skipping email send (service disabled)", "kind", "results digest", "to", toEmail)
		return nil
	}

	data := digestData{
		From:    dateOrAny(rep.Query.From),
		To:      dateOrAny(rep.Query.To),
		Summary: rep.Summary,
	}
	for i, row := range report.Rows(rep.Records) {
		data.Rows = append(data.Rows, digestRow{
			Learner:   row[0],
			WordSet:   row[1],
			Try:       row[2],
			Score:     row[3],
			Time:      row[4],
			Completed: row[5],
			Details:   row[6],
			Band:      results.Band(rep.Records[i]),
		})
	}

	var html bytes.Buffer
	if err := digestTemplate.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to render digest: %w", err)
	}

	var text bytes.Buffer
	fmt.Fprintf(&text, "Spelling practice results, %s to %s\n\n", data.From, data.To)
	if err := report.WriteSummary(&text, rep.Summary); err != nil {
		return err
	}
	text.WriteString("\n")
	if err := report.Table(&text, rep.Records); err != nil {
		return err
	}

	subject := fmt.Sprintf("Spelling practice results (%d sessions)", rep.Summary.Sessions)
	if s.debug {
		s.logger.DebugContext(ctx, "sending results digest", "to", toEmail,
			"html_bytes", html.Len(), "text_bytes", text.Len())
	}
	return s.sendEmail(ctx, toEmail, subject, html.String(), text.String())
}

func dateOrAny(t time.Time) string {
	if t.IsZero() {
		return "any date"
	}
	return t.Format(results.DateLayout)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	s.logger.InfoContext(ctx, "email sent", "to", toEmail, "message_id", aws.ToString(result.MessageId))
	return nil
}
