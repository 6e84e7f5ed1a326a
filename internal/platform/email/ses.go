// Package email sends transactional email via Amazon SES. The only mail
// this application sends is the sign-up confirmation message.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/bambini-app/bambini-api/internal/config"
)

// ConfirmationSender delivers sign-up confirmation messages. The local
// identity provider depends on this interface rather than on SES
// directly.
type ConfirmationSender interface {
	// SendConfirmation delivers a confirmation message carrying the given
	// token to the guardian's address.
	SendConfirmation(ctx context.Context, toEmail, toName, token string) error
}

// SESSender implements ConfirmationSender using Amazon SES. A sender
// constructed without a from-address is disabled and silently skips all
// sends, which keeps local development free of AWS credentials.
type SESSender struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	logger     *slog.Logger
}

// NewSESSender creates a ConfirmationSender backed by Amazon SES.
func NewSESSender(ctx context.Context, cfg appconfig.EmailConfig, logger *slog.Logger) (*SESSender, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "email_sender"))

	if cfg.FromAddress == "" {
		logger.Info("email sender disabled: no from address configured")
		return &SESSender{enabled: false, logger: logger}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("email sender enabled",
		slog.String("from", cfg.FromAddress),
		slog.String("region", cfg.AWSRegion))

	return &SESSender{
		client:     sesv2.NewFromConfig(awsCfg),
		fromEmail:  cfg.FromAddress,
		fromName:   cfg.FromName,
		appBaseURL: cfg.AppBaseURL,
		enabled:    true,
		logger:     logger,
	}, nil
}

// Ensure SESSender implements ConfirmationSender
var _ ConfirmationSender = (*SESSender)(nil)

// SendConfirmation implements ConfirmationSender.SendConfirmation
func (s *SESSender) SendConfirmation(ctx context.Context, toEmail, toName, token string) error {
	if !s.enabled {
		s.logger.Debug("skipping confirmation email: sender disabled")
		return nil
	}

	confirmLink := fmt.Sprintf("%s/auth/confirm?token=%s", s.appBaseURL, token)
	subject := "Confirm your Bambini account"
	htmlBody := fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Welcome to Bambini! Please confirm your email address to finish setting up your account:</p>
<p><a href="%s">Confirm my email</a></p>
<p>If you did not create a Bambini account, you can ignore this message.</p>
</body></html>`, toName, confirmLink)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nWelcome to Bambini! Confirm your email address to finish setting up your account:\n\n%s\n\nIf you did not create a Bambini account, you can ignore this message.\n",
		toName, confirmLink)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody)},
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	})
	if err != nil {
		s.logger.Error("failed to send confirmation email",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	s.logger.Info("confirmation email sent")
	return nil
}
