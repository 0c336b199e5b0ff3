package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"heritagecatalog/internal/domain"
)

// Supported values of EMAIL_PROVIDER.
const (
	ProviderSES  = "ses"
	ProviderNoop = "noop"
)

const charsetUTF8 = "UTF-8"

// ErrUnknownProvider is returned by NewMailer for a provider it cannot build.
var ErrUnknownProvider = errors.New("unknown email provider")

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewMailer creates the mailer named by config.Provider. An empty provider means noop.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	switch config.Provider {
	case ProviderSES:
		return newSESMailer(config, logger)
	case ProviderNoop, "":
		return &noopMailer{logger: logger}, nil
	default:
		return nil, fmt.Errorf("%w %q (expected %q or %q)", ErrUnknownProvider, config.Provider, ProviderSES, ProviderNoop)
	}
}

// sesSender is the part of the SES client the mailer uses.
type sesSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesMailer struct {
	client sesSender
	source string
	logger *slog.Logger
}

func newSESMailer(config MailerConfig, logger *slog.Logger) (*sesMailer, error) {
	if config.FromAddress == "" {
		return nil, fmt.Errorf("ses mailer: from address is required")
	}
	if config.SES.Region == "" {
		return nil, fmt.Errorf("ses mailer: region is required")
	}
	from := mail.Address{Name: config.FromName, Address: config.FromAddress}
	if config.SES.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled for SES, use only in development")
	}

	client := ses.NewFromConfig(aws.Config{
		Region: config.SES.Region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			config.SES.AccessKeyID, config.SES.SecretAccessKey, "",
		)),
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: config.SES.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		},
	})
	return &sesMailer{client: client, source: from.String(), logger: logger}, nil
}

func (s *sesMailer) Send(ctx context.Context, to, subject, html, text string) error {
	body := &types.Body{}
	if html != "" {
		body.Html = utf8Content(html)
	}
	if text != "" {
		body.Text = utf8Content(text)
	}
	result, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(s.source),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message:     &types.Message{Subject: utf8Content(subject), Body: body},
	})
	if err != nil {
		return fmt.Errorf("send email via SES: %w", err)
	}
	s.logger.InfoContext(ctx, "email sent via SES", "message_id", aws.ToString(result.MessageId))
	return nil
}

func utf8Content(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String(charsetUTF8)}
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, html, text string) error {
	n.logger.DebugContext(ctx, "email would be sent (noop)", "to", to, "subject", subject)
	return nil
}
