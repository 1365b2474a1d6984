package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/itou/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Sender delivers one message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SESAPI is the part of the SES client used by SESSender
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends messages through Amazon SES
type SESSender struct {
	client SESAPI
}

// NewSESSender creates a sender from the email configuration
func NewSESSender(ctx context.Context, cfg config.EmailConfig) (*SESSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}
	client := ses.NewFromConfig(awsCfg, func(o *ses.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewSESSenderWithClient(client), nil
}

// NewSESSenderWithClient wraps an existing SES client
func NewSESSenderWithClient(client SESAPI) *SESSender {
	return &SESSender{client: client}
}

// Send sends msg as a UTF-8 plain text email
func (s *SESSender) Send(ctx context.Context, msg Message) error {
	if len(msg.Recipients()) == 0 {
		return errors.New("email has no recipient")
	}
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses:  msg.To,
			CcAddresses:  msg.Cc,
			BccAddresses: msg.Bcc,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}

// LogSender only logs messages, for environments without SES
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("Email",
		zap.String("from", msg.From),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
