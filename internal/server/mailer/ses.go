package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/dmitrijs2005/postgate/internal/logging"
)

const charset = "UTF-8"

type sesAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newSESClient = func(cfg aws.Config, optFns ...func(*sesv2.Options)) sesAPI {
		return sesv2.NewFromConfig(cfg, optFns...)
	}
)

type SESConfig struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// SESSender sends mail through the Amazon SES v2 API.
type SESSender struct {
	client sesAPI
	logger logging.Logger
}

// NewSESSender builds an SES client. Static credentials are used when both
// keys are set, otherwise the default AWS credential chain applies.
func NewSESSender(ctx context.Context, c SESConfig, logger logging.Logger) (*SESSender, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newSESClient(cfg, func(o *sesv2.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	})

	return &SESSender{client: client, logger: logger.With("module", "mailer", "driver", "ses")}, nil
}

func (s *SESSender) SendMail(ctx context.Context, msg Message) (*Delivery, error) {
	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charset)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String(charset)},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ses send: %w", err)
	}

	s.logger.Info(ctx, "mail accepted", "to", msg.To, "message_id", aws.ToString(out.MessageId))
	return &Delivery{Accepted: []string{msg.To}}, nil
}
