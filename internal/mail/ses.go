// AngelaMos | 2026
// ses.go

package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/prasanth1122/coherencebackend/internal/config"
)

type SESMailer struct {
	client *sesv2.Client
	cfg    config.MailConfig
}

func NewSESMailer(
	ctx context.Context,
	cfg config.MailConfig,
) (*SESMailer, error) {
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("ses mailer requires mail.from_address")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESMailer{
		client: sesv2.NewFromConfig(awsCfg),
		cfg:    cfg,
	}, nil
}

func (m *SESMailer) SendPasswordReset(
	ctx context.Context,
	email, token string,
) error {
	link := resetLink(m.cfg.ResetURL, token)

	subject := "Reset your Coherence password"
	textBody := fmt.Sprintf(`We received a request to reset the password for your Coherence account.

Open the link below to choose a new password:
%s

The link expires in 1 hour. If you didn't request a reset, you can ignore this email.
`, link)
	htmlBody := fmt.Sprintf(`<p>We received a request to reset the password for your Coherence account.</p>
<p><a href="%s">Reset your password</a></p>
<p>The link expires in 1 hour. If you didn't request a reset, you can ignore this email.</p>
`, link)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.cfg.FromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send password reset email: %w", err)
	}

	return nil
}
