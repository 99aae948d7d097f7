// Package notifier sends the order confirmation email over SES. It is
// fire-and-forget: checkout never fails because of it.
package notifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/ferremix/storefront/internal/models"
)

type EmailNotifier struct {
	client *ses.Client
	sender string
}

type EmailConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	Sender    string
}

func (c EmailConfig) Enabled() bool {
	return c.Region != "" && c.AccessKey != "" && c.SecretKey != "" && c.Sender != ""
}

func NewEmailNotifier(ctx context.Context, cfg EmailConfig) (*EmailNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &EmailNotifier{client: ses.NewFromConfig(awsCfg), sender: cfg.Sender}, nil
}

// OrderConfirmation emails the buyer. A nil *EmailNotifier is a no-op.
func (n *EmailNotifier) OrderConfirmation(ctx context.Context, recipient string, order *models.Order) error {
	if n == nil {
		return nil
	}
	if recipient == "" {
		return fmt.Errorf("recipient email is empty")
	}

	subject := fmt.Sprintf("Order #%d Confirmation - Thank You for Your Purchase!", order.ID)
	bodyText := fmt.Sprintf(
		"Thank you for your order!\n\nOrder ID: %d\nTotal: RD$ %.2f\nStatus: %s\n\n"+
			"We'll send you another email when your order ships.\n\nFerreMix",
		order.ID, order.Total, order.Status,
	)

	input := &ses.SendEmailInput{
		Source:      aws.String(n.sender),
		Destination: &types.Destination{ToAddresses: []string{recipient}},
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(bodyText)},
			},
		},
	}
	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email for order %d: %w", order.ID, err)
	}
	return nil
}
