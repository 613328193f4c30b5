package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	cfg "github.com/socialmindhq/socialmind/configs"
)

// Mailer sends transactional email. Callers treat failures as best-effort:
// a missed mail never fails the request that triggered it.
type Mailer interface {
	SendWelcome(ctx context.Context, toEmail, name string) error
	SendOtp(ctx context.Context, toEmail, code string) error
	SendScheduleConfirmation(ctx context.Context, toEmail, title string) error
	SendPostLive(ctx context.Context, toEmail, title string) error
	SendDailyReminder(ctx context.Context, toEmail string, scheduledToday int) error
}

type sesMailer struct {
	config cfg.Config
}

func NewMailer(config cfg.Config) Mailer {
	return &sesMailer{config: config}
}

func (m *sesMailer) client(ctx context.Context) (*ses.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(m.config.SES.Region),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return ses.NewFromConfig(awsCfg), nil
}

func (m *sesMailer) send(ctx context.Context, toEmail, subject, body string) error {
	client, err := m.client(ctx)
	if err != nil {
		return err
	}

	from := m.config.SES.FromEmail
	if m.config.SES.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.config.SES.FromName, m.config.SES.FromEmail)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := client.SendEmail(ctx, input); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (m *sesMailer) SendWelcome(ctx context.Context, toEmail, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nWelcome to Social Mind. Connect your accounts and schedule your first post from the dashboard.\n", name)
	return m.send(ctx, toEmail, "Welcome to Social Mind", body)
}

func (m *sesMailer) SendOtp(ctx context.Context, toEmail, code string) error {
	body := fmt.Sprintf("Your Social Mind sign-in code is %s. It expires in 5 minutes.\n\nIf you didn't try to sign in, you can ignore this email.\n", code)
	return m.send(ctx, toEmail, "Your sign-in code", body)
}

func (m *sesMailer) SendScheduleConfirmation(ctx context.Context, toEmail, title string) error {
	body := fmt.Sprintf("Your post %q has been scheduled. We'll publish it at the time you picked.\n", title)
	return m.send(ctx, toEmail, "Post scheduled", body)
}

func (m *sesMailer) SendPostLive(ctx context.Context, toEmail, title string) error {
	body := fmt.Sprintf("Your post %q just went live.\n", title)
	return m.send(ctx, toEmail, "Post published", body)
}

func (m *sesMailer) SendDailyReminder(ctx context.Context, toEmail string, scheduledToday int) error {
	body := fmt.Sprintf("You have %d post(s) scheduled for today. Open the calendar to review them.\n", scheduledToday)
	return m.send(ctx, toEmail, "Today's scheduled posts", body)
}
