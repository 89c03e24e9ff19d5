package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		if debug {
			log.Println("[DEBUG] Email service will skip sending all emails")
		}
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From Email: %s", fromEmail)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendRescheduleNotice tells a student their assessment window moved.
func (s *EmailService) SendRescheduleNotice(ctx context.Context, student *models.StudentProfile, assessment *models.Assessment, rs *models.AssessmentWindowReschedule) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): reschedule %s to %s", rs.ReferenceCode, student.Email)
		return nil
	}
	if student.Email == "" {
		log.Printf("Skipping reschedule notice %s: student %d has no email", rs.ReferenceCode, student.ID)
		return nil
	}

	scheduleLink := fmt.Sprintf("%s/schedule", s.appBaseURL)
	windowDate := rs.NewWindowStart.Format("Monday, 2 January 2006")
	windowTimes := fmt.Sprintf("%s - %s", rs.NewWindowStart.Format("15:04"), rs.NewWindowEnd.Format("15:04"))

	subject := fmt.Sprintf("Your %s assessment has been rescheduled", assessment.Title)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.window { font-size: 18px; font-weight: bold; text-align: center; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Assessment Rescheduled</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Your teacher has rescheduled your <strong>%s</strong> assessment.</p>
			<p class="window">%s<br>%s</p>
			<p>Reason: %s</p>
			<p>You can open the assessment from your schedule page during the new window:</p>
			<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
			<p>Reference: %s</p>
		</div>
		<div class="footer">
			<p>This is an automated email. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, student.Name, assessment.Title, windowDate, windowTimes, rs.Reason, scheduleLink, rs.ReferenceCode)

	textBody := fmt.Sprintf(`Hi %s,

Your teacher has rescheduled your %s assessment.

New window: %s, %s
Reason: %s

Open the assessment from your schedule page during the new window:
%s

Reference: %s

---
This is an automated email. Please do not reply.
`, student.Name, assessment.Title, windowDate, windowTimes, rs.Reason, scheduleLink, rs.ReferenceCode)

	return s.sendEmail(ctx, student.Email, subject, htmlBody, textBody)
}

// SendWelcomeEmail sends a welcome email to new users
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	scheduleLink := fmt.Sprintf("%s/schedule", s.appBaseURL)

	subject := "Your school schedule account is ready"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Welcome!</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Your account has been created. Your timetable and assessments are available on the schedule page:</p>
			<p style="text-align: center;">
				<a href="%s" class="button">View My Schedule</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, scheduleLink)

	textBody := fmt.Sprintf(`Hi %s,

Your account has been created. Your timetable and assessments are available on the schedule page:
%s

---
This is an automated email. Please do not reply.
`, toName, scheduleLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	if s.debug {
		log.Printf("[DEBUG] sendEmail called: to=%s, subject=%s", toEmail, subject)
	}

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

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
