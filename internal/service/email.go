package service

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sashabakes/sasha-bakes/backend/config"
	"github.com/sashabakes/sasha-bakes/backend/internal/models"
)

// Mailer sends account emails.
type Mailer interface {
	SendWelcomeEmail(user *models.User) error
	SendPasswordResetEmail(user *models.User, token string) error
}

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	baseURL      string
	log          *zap.Logger
}

func NewEmailService(cfg *config.Config, log *zap.Logger) *EmailService {
	return &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.EmailFrom,
		fromName:     cfg.EmailName,
		baseURL:      cfg.AppBaseURL,
		log:          log,
	}
}

// SendEmail delivers an HTML email. Without SMTP settings the email is only logged.
func (s *EmailService) SendEmail(to, subject, body string) error {
	if s.smtpHost == "" || s.smtpPort == "" {
		s.log.Info("SMTP not configured, logging email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("body", body))
		return nil
	}

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, body))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) SendWelcomeEmail(user *models.User) error {
	return s.SendEmail(user.Email, "Welcome to Sasha Bakes!", s.buildWelcomeEmailBody(user))
}

func (s *EmailService) SendPasswordResetEmail(user *models.User, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	return s.SendEmail(user.Email, "Reset your Sasha Bakes password", s.buildResetEmailBody(user, link))
}

func greetingName(user *models.User) string {
	return cases.Title(language.English).String(user.Name)
}

func (s *EmailService) buildWelcomeEmailBody(user *models.User) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Welcome to Sasha Bakes!</title>
</head>
<body style="font-family: Georgia, serif; line-height: 1.6; color: #3b2a20; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background-color: #f4d8c4; padding: 20px; text-align: center; border-radius: 10px 10px 0 0;">
		<h1 style="margin: 0; font-size: 28px;">Sasha Bakes</h1>
	</div>
	<div style="background-color: #fffaf5; padding: 30px; border-radius: 0 0 10px 10px;">
		<h2 style="margin-top: 0;">Hello %s!</h2>
		<p>Your account is ready. Save your favourite recipes to your BakeBook, ask Sasha anything about baking, and join the community forum.</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="%s" style="background-color: #b5651d; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px;">Start baking</a>
		</div>
		<p style="color: #8a7566; font-size: 12px;">Happy baking,<br>Sasha</p>
	</div>
</body>
</html>
	`, greetingName(user), s.baseURL)
}

func (s *EmailService) buildResetEmailBody(user *models.User, link string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Reset your password</title>
</head>
<body style="font-family: Georgia, serif; line-height: 1.6; color: #3b2a20; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2>Hi %s,</h2>
	<p>Someone asked to reset the password for your Sasha Bakes account. Use the link below within the next hour.</p>
	<p style="text-align: center; margin: 30px 0;">
		<a href="%s" style="background-color: #b5651d; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px;">Choose a new password</a>
	</p>
	<p style="background-color: #eee; padding: 10px; border-radius: 5px; word-break: break-all; font-size: 12px;">%s</p>
	<p style="color: #8a7566; font-size: 12px;">If you did not ask for this, you can ignore this email.</p>
</body>
</html>
	`, greetingName(user), link, link)
}
