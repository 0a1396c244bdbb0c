// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

// EmailService sends transactional mail through the Resend HTTP API.
type EmailService struct {
	apiKey     string
	from       string
	templates  *template.Template
	httpClient *http.Client
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	Name string
}

type TrialWarningData struct {
	DaysRemaining int
	TrialEndDate  time.Time
}

type TrialExpiredData struct {
	SupportEmail string
}

type SubscriptionCancelledData struct {
	AccessUntil time.Time
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:     apiKey,
		from:       "CourseLoft <noreply@courseloft.com>",
		templates:  templates,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("Resend API error: Status: %d, Body: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, name string) error {
	data := WelcomeEmailData{
		Name: name,
	}
	return s.sendTemplateEmail(email, "Welcome to CourseLoft! 🎉", "welcome.html", data)
}

func (s *EmailService) SendTrialWarning(recipient string, daysRemaining int, trialEndDate time.Time) error {
	data := TrialWarningData{
		DaysRemaining: daysRemaining,
		TrialEndDate:  trialEndDate,
	}
	subject := fmt.Sprintf("Your trial ends in %d days", daysRemaining)
	return s.sendTemplateEmail(recipient, subject, "trial_warning.html", data)
}

func (s *EmailService) SendTrialExpired(recipient string) error {
	data := TrialExpiredData{
		SupportEmail: "support@courseloft.com",
	}
	return s.sendTemplateEmail(recipient, "Your trial has expired", "trial_expired.html", data)
}

func (s *EmailService) SendSubscriptionCancelled(recipient string, accessUntil time.Time) error {
	data := SubscriptionCancelledData{
		AccessUntil: accessUntil,
	}
	return s.sendTemplateEmail(recipient, "Your subscription has been cancelled", "subscription_cancelled.html", data)
}
