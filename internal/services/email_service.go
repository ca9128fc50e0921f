package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/dmartell/clientia-api/internal/config"
	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *EmailService) send(to, subject, body string) error {
	if s.config.ResendAPIKey == "" || to == "" {
		logger.Warn("Email skipped: Resend not configured or recipient missing", "subject", subject)
		return nil
	}
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.resendClient.Emails.Send(params); err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", to, err))
		return err
	}
	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", to, subject))
	return nil
}

// SendRecoveryCode sends a password recovery code to the user
func (s *EmailService) SendRecoveryCode(ctx context.Context, user *models.User, code string) error {
	data := struct {
		Name    string
		Code    string
		Minutes int
		AppURL  string
	}{
		Name:    user.FullName,
		Code:    code,
		Minutes: 15,
		AppURL:  s.config.AppURL,
	}

	body, err := s.renderTemplate("reset_code.html", data)
	if err != nil {
		return err
	}
	return s.send(user.Email, "Código de reseteo", body)
}

// SendQuoteToClient sends the public quote link to the client contact
func (s *EmailService) SendQuoteToClient(ctx context.Context, quote *models.Quote) error {
	if quote.Client.Email == nil || quote.PublicToken == nil {
		return nil
	}

	data := struct {
		ClientName string
		Number     string
		TotalTTC   string
		Validity   string
		QuoteURL   string
	}{
		ClientName: quote.Client.Name,
		Number:     quote.Number,
		TotalTTC:   fmt.Sprintf("%.2f", quote.TotalTTC),
		QuoteURL:   fmt.Sprintf("%s/public/quotes/%s", s.config.AppURL, *quote.PublicToken),
	}
	if quote.ValidityDate != nil {
		data.Validity = quote.ValidityDate.Format("02/01/2006")
	}

	body, err := s.renderTemplate("quote_sent.html", data)
	if err != nil {
		return err
	}
	return s.send(*quote.Client.Email, fmt.Sprintf("Cotización %s", quote.Number), body)
}

// SendQuoteAccepted notifies the quote creator that the client signed
func (s *EmailService) SendQuoteAccepted(ctx context.Context, quote *models.Quote, creator *models.User) error {
	if creator == nil {
		return nil
	}

	data := struct {
		Name       string
		Number     string
		ClientName string
		AppURL     string
	}{
		Name:       creator.FullName,
		Number:     quote.Number,
		ClientName: quote.Client.Name,
		AppURL:     s.config.AppURL,
	}

	body, err := s.renderTemplate("quote_accepted.html", data)
	if err != nil {
		return err
	}
	return s.send(creator.Email, fmt.Sprintf("Cotización %s aceptada", quote.Number), body)
}

// SendInvoiceToClient sends the public invoice link to the client contact
func (s *EmailService) SendInvoiceToClient(ctx context.Context, invoice *models.Invoice) error {
	if invoice.Client.Email == nil || invoice.PublicToken == nil {
		return nil
	}

	data := struct {
		ClientName string
		Number     string
		TotalTTC   string
		DueDate    string
		InvoiceURL string
	}{
		ClientName: invoice.Client.Name,
		Number:     invoice.Number,
		TotalTTC:   fmt.Sprintf("%.2f", invoice.TotalTTC),
		InvoiceURL: fmt.Sprintf("%s/public/invoices/%s", s.config.AppURL, *invoice.PublicToken),
	}
	if invoice.DueDate != nil {
		data.DueDate = invoice.DueDate.Format("02/01/2006")
	}

	body, err := s.renderTemplate("invoice_sent.html", data)
	if err != nil {
		return err
	}
	return s.send(*invoice.Client.Email, fmt.Sprintf("Factura %s", invoice.Number), body)
}

// SendInvoicePaid confirms the payment to the client contact
func (s *EmailService) SendInvoicePaid(ctx context.Context, invoice *models.Invoice) error {
	if invoice.Client.Email == nil {
		return nil
	}

	data := struct {
		ClientName string
		Number     string
		TotalTTC   string
	}{
		ClientName: invoice.Client.Name,
		Number:     invoice.Number,
		TotalTTC:   fmt.Sprintf("%.2f", invoice.TotalTTC),
	}

	body, err := s.renderTemplate("invoice_paid.html", data)
	if err != nil {
		return err
	}
	return s.send(*invoice.Client.Email, fmt.Sprintf("Pago recibido - Factura %s", invoice.Number), body)
}

// SendAccountCreated welcomes a new staff user with a temporary password
func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User, tempPassword string) error {
	data := struct {
		Name         string
		Email        string
		TempPassword string
		AppURL       string
	}{
		Name:         user.FullName,
		Email:        user.Email,
		TempPassword: tempPassword,
		AppURL:       s.config.AppURL,
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}
	return s.send(user.Email, "Bienvenido a Clientia", body)
}
