package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmartell/clientia-api/internal/config"
	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/services"
	"github.com/dmartell/clientia-api/pkg/logger"
)

// Manual smoke test for the Resend integration. Run with
// TEST_EMAIL_TO set to an address on a verified domain.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Setup("development")

	if cfg.ResendAPIKey == "" {
		log.Fatal("RESEND_API_KEY is not set")
	}

	emailService := services.NewEmailService(cfg)

	toEmail := os.Getenv("TEST_EMAIL_TO")
	if toEmail == "" {
		toEmail = "test@example.com"
		log.Println("TEST_EMAIL_TO not set, using test@example.com. Sending may fail if the domain is not verified.")
	}

	user := &models.User{
		FullName: "Usuario de Prueba",
		Email:    toEmail,
	}

	log.Printf("Sending account created email to %s...", toEmail)
	if err := emailService.SendAccountCreated(context.Background(), user, "Temp1234!"); err != nil {
		log.Fatalf("Failed to send account created email: %v", err)
	}
	log.Println("Account created email sent")

	log.Printf("Sending recovery code email to %s...", toEmail)
	if err := emailService.SendRecoveryCode(context.Background(), user, "123456"); err != nil {
		log.Fatalf("Failed to send recovery code email: %v", err)
	}
	log.Println("Recovery code email sent")
}
