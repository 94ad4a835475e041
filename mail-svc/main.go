package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/SundayYogurt/bachelor-point/config"
	"github.com/SundayYogurt/bachelor-point/infra/queue"
	"github.com/SundayYogurt/bachelor-point/mail-svc/internal/api/rest/handlers"
	"github.com/SundayYogurt/bachelor-point/mail-svc/internal/services"
	"github.com/SundayYogurt/bachelor-point/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// ---------- Load Config ----------
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer lg.Sync()

	if !cfg.KafkaEnabled() {
		lg.Fatal("KAFKA_BROKER is required")
	}
	lg.Info("mail service starting",
		zap.String("broker", cfg.KafkaBroker),
		zap.String("topic", cfg.KafkaTopic),
		zap.String("group", cfg.KafkaGroupID),
	)

	// ---------- Init Service ----------
	dialer, err := services.NewSMTPDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err != nil {
		lg.Fatal("smtp config", zap.Error(err))
	}
	mailService, err := services.NewMailService(dialer, cfg.MailFrom, cfg.MailFromName, cfg.BaseURL, lg.Named("mail"))
	if err != nil {
		lg.Fatal("mail service", zap.Error(err))
	}

	// ---------- Init Handler ----------
	handler := handlers.NewMailHandler(mailService, lg.Named("events"))

	// ---------- Init Kafka Consumer ----------
	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		"mail-svc",
		handler,
		lg,
	)

	// ---------- Start Listening ----------
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	lg.Info("listening for events")
	if err := consumer.Listen(ctx); err != nil {
		lg.Error("consumer stopped", zap.Error(err))
	}
}
