package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartzap/smartzap-events/internal/infra/database"
	"github.com/smartzap/smartzap-events/internal/infra/http/handlers"
	"github.com/smartzap/smartzap-events/internal/infra/http/middleware"
	"github.com/smartzap/smartzap-events/internal/infra/mail"
	"github.com/smartzap/smartzap-events/internal/infra/queue"
	"github.com/smartzap/smartzap-events/internal/infra/worker"
	"github.com/smartzap/smartzap-events/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("❌ Falha ao conectar no Postgres: %v", err)
	}
	defer db.Close()

	// 1. Repositórios
	instanceRepo := database.NewInstanceRepository(db)
	ledgerRepo := database.NewLedgerRepository(db)
	campaignRepo := database.NewCampaignRepository(db)
	alertRepo := database.NewAlertRepository(db)
	contactRepo := database.NewContactRepository(db)
	messageRepo := database.NewMessageRepository(db)
	settingsRepo := database.NewSettingsRepository(db)

	// 2. RabbitMQ (ingestão de mensagens inbound). O webhook é fail-open:
	// sem fila a reconciliação continua, só a ingestão fica de fora.
	var producer queue.QueueProducerInterface
	rabbitMQ, err := queue.NewRabbitMQ(
		getEnv("RABBITMQ_USER", "guest"),
		getEnv("RABBITMQ_PASS", "guest"),
		getEnv("RABBITMQ_HOST", "localhost"),
		getEnv("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Printf("⚠️ RabbitMQ indisponível, ingestão de mensagens desligada: %v", err)
	} else {
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

		ingestWorker := queue.NewWorker(rabbitMQ.Ch, messageRepo, contactRepo)
		go ingestWorker.Start(queue.QueueName)
	}

	// 3. Notificador de alertas críticos por email (opcional)
	var notifier usecase.AlertNotifier
	if os.Getenv("MAIL_HOST") != "" && os.Getenv("ALERT_EMAIL_TO") != "" {
		port, _ := strconv.Atoi(getEnv("MAIL_PORT", "587"))
		notifier = mail.NewAlertMailer(
			os.Getenv("MAIL_HOST"), port,
			os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
			getEnv("MAIL_FROM", "nao-responda@smartzap.app"),
			os.Getenv("ALERT_EMAIL_TO"),
		)
	}

	// 4. UseCase do webhook
	processWebhookUC := usecase.NewProcessWebhookUseCase(
		instanceRepo, ledgerRepo, campaignRepo, alertRepo, contactRepo,
		producer, notifier,
	)

	// 5. Worker que fecha campanhas concluídas
	completionWorker := worker.NewCampaignCompletionWorker(db)
	go completionWorker.Start(context.Background())

	// 6. Handlers
	webhookHandler := handlers.NewWebhookHandler(processWebhookUC, settingsRepo)
	alertHandler := handlers.NewAlertHandler(alertRepo)
	campaignHandler := handlers.NewCampaignHandler(campaignRepo)
	instanceHandler := handlers.NewInstanceHandler(instanceRepo)
	messageHandler := handlers.NewMessageHandler(instanceRepo)

	var healthHandler *handlers.HealthHandler
	if rabbitMQ != nil {
		healthHandler = handlers.NewHealthHandler(db, rabbitMQ.Conn)
	} else {
		healthHandler = handlers.NewHealthHandler(db, nil)
	}

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Get("/webhook", webhookHandler.HandleVerify)
	r.Post("/webhook", webhookHandler.HandleEvents)

	r.Get("/account/alerts", alertHandler.HandleList)
	r.Post("/account/alerts", alertHandler.HandleCreate)
	r.Delete("/account/alerts", alertHandler.HandleDismiss)

	r.Get("/campaigns", campaignHandler.HandleList)
	r.Get("/campaigns/{id}", campaignHandler.HandleGet)

	r.Get("/instances", instanceHandler.HandleList)
	r.Post("/messages/test", messageHandler.HandleSendTest)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + getEnv("PORT", "8080")
	log.Printf("🔥 SmartZap Events rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
