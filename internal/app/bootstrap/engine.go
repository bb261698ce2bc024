package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oakfield-labs/clinic-scheduler/internal/availability"
	"github.com/oakfield-labs/clinic-scheduler/internal/booking"
	"github.com/oakfield-labs/clinic-scheduler/internal/calendar"
	appconfig "github.com/oakfield-labs/clinic-scheduler/internal/config"
	"github.com/oakfield-labs/clinic-scheduler/internal/intent"
	"github.com/oakfield-labs/clinic-scheduler/internal/observability/metrics"
	"github.com/oakfield-labs/clinic-scheduler/internal/reply"
	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

// Engine bundles the booking orchestrator with the collaborators other layers
// need direct access to (the admin handler reads availability and the
// calendar on its own).
type Engine struct {
	Orchestrator *booking.Orchestrator
	Availability booking.AvailabilityReader
	Calendar     calendar.Reader
	Location     *time.Location
	Metrics      *metrics.SchedulingMetrics
}

// BuildEngine assembles the booking engine from config. awsCfg is only used
// for the Bedrock and SES providers; pass the zero value when neither is
// configured.
func BuildEngine(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, reg prometheus.Registerer, logger *logging.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if cfg.DoctorName == "" {
		return nil, fmt.Errorf("bootstrap: DOCTOR_NAME is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	loc, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load clinic timezone %q: %w", cfg.ClinicTimezone, err)
	}

	store, err := buildAvailability(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	cal, err := buildCalendar(ctx, cfg, loc, logger)
	if err != nil {
		return nil, err
	}

	classifier, extractor, err := buildIntent(ctx, cfg, awsCfg, logger)
	if err != nil {
		return nil, err
	}

	sender, provider := buildSender(cfg, awsCfg, logger)

	m := metrics.NewSchedulingMetrics(reg)

	orch := booking.NewOrchestrator(booking.Config{
		Doctor:       cfg.DoctorName,
		Clinic:       cfg.ClinicName,
		Location:     loc,
		Availability: store,
		Calendar:     cal,
		Writer:       cal,
		Classifier:   classifier,
		Extractor:    extractor,
		Sender:       sender,
		Provider:     provider,
		Logger:       logger,
		Metrics:      m,
	})

	return &Engine{
		Orchestrator: orch,
		Availability: store,
		Calendar:     cal,
		Location:     loc,
		Metrics:      m,
	}, nil
}

func buildAvailability(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*availability.Store, error) {
	var source availability.Source
	switch cfg.AvailabilityProvider {
	case "csv":
		if cfg.AvailabilityCSVPath == "" {
			return nil, fmt.Errorf("bootstrap: AVAILABILITY_CSV_PATH is required for the csv provider")
		}
		source = availability.NewCSVSource(cfg.AvailabilityCSVPath)
	case "sheets":
		src, err := availability.NewSheetsSource(ctx, availability.SheetsConfig{
			SpreadsheetID:   cfg.SheetsSpreadsheetID,
			ReadRange:       cfg.SheetsRange,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			APIKey:          cfg.GoogleAPIKey,
		})
		if err != nil {
			return nil, err
		}
		source = src
	default:
		return nil, fmt.Errorf("bootstrap: unknown availability provider %q", cfg.AvailabilityProvider)
	}
	return availability.NewStore(source, logger), nil
}

// buildCalendar returns the Google calendar when credentials are configured,
// otherwise an in-memory calendar for local development.
func buildCalendar(ctx context.Context, cfg *appconfig.Config, loc *time.Location, logger *logging.Logger) (interface {
	calendar.Reader
	calendar.Writer
}, error) {
	if strings.TrimSpace(cfg.GoogleCredentialsJSON) == "" {
		logger.Warn("no google credentials configured; using in-memory calendar")
		return calendar.NewMemory(), nil
	}
	return calendar.NewGoogleCalendar(ctx, calendar.GoogleConfig{
		CalendarID:      cfg.GoogleCalendarID,
		CredentialsJSON: cfg.GoogleCredentialsJSON,
		Location:        loc,
	})
}

func buildIntent(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (intent.Classifier, intent.Extractor, error) {
	var client intent.LLMClient
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			logger.Warn("no gemini api key configured; using heuristic intent parsing")
			return intent.Heuristic{}, intent.Heuristic{}, nil
		}
		c, err := intent.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		client = c
	case "bedrock":
		if cfg.BedrockModelID == "" {
			return nil, nil, fmt.Errorf("bootstrap: BEDROCK_MODEL_ID is required for the bedrock provider")
		}
		client = intent.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
	case "heuristic":
		return intent.Heuristic{}, intent.Heuristic{}, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown llm provider %q", cfg.LLMProvider)
	}
	return intent.NewLLMClassifier(client, logger), intent.NewLLMExtractor(client, logger), nil
}

func buildSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (reply.Sender, string) {
	switch cfg.MailProvider {
	case "ses":
		if cfg.ReplyFromEmail == "" || awsCfg.Region == "" {
			logger.Warn("ses mail provider not fully configured; using stub sender")
			return reply.NewStubSender(logger), "stub"
		}
		sender := reply.NewSESSender(sesv2.NewFromConfig(awsCfg), reply.SESConfig{
			FromEmail:        cfg.ReplyFromEmail,
			FromName:         cfg.ReplyFromName,
			ConfigurationSet: cfg.SESConfigurationSet,
		}, logger)
		if sender == nil {
			return reply.NewStubSender(logger), "stub"
		}
		return sender, "ses"
	case "sendgrid":
		sender := reply.NewSendGridSender(reply.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.ReplyFromEmail,
			FromName:  cfg.ReplyFromName,
		}, logger)
		if sender == nil {
			logger.Warn("sendgrid mail provider not fully configured; using stub sender")
			return reply.NewStubSender(logger), "stub"
		}
		return sender, "sendgrid"
	default:
		return reply.NewStubSender(logger), "stub"
	}
}
