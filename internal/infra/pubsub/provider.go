// Package pubsub publishes passport lifecycle events to Google Pub/Sub or, in
// development, to a local HTTP endpoint that mimics Pub/Sub push delivery.
package pubsub

import (
	"context"
	"log/slog"
	"time"

	"passport/config"
	"passport/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Supported publisher providers.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// defaultPublishTimeout bounds how long a passport operation waits on event delivery.
const defaultPublishTimeout = 5 * time.Second

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewEventPublisher selects the publisher named by pubsub.provider. Without a
// provider, events are dropped by a no-op publisher.
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	publisher, err := newPublisher(params.Ctx, params.Config.PubSub, params.Logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			params.Logger.Info("Closing event publisher")

			return publisher.Close()
		},
	})

	return &boundedPublisher{next: publisher, timeout: defaultPublishTimeout}, nil
}

func newPublisher(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error) {
	if cfg == nil || cfg.Provider == "" {
		logger.Info("PubSub not configured, passport events are disabled")

		return NewNoopPublisher(logger), nil
	}

	switch cfg.Provider {
	case ProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("local endpoint is required for local provider")
		}
		logger.Info("Publishing passport events to local endpoint", slog.String("endpoint", cfg.LocalEndpoint))

		return NewLocalHTTPPublisher(cfg.LocalEndpoint, logger), nil

	case ProviderGoogle:
		if cfg.ProjectID == "" || cfg.TopicID == "" {
			return nil, errors.New("project ID and topic ID are required for google provider")
		}
		logger.Info("Publishing passport events to Google Pub/Sub",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		return NewGooglePubSubPublisher(ctx, cfg.ProjectID, cfg.TopicID, logger)

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}
}

// boundedPublisher caps each publish so a slow broker delays a passport
// operation by at most timeout.
type boundedPublisher struct {
	next    service.EventPublisher
	timeout time.Duration
}

func (p *boundedPublisher) PublishPassportEvent(ctx context.Context, event *service.PassportEvent) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.next.PublishPassportEvent(ctx, event)
}

func (p *boundedPublisher) Close() error {
	return p.next.Close()
}

type noopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher returns a publisher that only logs at debug level.
func NewNoopPublisher(logger *slog.Logger) service.EventPublisher {
	return &noopPublisher{logger: logger}
}

func (p *noopPublisher) PublishPassportEvent(ctx context.Context, event *service.PassportEvent) error {
	p.logger.DebugContext(ctx, "Passport event dropped, publishing disabled",
		slog.String("type", event.Type),
		slog.String("passport_id", event.PassportID),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}
