package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/config"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/application"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

// entityUpdatedSubject matches entity-write events from every tenant:
// market.<tenant_id>.entity.updated.
const entityUpdatedSubject = "market.*.entity.updated"

// queueGroup fans out invalidation work across service replicas; each event
// is applied by exactly one instance per group.
const queueGroup = "cache_invalidation"

// InvalidationConsumerAdapter subscribes to entity-write events on NATS
// JetStream and applies them as cache invalidations. Collaborator write
// endpoints publish after every successful mutation so the entity detail
// cache never outlives a write for longer than the delivery delay.
type InvalidationConsumerAdapter struct {
	nc           *nats.Conn
	js           nats.JetStreamContext
	logger       domain.Logger
	cfg          *config.NATSConfig
	appName      string
	invalidation *application.InvalidationService
	subscription *nats.Subscription
}

// NewInvalidationConsumerAdapter connects to NATS and obtains a JetStream
// context. The returned cleanup drains the connection.
func NewInvalidationConsumerAdapter(ctx context.Context, cfgProvider config.Provider, appLogger domain.Logger, invalidation *application.InvalidationService) (*InvalidationConsumerAdapter, func(), error) {
	appFullCfg := cfgProvider.Get()
	natsCfg := appFullCfg.NATS
	appName := appFullCfg.App.ServiceName

	appLogger.Info(ctx, "Attempting to connect to NATS server", "url", natsCfg.URL)

	nc, err := nats.Connect(natsCfg.URL,
		nats.Name(fmt.Sprintf("%s-invalidation-%s", appName, appFullCfg.Server.PodID)),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.ErrorHandler(func(c *nats.Conn, s *nats.Subscription, err error) {
			subject := ""
			if s != nil {
				subject = s.Subject
			}
			appLogger.Error(ctx, "NATS error", "subscription", subject, "error", err.Error())
		}),
		nats.ClosedHandler(func(c *nats.Conn) {
			appLogger.Info(ctx, "NATS connection closed")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			appLogger.Info(ctx, "NATS reconnected", "url", c.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(c *nats.Conn, err error) {
			appLogger.Warn(ctx, "NATS disconnected", "error", err)
		}),
	)
	if err != nil {
		appLogger.Error(ctx, "Failed to connect to NATS", "url", natsCfg.URL, "error", err.Error())
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", natsCfg.URL, err)
	}

	appLogger.Info(ctx, "Successfully connected to NATS server", "url", nc.ConnectedUrl())

	js, err := nc.JetStream()
	if err != nil {
		appLogger.Error(ctx, "Failed to get JetStream context", "error", err.Error())
		nc.Close()
		return nil, nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	adapter := &InvalidationConsumerAdapter{
		nc:           nc,
		js:           js,
		logger:       appLogger,
		cfg:          &natsCfg,
		appName:      appName,
		invalidation: invalidation,
	}

	cleanup := func() {
		appLogger.Info(context.Background(), "Closing NATS connection...")
		adapter.Close()
	}

	return adapter, cleanup, nil
}

// Start subscribes to the entity-update subject. Malformed payloads are
// acked and logged: redelivering them can never succeed.
func (a *InvalidationConsumerAdapter) Start(ctx context.Context) error {
	if a.js == nil {
		return fmt.Errorf("JetStream context is not initialized")
	}

	a.logger.Info(ctx, "Subscribing to entity update events",
		"subject", entityUpdatedSubject,
		"queue_group", queueGroup,
		"stream_name", a.cfg.StreamName,
	)

	sub, err := a.js.QueueSubscribe(entityUpdatedSubject, queueGroup, func(msg *nats.Msg) {
		var event domain.EntityUpdatedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			a.logger.Warn(ctx, "Discarding malformed entity update event", "subject", msg.Subject, "error", err.Error())
			_ = msg.Ack()
			return
		}

		if err := a.invalidation.Apply(ctx, event); err != nil {
			if errors.Is(err, application.ErrInvalidEvent) {
				a.logger.Warn(ctx, "Discarding unprocessable entity update event", "subject", msg.Subject, "error", err.Error())
				_ = msg.Ack()
				return
			}
			a.logger.Error(ctx, "Failed to apply cache invalidation, leaving for redelivery",
				"subject", msg.Subject, "entity", event.Entity, "error", err.Error())
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(a.cfg.ConsumerName),
		nats.ManualAck(),
		nats.DeliverAll(),
		nats.BindStream(a.cfg.StreamName),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", entityUpdatedSubject, err)
	}
	a.subscription = sub
	return nil
}

// Stop unsubscribes from the entity-update subject.
func (a *InvalidationConsumerAdapter) Stop() error {
	if a.subscription == nil {
		return nil
	}
	if err := a.subscription.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	a.subscription = nil
	return nil
}

// Close drains and closes the NATS connection.
func (a *InvalidationConsumerAdapter) Close() {
	if a.nc != nil && !a.nc.IsClosed() {
		a.logger.Info(context.Background(), "Draining NATS connection...")
		if err := a.nc.Drain(); err != nil {
			a.logger.Error(context.Background(), "Error draining NATS connection", "error", err.Error())
		}
	}
}

// NatsConn returns the underlying NATS connection, used by the readiness
// probe.
func (a *InvalidationConsumerAdapter) NatsConn() *nats.Conn {
	return a.nc
}
