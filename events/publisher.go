package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gst-billing-backend/logger"
	"gst-billing-backend/models"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Event types consumed by the PDF and email services.
const (
	TypeDocumentCreated  = "document.created"
	TypeDocumentReminder = "document.reminder"
	TypeDocumentOverdue  = "document.overdue"
)

type Event struct {
	Type       string    `json:"type"`
	CompanyID  string    `json:"company_id"`
	DocumentID uint      `json:"document_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// DocumentRender is everything a renderer needs to lay out a document without reading the
// database: the header with items and customer, plus the issuing company's letterhead.
type DocumentRender struct {
	Company  models.Company  `json:"company"`
	Document models.Document `json:"document"`
}

// Publisher delivers events to the downstream collaborators. Publish returns once the event is
// accepted or ctx is done.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// PubSubPublisher publishes events as JSON messages on one Google Cloud Pub/Sub topic.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPubSubPublisher connects to projectID. credJSON may be empty to use application default
// credentials.
func NewPubSubPublisher(ctx context.Context, projectID, topic, credJSON string) (*PubSubPublisher, error) {
	if projectID == "" || topic == "" {
		return nil, errors.New("pubsub project id and topic are required")
	}
	var opts []option.ClientOption
	if credJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
	}
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub client (project_id=%s): %w", projectID, err)
	}
	return &PubSubPublisher{client: client, topic: client.Topic(topic)}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"type":       ev.Type,
			"company_id": ev.CompanyID,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Type, err)
	}
	return nil
}

// Close flushes pending messages and releases the client.
func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}

// LogPublisher writes events to the log. It is used when no Pub/Sub topic is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, ev Event) error {
	log := logger.WithComponent("events")
	log.Info().
		Str("type", ev.Type).
		Str("company_id", ev.CompanyID).
		Uint("document_id", ev.DocumentID).
		Msg("event published")
	return nil
}
