package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const SubjectImportCompleted = "catalog.import.completed"

// ImportCompletedEvent is published after every authorized import
type ImportCompletedEvent struct {
	EventID           string    `json:"event_id"`
	EventType         string    `json:"event_type"`
	AdminID           string    `json:"admin_id"`
	AdminEmail        string    `json:"admin_email"`
	Source            string    `json:"source"`
	TotalRows         int       `json:"total_rows"`
	SuccessCount      int       `json:"success_count"`
	FailedCount       int       `json:"failed_count"`
	CreatedCount      int       `json:"created_count"`
	UpdatedCount      int       `json:"updated_count"`
	CategoriesCreated int       `json:"categories_created"`
	DurationMs        int64     `json:"duration_ms"`
	Timestamp         time.Time `json:"timestamp"`
}

// Conn is the subset of *nats.Conn used by the publisher
type Conn interface {
	Publish(subj string, data []byte) error
	Close()
}

// Publisher sends catalog events to NATS
type Publisher struct {
	conn   Conn
	logger *logrus.Entry
}

// Connect dials NATS and returns a publisher for it
func Connect(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("bookstore-service-publisher"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewPublisher(conn, logrus.NewEntry(logger)), nil
}

func NewPublisher(conn Conn, logger *logrus.Entry) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "events.publisher"),
	}
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// PublishImportCompleted publishes a catalog.import.completed event
func (p *Publisher) PublishImportCompleted(ctx context.Context, event ImportCompletedEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.EventType = SubjectImportCompleted

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(SubjectImportCompleted, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", SubjectImportCompleted, err)
	}

	p.logger.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"admin_id": event.AdminID,
		"success":  event.SuccessCount,
		"failed":   event.FailedCount,
	}).Debug("Published import event")
	return nil
}
