package pub

import (
	"context"
	"supadmin/internal/ports"
	"time"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

const EventSource = "supadmin"

const (
	EventProjectPut     = "project_put"
	EventProjectDeleted = "project_deleted"
)

// ProjectEvent announces a change to stored project credentials. It never carries the key itself.
type ProjectEvent struct {
	Event     string `json:"event"`
	ProjectID string `json:"project_id"`
	URL       string `json:"url,omitempty"`
	At        int64  `json:"at"`
}

// Notifier publishes ProjectEvents to a single topic. A Notifier with no publisher or no topic is a no-op.
type Notifier struct {
	Pub   ports.Publisher
	Topic string
	Now   func() time.Time
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.Pub != nil && n.Topic != ""
}

func (n *Notifier) Notify(ctx context.Context, ev ProjectEvent) error {
	if !n.Enabled() {
		return nil
	}
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	ev.At = now().Unix()
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := n.Pub.PublishRaw(ctx, n.Topic, b); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"event":     ev.Event,
		"projectID": ev.ProjectID,
		"topic":     n.Topic,
	}).Debug("project event published")
	return nil
}
