// Package events announces registry mutations over Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeebo/errs"
)

// Error wraps publisher failures.
var Error = errs.Class("registry events")

// Action names the mutation an event describes.
type Action string

const (
	ActionApply        Action = "apply"
	ActionDelete       Action = "delete"
	ActionUserMetadata Action = "user_metadata"
	ActionTeardown     Action = "teardown"
)

// Event is the JSON message published after a mutation commits.
type Event struct {
	Action    Action    `json:"action"`
	Kind      string    `json:"kind,omitempty"`
	Project   string    `json:"project,omitempty"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards every event. It is used when Redis is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// RedisPublisher publishes each event on the global channel <prefix> and,
// for project scoped events, on <prefix>:<project>.
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

// GlobalChannel receives every event.
func (p *RedisPublisher) GlobalChannel() string {
	return p.prefix
}

// ProjectChannel receives the events of one project.
func (p *RedisPublisher) ProjectChannel(project string) string {
	return p.prefix + ":" + project
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return Error.New("marshal event: %v", err)
	}

	pipe := p.client.Pipeline()
	pipe.Publish(ctx, p.GlobalChannel(), data)
	if ev.Project != "" {
		pipe.Publish(ctx, p.ProjectChannel(ev.Project), data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return Error.Wrap(err)
	}
	return nil
}
