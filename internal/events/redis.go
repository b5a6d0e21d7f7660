package events

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"notes-backend/internal/model"
)

const reconnectDelay = time.Second

var _ Bus = (*RedisBroker)(nil)

// wireEvent формат события в канале Redis
type wireEvent struct {
	Type       string    `json:"type"`
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	OccurredAt time.Time `json:"occurredAt"`
}

func toWire(ev model.NoteEvent) wireEvent {
	return wireEvent{
		Type:       string(ev.Type),
		ID:         ev.Note.ID,
		Title:      ev.Note.Title,
		Content:    ev.Note.Content,
		CreatedAt:  ev.Note.CreatedAt,
		UpdatedAt:  ev.Note.UpdatedAt,
		OccurredAt: ev.OccurredAt,
	}
}

func (w wireEvent) toModel() model.NoteEvent {
	return model.NoteEvent{
		Type: model.EventType(w.Type),
		Note: model.Note{
			ID:        w.ID,
			Title:     w.Title,
			Content:   w.Content,
			CreatedAt: w.CreatedAt,
			UpdatedAt: w.UpdatedAt,
		},
		OccurredAt: w.OccurredAt,
	}
}

// RedisBroker публикует события в канал Redis и ретранслирует полученные
// из него события локальным подписчикам, так что все инстансы видят общий поток.
type RedisBroker struct {
	client  *redis.Client
	channel string
	local   *Broker
	logger  *log.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

// NewRedisBroker создает брокер поверх Redis pub/sub
func NewRedisBroker(client *redis.Client, channel string, local *Broker, logger *log.Logger) *RedisBroker {
	return &RedisBroker{
		client:  client,
		channel: channel,
		local:   local,
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Publish сериализует событие и отправляет его в Redis.
// Ошибки только логируются: изменение в хранилище уже произошло.
func (b *RedisBroker) Publish(ctx context.Context, event model.NoteEvent) {
	payload, err := sonic.Marshal(toWire(event))
	if err != nil {
		b.logger.WithError(err).Error("marshal note event")
		return
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.logger.WithError(err).WithField("channel", b.channel).Error("publish note event")
	}
}

// Subscribe подписывает на события, пришедшие из Redis
func (b *RedisBroker) Subscribe() chan model.NoteEvent {
	return b.local.Subscribe()
}

// Unsubscribe отписывает канал
func (b *RedisBroker) Unsubscribe(ch chan model.NoteEvent) {
	b.local.Unsubscribe(ch)
}

// Ready закрывается после первой успешной подписки на канал
func (b *RedisBroker) Ready() <-chan struct{} {
	return b.ready
}

// Run слушает канал Redis и передает события локальному брокеру до отмены ctx.
// При закрытии pub/sub канала переподключается.
func (b *RedisBroker) Run(ctx context.Context) {
	for {
		b.relay(ctx)
		if ctx.Err() != nil {
			return
		}
		b.logger.WithField("channel", b.channel).Warn("redis pubsub closed, reconnecting")
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (b *RedisBroker) relay(ctx context.Context) {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() == nil {
			b.logger.WithError(err).Error("redis subscribe")
		}
		return
	}
	b.readyOnce.Do(func() { close(b.ready) })

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var w wireEvent
			if err := sonic.UnmarshalString(msg.Payload, &w); err != nil {
				b.logger.WithError(err).Warn("unable to parse note event")
				continue
			}
			b.local.Publish(ctx, w.toModel())
		}
	}
}
