package events

import (
	"context"
	"sync"

	"notes-backend/internal/model"
)

const defaultBufferSize = 16

// Publisher рассылает события об изменении заметок
type Publisher interface {
	Publish(ctx context.Context, event model.NoteEvent)
}

// Subscriber выдает каналы для получения событий
type Subscriber interface {
	Subscribe() chan model.NoteEvent
	Unsubscribe(ch chan model.NoteEvent)
}

// Bus объединяет публикацию и подписку
type Bus interface {
	Publisher
	Subscriber
}

var _ Bus = (*Broker)(nil)

// Broker управляет подписчиками на события заметок внутри процесса
type Broker struct {
	subscribers map[chan model.NoteEvent]struct{}
	mu          sync.RWMutex
	bufferSize  int
	closed      bool
}

// NewBroker создает новый экземпляр Broker. bufferSize <= 0 означает размер по умолчанию.
func NewBroker(bufferSize int) *Broker {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Broker{
		subscribers: make(map[chan model.NoteEvent]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe добавляет нового подписчика и возвращает канал для получения событий.
// После Close возвращает уже закрытый канал.
func (b *Broker) Subscribe() chan model.NoteEvent {
	ch := make(chan model.NoteEvent, b.bufferSize)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe удаляет подписчика и закрывает его канал
func (b *Broker) Unsubscribe(ch chan model.NoteEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[ch]; ok {
		close(ch)
		delete(b.subscribers, ch)
	}
}

// Publish отправляет событие всем подписчикам.
// Если канал подписчика переполнен, событие для него пропускается.
func (b *Broker) Publish(_ context.Context, event model.NoteEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribers возвращает текущее количество подписчиков
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close закрывает каналы всех подписчиков, чтобы стримы завершились
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, ch)
	}
	b.closed = true
}
