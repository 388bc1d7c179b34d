package feed

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"bidtrack/models"
)

// Каналы NOTIFY, заполняемые триггерами из миграций
var channels = map[models.EntityKind]string{
	models.KindBid:        "bids_changes",
	models.KindVendor:     "vendors_changes",
	models.KindAssignment: "vendor_assignments_changes",
	models.KindNote:       "notes_changes",
}

// PGTransport доставляет события через Postgres LISTEN/NOTIFY.
// Один pq.Listener на процесс, события одного канала раздаются
// обработчикам в порядке получения.
type PGTransport struct {
	pl  *pq.Listener
	log *zap.Logger

	mu       sync.Mutex
	handlers map[string]map[string]func([]byte) // канал -> id подписки -> обработчик

	done chan struct{}
	wg   sync.WaitGroup
}

// NewPGTransport подключает слушатель к той же базе, что и хранилище
func NewPGTransport(connString string, log *zap.Logger) *PGTransport {
	t := &PGTransport{
		log:      log,
		handlers: map[string]map[string]func([]byte){},
		done:     make(chan struct{}),
	}
	t.pl = pq.NewListener(connString, 2*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn("pq listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	t.wg.Add(1)
	go t.loop()
	return t
}

func (t *PGTransport) loop() {
	defer t.wg.Done()
	for {
		select {
		case n := <-t.pl.Notify:
			// nil приходит после переподключения
			if n == nil {
				continue
			}
			t.dispatch(n.Channel, []byte(n.Extra))
		case <-t.done:
			return
		}
	}
}

func (t *PGTransport) dispatch(channel string, payload []byte) {
	t.mu.Lock()
	hs := make([]func([]byte), 0, len(t.handlers[channel]))
	for _, h := range t.handlers[channel] {
		hs = append(hs, h)
	}
	t.mu.Unlock()
	for _, h := range hs {
		h(payload)
	}
}

// Subscribe начинает слушать канал вида сущности. LISTEN выполняется
// только для первой подписки на канал.
func (t *PGTransport) Subscribe(kind models.EntityKind, h func(payload []byte)) (Subscription, error) {
	channel, ok := channels[kind]
	if !ok {
		return nil, fmt.Errorf("no feed channel for kind %q", kind)
	}

	id := uuid.NewString()
	t.mu.Lock()
	first := len(t.handlers[channel]) == 0
	if t.handlers[channel] == nil {
		t.handlers[channel] = map[string]func([]byte){}
	}
	t.handlers[channel][id] = h
	t.mu.Unlock()

	if first {
		if err := t.pl.Listen(channel); err != nil {
			t.mu.Lock()
			delete(t.handlers[channel], id)
			t.mu.Unlock()
			return nil, fmt.Errorf("listen %s: %w", channel, err)
		}
	}
	return &pgSubscription{t: t, channel: channel, id: id}, nil
}

// Close останавливает раздачу и закрывает соединение слушателя
func (t *PGTransport) Close() error {
	close(t.done)
	t.wg.Wait()
	return t.pl.Close()
}

type pgSubscription struct {
	t       *PGTransport
	channel string
	id      string
}

func (s *pgSubscription) Unsubscribe() error {
	s.t.mu.Lock()
	delete(s.t.handlers[s.channel], s.id)
	last := len(s.t.handlers[s.channel]) == 0
	s.t.mu.Unlock()
	if last {
		if err := s.t.pl.Unlisten(s.channel); err != nil {
			return fmt.Errorf("unlisten %s: %w", s.channel, err)
		}
	}
	return nil
}
