package client

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/hazirlageldim/pickup-app/models"
)

const chatPollInterval = time.Second

// ChatThread is the per-order conversation. It polls every second, replaces
// its snapshot with the fetched list, and fires the scroll signal exactly
// once whenever the list grew.
type ChatThread struct {
	gw         Gateway
	session    *Session
	orderID    string
	senderType string // models.SenderCustomer / models.SenderBusiness

	poller *Poller

	mu       sync.Mutex
	messages []models.Message

	scroll chan struct{}
}

func NewChatThread(gw Gateway, session *Session, orderID, senderType string) *ChatThread {
	t := &ChatThread{
		gw:         gw,
		session:    session,
		orderID:    orderID,
		senderType: senderType,
		scroll:     make(chan struct{}, 1),
	}
	t.poller = NewPoller(chatPollInterval, t.refresh)
	return t
}

func (t *ChatThread) Start(ctx context.Context) { t.poller.Start(ctx) }
func (t *ChatThread) Stop()                     { t.poller.Stop() }

func (t *ChatThread) refresh(ctx context.Context) error {
	var msgs []models.Message
	filters := Filters{"order_id": Eq(t.orderID)}
	opts := ReadOpts{Order: "created_at.asc"}
	if err := t.gw.ReadFiltered(ctx, "messages", filters, opts, &msgs); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	t.mu.Lock()
	grew := len(msgs) > len(t.messages)
	t.messages = msgs
	t.mu.Unlock()

	if grew {
		select {
		case t.scroll <- struct{}{}:
		default:
		}
	}
	return nil
}

// Messages returns a copy of the current snapshot, oldest first.
func (t *ChatThread) Messages() []models.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// ScrollSignal fires when new messages arrived; the UI scrolls to bottom.
func (t *ChatThread) ScrollSignal() <-chan struct{} { return t.scroll }

// Send validates and writes the message, then asks for an immediate
// refresh instead of waiting out the poll interval.
func (t *ChatThread) Send(ctx context.Context, text string) error {
	user, ok := t.session.Current()
	if !ok {
		return ErrNotSignedIn
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > 500 {
		return ErrMessageTooLong
	}

	row := map[string]interface{}{
		"order_id":    t.orderID,
		"sender_id":   user.ID,
		"sender_type": t.senderType,
		"message":     text,
	}
	if err := t.gw.Insert(ctx, "messages", row, nil); err != nil {
		return err
	}

	t.poller.Refresh()
	return nil
}
