package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/hazirlageldim/pickup-app/utils"
)

// ChangeEvent is one row-change notification from the backend's change
// feed.
type ChangeEvent struct {
	Table    string          `json:"table"`
	Action   string          `json:"action"`
	RecordID string          `json:"record_id"`
	Record   json.RawMessage `json:"record,omitempty"`
}

// ChangeFilter narrows a subscription to a table, a set of actions and an
// optional "column=eq.value" row filter.
type ChangeFilter struct {
	Table  string
	Events []string
	Filter string
}

// RealtimeClient subscribes to the backend's websocket change feed. It is
// the push-based alternative to the pollers.
type RealtimeClient struct {
	URL    string // ws:// or wss:// endpoint of /ws/changes
	Token  string
	Dialer *websocket.Dialer
}

func NewRealtimeClient(wsURL, token string) *RealtimeClient {
	return &RealtimeClient{
		URL:    strings.TrimRight(wsURL, "/"),
		Token:  token,
		Dialer: websocket.DefaultDialer,
	}
}

// Subscribe opens the connection and streams matching events until ctx is
// done or the server closes; the channel is closed either way.
func (rc *RealtimeClient) Subscribe(ctx context.Context, f ChangeFilter) (<-chan ChangeEvent, error) {
	q := url.Values{}
	q.Set("token", rc.Token)
	if f.Table != "" {
		q.Set("table", f.Table)
	}
	if len(f.Events) > 0 {
		q.Set("events", strings.Join(f.Events, ","))
	}
	if f.Filter != "" {
		q.Set("filter", f.Filter)
	}

	conn, _, err := rc.Dialer.DialContext(ctx, rc.URL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	events := make(chan ChangeEvent, 16)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					utils.Errorf("realtime client: read: %v", err)
				}
				return
			}
			var ev ChangeEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				utils.Errorf("realtime client: decode event: %v", err)
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
