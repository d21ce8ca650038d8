package realtime

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hazirlageldim/pickup-app/utils"
)

// Event is one change notification on the wire. Record carries the full row
// as JSON for INSERT/UPDATE; DELETE events carry only the id.
type Event struct {
	Table    string          `json:"table"`
	Action   string          `json:"action"`
	RecordID string          `json:"record_id"`
	Record   json.RawMessage `json:"record,omitempty"`
}

// Subscription narrows which events a connection receives, mirroring the
// channel filters the mobile client asks for: a table, a set of actions and
// an optional "column=eq.value" filter matched against the record payload.
type Subscription struct {
	Table  string
	Events []string
	Filter string
}

func (s Subscription) wants(ev Event, record map[string]interface{}) bool {
	if s.Table != "" && s.Table != ev.Table {
		return false
	}
	if len(s.Events) > 0 {
		found := false
		for _, e := range s.Events {
			if strings.EqualFold(e, ev.Action) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if s.Filter != "" {
		column, want, ok := ParseFilter(s.Filter)
		if !ok {
			return false
		}
		got, present := record[column]
		if !present || fmt.Sprint(got) != want {
			return false
		}
	}
	return true
}

// ParseFilter splits "customer_id=eq.abc" into ("customer_id", "abc").
func ParseFilter(filter string) (column, value string, ok bool) {
	parts := strings.SplitN(filter, "=eq.", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

type changeHub struct {
	clients map[*websocket.Conn]Subscription
	mutex   sync.Mutex
}

var hub = changeHub{
	clients: make(map[*websocket.Conn]Subscription),
}

// RegisterClient menambahkan connection ke set dengan subscription-nya.
func RegisterClient(conn *websocket.Conn, sub Subscription) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = sub
}

// UnregisterClient melepaskan connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// ClientCount is used by tests and the monitor's debug logging.
func ClientCount() int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return len(hub.clients)
}

// Broadcast delivers ev to every connection whose subscription matches.
func Broadcast(ev Event) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(ev)
	if err != nil {
		utils.Errorf("realtime: marshal event: %v", err)
		return
	}

	var record map[string]interface{}
	if len(ev.Record) > 0 {
		if err := json.Unmarshal(ev.Record, &record); err != nil {
			utils.Errorf("realtime: decode record for filtering: %v", err)
		}
	}

	for conn, sub := range hub.clients {
		if !sub.wants(ev, record) {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.Errorf("realtime: send to client: %v", err)
		}
	}
}
