package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/hazirlageldim/pickup-app/realtime"
	"github.com/hazirlageldim/pickup-app/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleChangesWS upgrades GET /ws/changes and registers the connection on
// the change hub. Subscription dibaca dari query:
//
//	?table=orders&events=INSERT,UPDATE&filter=customer_id=eq.<uuid>
func HandleChangesWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Errorf("ws upgrade failed: %v", err)
		return
	}

	sub := realtime.Subscription{
		Table:  c.Query("table"),
		Filter: c.Query("filter"),
	}
	if events := c.Query("events"); events != "" {
		sub.Events = strings.Split(events, ",")
	}

	realtime.RegisterClient(conn, sub)
	utils.Infof("Realtime client connected (table=%s, total=%d)", sub.Table, realtime.ClientCount())

	// Reader loop: klien kami tidak mengirim apa-apa, loop ini hanya
	// mendeteksi close.
	go func() {
		defer func() {
			realtime.UnregisterClient(conn)
			utils.Infof("Realtime client disconnected (total=%d)", realtime.ClientCount())
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
