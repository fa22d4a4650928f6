package sync

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // API is CORS-open; the push channel matches
	},
}

func WSHandler(hub *Hub, log zerolog.Logger) gin.HandlerFunc {
	wsLog := log.With().Str("module", "ws").Logger()

	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		hub.Add(ws)
		wsLog.Debug().Str("remote", ws.RemoteAddr().String()).Msg("client connected")

		_ = ws.WriteMessage(
			websocket.TextMessage,
			[]byte(`{"type":"welcome","transport":"websocket"}`),
		)

		// Keep the connection open; inbound messages are ignored.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.Remove(ws)
		wsLog.Debug().Str("remote", ws.RemoteAddr().String()).Msg("client disconnected")
	}
}
