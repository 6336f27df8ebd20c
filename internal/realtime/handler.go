package realtime

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cookie auth already gates the upgrade; cross-origin pages cannot
		// read the response, and the session cookie is SameSite=Strict.
		return true
	},
}

// WSHandler upgrades GET /ws to a websocket connection for the authenticated
// user. The auth middleware must run first; the user id is read from context.
func WSHandler(hub *Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, _ := c.Get("user_id").(string)
		if userID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "websocket upgrade failed")
		}

		client := &Client{
			hub:    hub,
			id:     uuid.NewString(),
			userID: userID,
			conn:   conn,
			send:   make(chan []byte, sendBuffer),
		}
		hub.add(client)

		go client.writePump()
		go client.readPump()

		return nil
	}
}
