package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/internal/middleware"
	ws "github.com/scentvault/scentvault-backend/internal/websocket"
)

// FeedController live review feed per fragrance
type FeedController struct {
	hub              *ws.Hub
	fragranceService service.FragranceService
	upgrader         websocket.Upgrader
}

// NewFeedController allowedOrigins 가 비어 있으면 Origin 검사 생략
func NewFeedController(hub *ws.Hub, fragranceService service.FragranceService, allowedOrigins []string) *FeedController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &FeedController{
		hub:              hub,
		fragranceService: fragranceService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin]
			},
		},
	}
}

// Subscribe upgrades to a WebSocket streaming comment.created / comment.deleted events
// GET /api/v1/ws/fragrances/:id
func (ctrl *FeedController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fragranceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.fragranceService.Get(fragranceID); err != nil {
		respondServiceError(c, err, "subscribe fragrance feed")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("Failed to upgrade to WebSocket", map[string]interface{}{
			"fragrance_id": fragranceID,
			"error":        err.Error(),
		})
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, fragranceID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Feed connection established", map[string]interface{}{
		"fragrance_id": fragranceID,
	})
}
