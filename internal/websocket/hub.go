package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/scentvault/scentvault-backend/internal/metrics"
	"github.com/scentvault/scentvault-backend/pkg/logger"
)

const (
	// 클라이언트별 송신 버퍼
	sendBufferSize = 64

	broadcastBufferSize = 1024
)

// Client 특정 향수의 리뷰 피드를 구독하는 WebSocket 연결
type Client struct {
	Hub         *Hub
	Conn        *Conn
	FragranceID uint
	Send        chan []byte
}

// NewClient 구독 클라이언트 생성
func NewClient(hub *Hub, conn *Conn, fragranceID uint) *Client {
	return &Client{
		Hub:         hub,
		Conn:        conn,
		FragranceID: fragranceID,
		Send:        make(chan []byte, sendBufferSize),
	}
}

// broadcastMessage 향수 피드로 보낼 메시지
type broadcastMessage struct {
	FragranceID uint
	Payload     []byte
}

// Hub 향수 ID별 리뷰 피드 구독자 관리자
type Hub struct {
	// 향수별 구독자 (FragranceID -> clients)
	rooms map[uint]map[*Client]bool

	register  chan *Client
	broadcast chan *broadcastMessage

	mu sync.RWMutex
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		rooms:     make(map[uint]map[*Client]bool),
		register:  make(chan *Client, 256),
		broadcast: make(chan *broadcastMessage, broadcastBufferSize),
	}
}

// Run ctx가 취소될 때까지 등록/브로드캐스트 처리
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.FragranceID]; !ok {
				h.rooms[client.FragranceID] = make(map[*Client]bool)
			}
			h.rooms[client.FragranceID][client] = true
			subscribers := len(h.rooms[client.FragranceID])
			h.mu.Unlock()

			metrics.FeedConnections.Inc()
			logger.Debug("Feed client registered", map[string]interface{}{
				"fragrance_id": client.FragranceID,
				"subscribers":  subscribers,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.rooms[message.FragranceID] {
				select {
				case client.Send <- message.Payload:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			// 버퍼가 가득 찬 클라이언트는 연결 종료
			for _, client := range slow {
				logger.Warn("Feed client send buffer full, disconnecting", map[string]interface{}{
					"fragrance_id": client.FragranceID,
				})
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[client.FragranceID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.rooms, client.FragranceID)
	}
	close(client.Send)
	metrics.FeedConnections.Dec()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for fragranceID, clients := range h.rooms {
		for client := range clients {
			close(client.Send)
			metrics.FeedConnections.Dec()
		}
		delete(h.rooms, fragranceID)
	}
}

// Publish 향수 피드에 메시지 전송 (요청 처리를 막지 않음)
func (h *Hub) Publish(fragranceID uint, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal feed message", err, map[string]interface{}{
			"fragrance_id": fragranceID,
		})
		return
	}

	select {
	case h.broadcast <- &broadcastMessage{FragranceID: fragranceID, Payload: data}:
	default:
		logger.Warn("Feed broadcast channel full, message dropped", map[string]interface{}{
			"fragrance_id": fragranceID,
		})
	}
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트 등록 해제 (여러 번 호출해도 안전)
func (h *Hub) Unregister(client *Client) {
	h.remove(client)
}

// Subscribers 향수 피드 구독자 수
func (h *Hub) Subscribers(fragranceID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[fragranceID])
}
