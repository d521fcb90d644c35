package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/app/repository"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	ws "github.com/scentvault/scentvault-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedController_Subscribe(t *testing.T) {
	env := setupControllerTest(t)
	user := env.createUser(t, "reviewer", model.RoleUser, false)
	fragrance := env.createFragrance(t, "Mojave Ghost", "Byredo", nil)

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	comments := service.NewCommentService(
		repository.NewCommentRepository(env.db), env.fragrances, env.users, env.ratings, hub,
	)

	ctrl := NewFeedController(hub, env.catalog, nil)
	router := newRouter(nil)
	router.GET("/ws/fragrances/:id", ctrl.Subscribe)

	server := httptest.NewServer(router)
	defer server.Close()

	// unknown fragrance is rejected before the upgrade
	w := performJSON(router, http.MethodGet, "/ws/fragrances/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + fmt.Sprintf("/ws/fragrances/%d", fragrance.ID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers(fragrance.ID) == 1 }, time.Second, 10*time.Millisecond)

	rating := 4
	_, err = comments.CreateComment(user.ID, service.CommentInput{FragranceID: fragrance.ID, Content: "Airy", Rating: &rating})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "reviewer@example.com")
	assert.Contains(t, string(payload), `"name":"reviewer"`)

	var event service.ReviewEvent
	require.NoError(t, json.Unmarshal(payload, &event))

	assert.Equal(t, service.EventCommentCreated, event.Type)
	assert.Equal(t, fragrance.ID, event.FragranceID)
	require.NotNil(t, event.RatingAvg)
	assert.Equal(t, 4.0, *event.RatingAvg)
	assert.Equal(t, 1, event.ReviewCount)
}
