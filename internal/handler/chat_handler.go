package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"payfesa/config"
	"payfesa/internal/auth"
	"payfesa/internal/middleware"
	"payfesa/internal/models"
	"payfesa/internal/repository"
	"payfesa/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const maxChatMessageLen = 2000

type ChatHandler struct {
	cfg       *config.Config
	hub       *ws.ChatHub
	chatRepo  *repository.ChatRepository
	groupRepo *repository.GroupRepository
	userRepo  *repository.UserRepository
}

func NewChatHandler(cfg *config.Config, hub *ws.ChatHub, chatRepo *repository.ChatRepository, groupRepo *repository.GroupRepository, userRepo *repository.UserRepository) *ChatHandler {
	return &ChatHandler{cfg: cfg, hub: hub, chatRepo: chatRepo, groupRepo: groupRepo, userRepo: userRepo}
}

// ListMessages returns a group's chat history, newest first. Members only.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID := middleware.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	if _, err := h.groupRepo.GetMember(uint(groupID), userID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "members only"})
		return
	}
	limit, offset := pagination(c)
	list, err := h.chatRepo.ListByGroup(uint(groupID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

type inboundChatMessage struct {
	Body string `json:"body"`
}

type outboundChatMessage struct {
	ID        uint      `json:"id"`
	GroupID   uint      `json:"group_id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Connect upgrades to a WebSocket for a group's chat room. Browsers cannot set
// headers on the upgrade request, so the token rides in the query string.
func (h *ChatHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}
	claims, err := auth.ParseAccessToken(&h.cfg.JWT, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	if _, err := h.groupRepo.GetMember(uint(groupID), claims.UserID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "members only"})
		return
	}
	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	conn, err := ws.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[Chat] upgrade failed for user %d: %v", claims.UserID, err)
		return
	}

	client := &ws.Client{UserID: user.ID, Role: user.Role, Send: make(chan []byte, 64)}
	room := h.hub.GetOrCreateRoom(uint(groupID))
	room.Join(client)
	go ws.WritePump(client, conn)

	defer func() {
		client.Close()
		conn.Close()
	}()
	for {
		var in inboundChatMessage
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Chat] user %d read error: %v", user.ID, err)
			}
			return
		}
		body := strings.TrimSpace(in.Body)
		if body == "" || len(body) > maxChatMessageLen {
			continue
		}
		msg := &models.ChatMessage{
			GroupID: uint(groupID),
			UserID:  user.ID,
			Body:    body,
		}
		if err := h.chatRepo.Create(msg); err != nil {
			log.Printf("[Chat] persist failed for user %d: %v", user.ID, err)
			continue
		}
		if err := h.userRepo.IncrementMessagesSent(user.ID); err != nil {
			log.Printf("[Chat] message counter failed for user %d: %v", user.ID, err)
		}
		room.Broadcast(client, outboundChatMessage{
			ID:        msg.ID,
			GroupID:   msg.GroupID,
			UserID:    msg.UserID,
			Username:  user.Username,
			Body:      msg.Body,
			CreatedAt: msg.CreatedAt,
		})
	}
}
