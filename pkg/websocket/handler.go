package websocket

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"case-exchange/config"
	"case-exchange/pkg/jwt"
	"case-exchange/pkg/logger"
	"case-exchange/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许跨域
	},
}

// NewHandler 返回 WebSocket 接入的 Gin 处理函数
func NewHandler(m *Manager, jwtSvc *jwt.JWTService, wsCfg config.WebSocketConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Sec-WebSocket-Protocol"), "Bearer ")
		}
		if token == "" {
			response.Unauthorized(c, "缺少token")
			return
		}

		claims, err := jwtSvc.ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, "token无效或已过期")
			return
		}
		userID, _ := strconv.ParseUint(claims.Subject, 10, 32)
		if userID == 0 {
			response.Unauthorized(c, "token无效")
			return
		}

		// 回显子协议，避免客户端提示 "Server sent no subprotocol"
		respHeader := http.Header{}
		if protocol := c.GetHeader("Sec-WebSocket-Protocol"); protocol != "" {
			respHeader.Set("Sec-WebSocket-Protocol", protocol)
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, respHeader)
		if err != nil {
			logger.Warn("WebSocket升级失败", zap.Error(err))
			return
		}
		defer conn.Close()

		client := &Client{
			UserID: uint(userID),
			Conn:   conn,
			Send:   make(chan []byte, 64),
		}
		m.AddClient(client)
		defer m.RemoveClient(client)
		logger.Info("WebSocket连接建立", zap.Uint64("user_id", userID))

		// 启动写协程 + 定时发送ping心跳
		done := make(chan struct{})
		go writeLoop(conn, client, wsCfg.PingInterval, done)

		// 读协程（接收心跳）。若超时未收到任何读事件则断开
		_ = conn.SetReadDeadline(time.Now().Add(wsCfg.ReadTimeout))
		conn.SetPongHandler(func(appData string) error {
			return conn.SetReadDeadline(time.Now().Add(wsCfg.ReadTimeout))
		})
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				break
			}
			_ = conn.SetReadDeadline(time.Now().Add(wsCfg.ReadTimeout))
			var msg map[string]interface{}
			if err := json.Unmarshal(payload, &msg); err != nil {
				continue
			}
			if t, _ := msg["type"].(string); t == "heartbeat" {
				if b, e := json.Marshal(map[string]interface{}{"type": "pong"}); e == nil {
					m.SendToUser(client.UserID, b)
				}
			}
		}
		close(done)
		logger.Info("WebSocket连接关闭", zap.Uint64("user_id", userID))
	}
}

func writeLoop(conn *websocket.Conn, client *Client, pingInterval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case msg, ok := <-client.Send:
			if !ok {
				// 被新连接替换，关闭连接让读循环退出
				_ = conn.Close()
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
