package handler

import (
	"Shutter/internal/pkg/response"
	"Shutter/internal/service"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ProgressHandler struct {
	shareSvc service.ShareService
}

func NewProgressHandler(shareSvc service.ShareService) *ProgressHandler {
	return &ProgressHandler{shareSvc: shareSvc}
}

// Connect 推送草稿状态快照，草稿结束后主动关闭连接
func (s *ProgressHandler) Connect(c *gin.Context) {
	ctx := c.Request.Context()
	draftID := c.Param("draft_id")

	updates, cancel, err := s.shareSvc.Subscribe(ctx, draftID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.ErrorContext(ctx, "WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	log.InfoContext(ctx, "进度 WS 连接已建立", "draft_id", draftID)

	stopChan := make(chan struct{})

	// 读循环：监听客户端主动断开
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				close(stopChan)
				return
			}
		}
	}()

	// 写循环：推送状态快照
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err = conn.WriteJSON(toDraftDTO(&snap)); err != nil {
				log.WarnContext(ctx, "WS 推送失败", "draft_id", draftID, "err", err)
				return
			}
			if snap.State.IsTerminal() {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(snap.State)),
					time.Now().Add(wsWriteTimeout))
				return
			}
		case <-stopChan:
			log.InfoContext(ctx, "进度 WS 连接已断开", "draft_id", draftID)
			return
		}
	}
}
