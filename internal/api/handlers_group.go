package api

import "Shutter/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	DraftHandler    *handler.DraftHandler
	ProgressHandler *handler.ProgressHandler
	EventBoxHandler *handler.EventBoxHandler
	PostHandler     *handler.PostHandler
}
