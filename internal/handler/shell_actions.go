package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashboard/internal/shell"
)

// TogglePopover handles POST /shell/popover/:name
func (h *Handler) TogglePopover(c *gin.Context) {
	s := current(c)
	which, ok := shell.ParsePopover(c.Param("name"))
	if !ok {
		h.render(c, s, currentPage(c), http.StatusBadRequest)
		return
	}
	shellFor(c, s).TogglePopover(c.Request.Context(), which)
	h.renderCurrent(c, s)
}

// PointerDown handles POST /shell/pointer
func (h *Handler) PointerDown(c *gin.Context) {
	s := current(c)
	shellFor(c, s).PointerDown(c.PostForm("region"))
	h.renderCurrent(c, s)
}

// ToggleSetting handles POST /shell/settings/:name
func (h *Handler) ToggleSetting(c *gin.Context) {
	s := current(c)
	shellFor(c, s).ToggleSetting(c.Param("name"))
	h.renderCurrent(c, s)
}

// MarkRead handles POST /shell/notifications/:id/read
func (h *Handler) MarkRead(c *gin.Context) {
	s := current(c)
	id, ok := parseID(c, "id")
	if !ok {
		h.render(c, s, currentPage(c), http.StatusBadRequest)
		return
	}
	if err := shellFor(c, s).Panel.MarkRead(c.Request.Context(), id); err != nil {
		h.logger.Warn("Mark notification read failed", zap.Int64("notification_id", id), zap.Error(err))
	}
	h.renderCurrent(c, s)
}

// MarkAllRead handles POST /shell/notifications/read-all
func (h *Handler) MarkAllRead(c *gin.Context) {
	s := current(c)
	if err := shellFor(c, s).Panel.MarkAllRead(c.Request.Context()); err != nil {
		h.logger.Warn("Mark all notifications read failed", zap.Error(err))
	}
	h.renderCurrent(c, s)
}
