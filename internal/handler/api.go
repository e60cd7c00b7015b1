package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard/internal/readmodel"
	"dashboard/internal/scanner_client"
	"dashboard/internal/shell"
)

type badgeResponse struct {
	Count int    `json:"count"`
	Label string `json:"label"`
}

type notificationsResponse struct {
	Status string `json:"status"`
	Items  any    `json:"items"`
	Error  string `json:"error,omitempty"`
}

func (h *Handler) apiShell(c *gin.Context) (*shell.Shell, bool) {
	switch c.Param("role") {
	case "admin":
		return current(c).AdminShell, true
	case "user":
		return current(c).UserShell, true
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Unknown shell"})
	return nil, false
}

// ShellState handles GET /api/shell/:role
func (h *Handler) ShellState(c *gin.Context) {
	sh, ok := h.apiShell(c)
	if !ok {
		return
	}
	_ = sh.MountOnce(c.Request.Context())
	snap := sh.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"profile": gin.H{
			"name":       snap.Profile.Name,
			"role":       snap.Profile.Role,
			"initial":    snap.Profile.Initial(),
			"privileges": snap.Profile.Privileges(),
		},
		"badge":   badgeResponse{Count: snap.Unread, Label: snap.BadgeLabel},
		"popover": string(snap.Open),
		"sidebar": snap.Sidebar,
	})
}

// BadgeState handles GET /api/shell/:role/badge
func (h *Handler) BadgeState(c *gin.Context) {
	sh, ok := h.apiShell(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, badgeResponse{Count: sh.Badge.Count(), Label: sh.Badge.Label()})
}

// NotificationsState handles GET /api/shell/:role/notifications
func (h *Handler) NotificationsState(c *gin.Context) {
	sh, ok := h.apiShell(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, panelResponse(sh))
}

// APIMarkRead handles POST /api/shell/:role/notifications/:id/read
func (h *Handler) APIMarkRead(c *gin.Context) {
	sh, ok := h.apiShell(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}
	if err := sh.Panel.MarkRead(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": scanner_client.Detail(err, "Failed to mark notification as read")})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"badge":         badgeResponse{Count: sh.Badge.Count(), Label: sh.Badge.Label()},
		"notifications": panelResponse(sh),
	})
}

// APIMarkAllRead handles POST /api/shell/:role/notifications/read-all
func (h *Handler) APIMarkAllRead(c *gin.Context) {
	sh, ok := h.apiShell(c)
	if !ok {
		return
	}
	if err := sh.Panel.MarkAllRead(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": scanner_client.Detail(err, "Failed to mark all as read")})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"badge":         badgeResponse{Count: sh.Badge.Count(), Label: sh.Badge.Label()},
		"notifications": panelResponse(sh),
	})
}

// APITogglePopover handles POST /api/shell/:role/popover/:name
func (h *Handler) APITogglePopover(c *gin.Context) {
	sh, ok := h.apiShell(c)
	if !ok {
		return
	}
	which, ok := shell.ParsePopover(c.Param("name"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown popover"})
		return
	}
	open := sh.TogglePopover(c.Request.Context(), which)
	c.JSON(http.StatusOK, gin.H{"popover": string(sh.Popovers.Open()), "open": open})
}

// APIPointerDown handles POST /api/shell/:role/pointer
func (h *Handler) APIPointerDown(c *gin.Context) {
	sh, ok := h.apiShell(c)
	if !ok {
		return
	}
	var req struct {
		Region string `json:"region" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "region is required"})
		return
	}
	closed := sh.PointerDown(req.Region)
	c.JSON(http.StatusOK, gin.H{"popover": string(sh.Popovers.Open()), "closed": closed})
}

func panelResponse(sh *shell.Shell) notificationsResponse {
	snap := sh.Panel.Snapshot()
	resp := notificationsResponse{Status: snap.Items.Status.String(), Items: snap.Items.Value, Error: snap.Items.Err}
	if snap.ActionError != "" {
		resp.Error = snap.ActionError
	}
	return resp
}

var eventResources = []readmodel.Resource{
	readmodel.Datasets,
	readmodel.Models,
	readmodel.ScanHistory,
	readmodel.Notifications,
	readmodel.UnreadCount,
}

// Events handles GET /api/events: a server-sent stream of every read model
// update of the session, starting with the currently held values.
func (h *Handler) Events(c *gin.Context) {
	store := current(c).Store

	updates := make(chan readmodel.Update, len(eventResources))
	cancels := make([]func(), 0, len(eventResources))
	for _, r := range eventResources {
		ch, cancel := store.Subscribe(r)
		cancels = append(cancels, cancel)
		go forward(ch, updates, c.Request.Context().Done())
		if u, ok := store.Get(r); ok {
			c.SSEvent(string(r), u)
		}
	}
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case u := <-updates:
			c.SSEvent(string(u.Resource), u)
			return true
		}
	})
}

func forward(in <-chan readmodel.Update, out chan<- readmodel.Update, done <-chan struct{}) {
	for u := range in {
		select {
		case out <- u:
		case <-done:
			return
		}
	}
}
