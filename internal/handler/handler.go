package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashboard/internal/config"
	"dashboard/internal/middleware"
	"dashboard/internal/models"
	"dashboard/internal/session"
	"dashboard/internal/shell"
	"dashboard/internal/view"
)

// Page names carried in the "page" form field of shell actions.
const (
	pageHome     = "home"
	pageAdmin    = "admin"
	pageUser     = "user"
	pageHistory  = "history"
	pageSettings = "settings"
	pageScan     = "scan"
	pageDataset  = "dataset"
)

// Handler serves the dashboard pages, the shell actions and their JSON mirrors.
type Handler struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewHandler(cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		logger: logger.Named("handler"),
	}
}

// RegisterRoutes registers every dashboard route on r. Every route expects
// the session middleware.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Home)

	admin := r.Group("/admin")
	{
		admin.GET("", h.AdminDashboard)
		admin.POST("/datasets", h.UploadDataset)
		admin.POST("/datasets/form", h.ToggleUploadForm)
		admin.POST("/datasets/:id/delete", h.DeleteDataset)
		admin.GET("/datasets/:id", h.DatasetDetail)
		admin.POST("/models/train", h.TrainModel)
		admin.POST("/models/:id/delete", h.DeleteModel)
		admin.GET("/scans/:id", h.ScanDetail)
		admin.GET("/history", h.History)
		admin.GET("/settings", h.Settings)
	}

	user := r.Group("/user")
	{
		user.GET("", h.UserDashboard)
		user.POST("/scan", h.Scan)
	}

	sh := r.Group("/shell")
	{
		sh.POST("/popover/:name", h.TogglePopover)
		sh.POST("/pointer", h.PointerDown)
		sh.POST("/settings/:name", h.ToggleSetting)
		sh.POST("/notifications/read-all", h.MarkAllRead)
		sh.POST("/notifications/:id/read", h.MarkRead)
	}

	api := r.Group("/api/shell/:role")
	{
		api.GET("", h.ShellState)
		api.GET("/badge", h.BadgeState)
		api.GET("/notifications", h.NotificationsState)
		api.POST("/notifications/read-all", h.APIMarkAllRead)
		api.POST("/notifications/:id/read", h.APIMarkRead)
		api.POST("/popover/:name", h.APITogglePopover)
		api.POST("/pointer", h.APIPointerDown)
	}
	r.GET("/api/events", h.Events)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"scanner_url": h.cfg.Scanner.BaseURL,
	})
}

// pageData is what every page template receives.
type pageData struct {
	Title    string
	Page     string
	Admin    bool
	Shell    shell.Snapshot
	Path     string
	Settings *config.Config

	Dashboard *view.AdminSnapshot
	User      *view.UserSnapshot
	History   *view.HistorySnapshot
	Scan      *scanPage
	Dataset   *view.DatasetDetailSnapshot
}

type scanPage struct {
	ID      int64
	Entry   view.State[*models.ScanHistoryEntry]
	Results models.ScanResults
	Pretty  string
}

func newScanPage(d *view.ScanDetail) *scanPage {
	p := &scanPage{ID: d.ID(), Entry: d.Snapshot()}
	if e := p.Entry.Value; e != nil {
		p.Results = e.ScanResults()
		p.Pretty = e.PrettyResults()
	}
	return p
}

// render draws page from the session state without fetching.
func (h *Handler) render(c *gin.Context, s *session.Session, page string, status int) {
	admin := page != pageUser
	data := pageData{
		Page:  page,
		Admin: admin,
		Shell: s.Shell(admin).Snapshot(),
		Path:  c.Request.URL.Path,
	}

	tmpl := page + ".html"
	switch page {
	case pageHome:
		data.Title = "Security Scan Application"
	case pageUser:
		data.Title = "User Dashboard"
		snap := s.User.Snapshot()
		data.User = &snap
	case pageHistory:
		data.Title = "Full Scan History"
		snap := s.History.Snapshot()
		data.History = &snap
	case pageSettings:
		data.Title = "Admin Settings"
		data.Settings = h.cfg
	case pageScan:
		data.Title = "Scan Details"
		data.Scan = newScanPage(s.Scan)
	case pageDataset:
		data.Title = "Dataset Details"
		snap := s.Dataset.Snapshot()
		data.Dataset = &snap
	default:
		data.Page = pageAdmin
		data.Title = "Admin Dashboard"
		snap := s.Admin.Snapshot()
		data.Dashboard = &snap
		tmpl = pageAdmin + ".html"
	}
	c.HTML(status, tmpl, data)
}

// renderCurrent re-renders the page named by the "page" form field.
func (h *Handler) renderCurrent(c *gin.Context, s *session.Session) {
	h.render(c, s, currentPage(c), http.StatusOK)
}

func currentPage(c *gin.Context) string {
	switch page := c.PostForm("page"); page {
	case pageHome, pageAdmin, pageUser, pageHistory, pageSettings, pageScan, pageDataset:
		return page
	}
	return pageAdmin
}

// shellFor picks the shell of the page a shell action came from.
func shellFor(c *gin.Context, s *session.Session) *shell.Shell {
	return s.Shell(currentPage(c) != pageUser)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func current(c *gin.Context) *session.Session {
	return middleware.CurrentSession(c)
}
