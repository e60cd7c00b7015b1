// Package session keeps one dashboard per browser. Each session owns its
// read model, shells and page controllers; nothing is shared across sessions.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"dashboard/internal/readmodel"
	"dashboard/internal/shell"
	"dashboard/internal/view"
)

// CookieName holds the session id.
const CookieName = "scan_dashboard_session"

// Gateway is the full scanner surface a session drives.
type Gateway interface {
	view.AdminGateway
	view.UserGateway
	view.HistoryGateway
	view.ScanDetailGateway
	view.DatasetDetailGateway
	shell.Gateway
}

// Settings are the per-deployment values every session starts from.
type Settings struct {
	UserID    int64
	AdminName string
	UserName  string
}

// Session is one browser's dashboard state.
type Session struct {
	ID        string
	CreatedAt time.Time

	Store      *readmodel.Store
	AdminShell *shell.Shell
	UserShell  *shell.Shell
	Admin      *view.AdminDashboard
	User       *view.UserDashboard
	History    *view.HistoryPage
	Scan       *view.ScanDetail
	Dataset    *view.DatasetDetail
}

func newSession(id string, gw Gateway, settings Settings, logger *zap.Logger) *Session {
	logger = logger.With(zap.String("session", id))
	store := readmodel.NewStore()
	s := &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		Store:      store,
		AdminShell: shell.New(gw, store, shell.NewProfile(settings.AdminName, true), true, logger),
		UserShell:  shell.New(gw, store, shell.NewProfile(settings.UserName, false), false, logger),
		Admin:      view.NewAdminDashboard(gw, store, logger),
		User:       view.NewUserDashboard(gw, store, settings.UserID, logger),
		History:    view.NewHistoryPage(gw, logger),
		Scan:       view.NewScanDetail(gw, logger),
		Dataset:    view.NewDatasetDetail(gw, logger),
	}
	s.User.AfterScan(func(ctx context.Context) {
		s.AdminShell.ScanRecorded(ctx)
		s.UserShell.Badge.Refresh(ctx)
	})
	return s
}

// Shell picks the admin or the user shell.
func (s *Session) Shell(admin bool) *shell.Shell {
	if admin {
		return s.AdminShell
	}
	return s.UserShell
}

// Manager creates and expires sessions. Every lookup extends the TTL.
type Manager struct {
	gw       Gateway
	settings Settings
	ttl      time.Duration
	sessions *cache.Cache
	logger   *zap.Logger
}

func NewManager(gw Gateway, settings Settings, ttl time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{
		gw:       gw,
		settings: settings,
		ttl:      ttl,
		sessions: cache.New(ttl, ttl),
		logger:   logger.Named("session"),
	}
}

// Get returns the live session with id.
func (m *Manager) Get(id string) (*Session, bool) {
	cached, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	s := cached.(*Session)
	m.sessions.Set(id, s, cache.DefaultExpiration)
	return s, true
}

// GetOrCreate returns the session for id, or a new one when id is unknown,
// expired or malformed. created reports the latter.
func (m *Manager) GetOrCreate(id string) (s *Session, created bool) {
	if _, err := uuid.Parse(id); err == nil {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

// Create starts a new session.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	s := newSession(id, m.gw, m.settings, m.logger)
	m.sessions.Set(id, s, cache.DefaultExpiration)
	m.logger.Debug("Session created", zap.String("session", id))
	return s
}

// TTL is the idle lifetime of a session.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	return m.sessions.ItemCount()
}
