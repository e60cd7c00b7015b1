package shell

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dashboard/internal/readmodel"
)

// Gateway is everything the shell widgets read from the backend.
type Gateway interface {
	CountGateway
	NotificationGateway
	HistoryGateway
}

// Profile settings toggled from the profile popover.
const (
	SettingAdminPrivileges = "admin_privileges"
	SettingNotifications   = "notifications"
)

// Snapshot is the rendered shell.
type Snapshot struct {
	Profile    Profile
	BadgeLabel string
	Unread     int
	Open       Popover
	Panel      PanelSnapshot
	Sidebar    *SidebarSnapshot
}

// Shell composes the navbar widgets and, for admin pages, the sidebar.
type Shell struct {
	logger *zap.Logger

	Badge    *Badge
	Panel    *NotificationPanel
	Sidebar  *Sidebar
	Popovers *Popovers

	mu      sync.Mutex
	profile Profile
	mounted bool
}

// New builds a shell. The sidebar exists only when withSidebar is set.
func New(gw Gateway, store *readmodel.Store, profile Profile, withSidebar bool, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("shell")
	badge := NewBadge(gw, store, logger)
	s := &Shell{
		logger:   logger,
		Badge:    badge,
		Panel:    NewNotificationPanel(gw, badge, store, logger),
		Popovers: NewPopovers(nil),
		profile:  profile,
	}
	if withSidebar {
		s.Sidebar = NewSidebar(gw, store, logger)
	}
	return s
}

// Mount fetches the unread count and the sidebar history concurrently.
func (s *Shell) Mount(ctx context.Context) error {
	s.mu.Lock()
	s.mounted = true
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Badge.Refresh(gctx)
		return nil
	})
	if s.Sidebar != nil {
		g.Go(func() error {
			s.Sidebar.Refresh(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// MountOnce mounts the shell unless it was mounted before. The JSON state
// endpoint uses it to serve held values without a re-fetch.
func (s *Shell) MountOnce(ctx context.Context) error {
	s.mu.Lock()
	mounted := s.mounted
	s.mu.Unlock()
	if mounted {
		return nil
	}
	return s.Mount(ctx)
}

// TogglePopover opens or closes which. Opening the notifications panel
// re-fetches the unread count and the newest notifications.
func (s *Shell) TogglePopover(ctx context.Context, which Popover) bool {
	opened := s.Popovers.Toggle(which)
	if opened && which == NotificationsPopover {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			s.Badge.Refresh(gctx)
			return nil
		})
		g.Go(func() error {
			s.Panel.Load(gctx)
			return nil
		})
		_ = g.Wait()
	}
	s.logger.Debug("Popover toggled", zap.String("popover", string(which)), zap.Bool("open", opened))
	return opened
}

// PointerDown forwards a pointer press to the popovers.
func (s *Shell) PointerDown(region string) bool {
	return s.Popovers.PointerDown(region)
}

// ScanRecorded refreshes what a new scan changes: the sidebar history and
// the unread count.
func (s *Shell) ScanRecorded(ctx context.Context) {
	_ = s.Mount(ctx)
}

// ToggleSetting flips a profile setting. Unknown names and the admin
// privilege setting on a user profile are ignored.
func (s *Shell) ToggleSetting(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch name {
	case SettingAdminPrivileges:
		if !s.profile.Admin {
			return false
		}
		s.profile.ShowAdminPrivileges = !s.profile.ShowAdminPrivileges
	case SettingNotifications:
		s.profile.AllowNotifications = !s.profile.AllowNotifications
	default:
		return false
	}
	return true
}

// Profile returns a copy of the profile.
func (s *Shell) Profile() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Snapshot copies the shell state for rendering.
func (s *Shell) Snapshot() Snapshot {
	snap := Snapshot{
		Profile:    s.Profile(),
		BadgeLabel: s.Badge.Label(),
		Unread:     s.Badge.Count(),
		Open:       s.Popovers.Open(),
		Panel:      s.Panel.Snapshot(),
	}
	if s.Sidebar != nil {
		side := s.Sidebar.Snapshot()
		snap.Sidebar = &side
	}
	return snap
}
