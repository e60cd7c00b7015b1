package shell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dashboard/internal/models"
	"dashboard/internal/readmodel"
)

func TestShellMountOnce(t *testing.T) {
	gw := newFakeGateway()
	gw.notifications = unread(1, 2)
	gw.history = []models.ScanHistoryEntry{{ID: 1, FileName: "a.csv"}}
	s := New(gw, readmodel.NewStore(), NewProfile("Josh Armstrong", true), true, zaptest.NewLogger(t))

	require.NoError(t, s.MountOnce(context.Background()))
	require.NoError(t, s.MountOnce(context.Background()))

	assert.Equal(t, 1, gw.called("UnreadNotificationCount"))
	assert.Equal(t, 1, gw.called("ListScanHistory"))

	snap := s.Snapshot()
	assert.Equal(t, "2", snap.BadgeLabel)
	require.NotNil(t, snap.Sidebar)
	assert.Len(t, snap.Sidebar.Items, 1)
}

func TestUserShellHasNoSidebar(t *testing.T) {
	gw := newFakeGateway()
	s := New(gw, nil, NewProfile("Test User", false), false, zaptest.NewLogger(t))

	require.NoError(t, s.Mount(context.Background()))
	assert.Nil(t, s.Snapshot().Sidebar)
	assert.Equal(t, 0, gw.called("ListScanHistory"))
}

func TestOpeningNotificationsFetchesCountAndList(t *testing.T) {
	gw := newFakeGateway()
	gw.notifications = unread(1, 2, 3)
	s := New(gw, readmodel.NewStore(), NewProfile("Josh Armstrong", true), false, zaptest.NewLogger(t))

	assert.True(t, s.TogglePopover(context.Background(), NotificationsPopover))
	assert.Equal(t, 1, gw.called("UnreadNotificationCount"))
	assert.Equal(t, 1, gw.called("ListNotifications"))

	snap := s.Snapshot()
	assert.Equal(t, NotificationsPopover, snap.Open)
	assert.Len(t, snap.Panel.Items.Value, 3)

	assert.False(t, s.TogglePopover(context.Background(), NotificationsPopover))
	assert.Equal(t, 1, gw.called("ListNotifications"), "closing does not fetch")

	assert.True(t, s.TogglePopover(context.Background(), ProfilePopover))
	assert.Equal(t, 1, gw.called("ListNotifications"))
	assert.True(t, s.PointerDown(RegionContent))
	assert.Equal(t, NoPopover, s.Snapshot().Open)
}

func TestScanRecordedRefreshesSidebarAndBadge(t *testing.T) {
	gw := newFakeGateway()
	s := New(gw, nil, NewProfile("Josh Armstrong", true), true, zaptest.NewLogger(t))
	require.NoError(t, s.MountOnce(context.Background()))

	gw.history = []models.ScanHistoryEntry{{ID: 7, FileName: "new.csv"}}
	gw.notifications = unread(1)
	s.ScanRecorded(context.Background())

	snap := s.Snapshot()
	assert.Equal(t, "1", snap.BadgeLabel)
	require.Len(t, snap.Sidebar.Items, 1)
	assert.Equal(t, int64(7), snap.Sidebar.Items[0].ID)
}

func TestToggleSetting(t *testing.T) {
	admin := New(newFakeGateway(), nil, NewProfile("Josh Armstrong", true), true, nil)
	assert.True(t, admin.ToggleSetting(SettingAdminPrivileges))
	assert.False(t, admin.Profile().ShowAdminPrivileges)
	assert.Nil(t, admin.Profile().Privileges())
	assert.True(t, admin.ToggleSetting(SettingNotifications))
	assert.False(t, admin.Profile().AllowNotifications)
	assert.False(t, admin.ToggleSetting("theme"))

	user := New(newFakeGateway(), nil, NewProfile("Test User", false), false, nil)
	assert.False(t, user.ToggleSetting(SettingAdminPrivileges))
	assert.False(t, user.Profile().ShowAdminPrivileges)
}

func TestMountAlwaysRefetches(t *testing.T) {
	gw := newFakeGateway()
	gw.notifications = unread(1)
	s := New(gw, nil, NewProfile("Josh Armstrong", true), true, zaptest.NewLogger(t))

	require.NoError(t, s.Mount(context.Background()))
	gw.notifications = unread(1, 2, 3)
	require.NoError(t, s.Mount(context.Background()))

	assert.Equal(t, 2, gw.called("UnreadNotificationCount"))
	assert.Equal(t, 2, gw.called("ListScanHistory"))
	assert.Equal(t, "3", s.Snapshot().BadgeLabel)

	require.NoError(t, s.MountOnce(context.Background()))
	assert.Equal(t, 2, gw.called("UnreadNotificationCount"), "a mounted shell is served as held")
}
