package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopoversAreExclusive(t *testing.T) {
	p := NewPopovers(nil)

	assert.True(t, p.Toggle(ProfilePopover))
	assert.True(t, p.IsOpen(ProfilePopover))

	assert.True(t, p.Toggle(NotificationsPopover))
	assert.False(t, p.IsOpen(ProfilePopover))
	assert.True(t, p.IsOpen(NotificationsPopover))

	assert.False(t, p.Toggle(NotificationsPopover))
	assert.Equal(t, NoPopover, p.Open())
}

func TestPointerDown(t *testing.T) {
	tests := []struct {
		name   string
		open   Popover
		target string
		closed bool
	}{
		{"nothing open", NoPopover, RegionContent, false},
		{"inside panel", NotificationsPopover, RegionNotificationsPanel, false},
		{"on trigger", NotificationsPopover, RegionNotificationsTrigger, false},
		{"elsewhere in navbar", NotificationsPopover, RegionNavbar, true},
		{"other trigger", ProfilePopover, RegionNotificationsTrigger, true},
		{"content", ProfilePopover, RegionContent, true},
		{"unknown region", ProfilePopover, "footer", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPopovers(nil)
			if tt.open != NoPopover {
				p.Toggle(tt.open)
			}
			assert.Equal(t, tt.closed, p.PointerDown(tt.target))
			if tt.closed {
				assert.Equal(t, NoPopover, p.Open())
			} else {
				assert.Equal(t, tt.open, p.Open())
			}
		})
	}
}

func TestLayoutWithin(t *testing.T) {
	l := DefaultLayout()
	assert.True(t, l.Within(RegionProfilePanel, RegionNavbar))
	assert.True(t, l.Within(RegionProfilePanel, RegionPage))
	assert.False(t, l.Within(RegionSidebar, RegionNavbar))
	assert.False(t, l.Within("", RegionPage))

	cyclic := Layout{"a": "b", "b": "a"}
	assert.False(t, cyclic.Within("a", "c"))
}

func TestParsePopover(t *testing.T) {
	p, ok := ParsePopover("notifications")
	assert.True(t, ok)
	assert.Equal(t, NotificationsPopover, p)

	_, ok = ParsePopover("settings")
	assert.False(t, ok)
}

func TestProfile(t *testing.T) {
	admin := NewProfile("josh armstrong", true)
	assert.Equal(t, RoleAdministrator, admin.Role)
	assert.Equal(t, "J", admin.Initial())
	assert.Equal(t, AdminPrivileges, admin.Privileges())

	user := NewProfile("", false)
	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, "U", user.Initial())
	assert.Nil(t, user.Privileges())
}
