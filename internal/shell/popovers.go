package shell

import "sync"

// Popover names one of the navbar popovers.
type Popover string

const (
	NoPopover            Popover = ""
	ProfilePopover       Popover = "profile"
	NotificationsPopover Popover = "notifications"
)

// ParsePopover maps a route parameter to a popover.
func ParsePopover(name string) (Popover, bool) {
	switch Popover(name) {
	case ProfilePopover, NotificationsPopover:
		return Popover(name), true
	}
	return NoPopover, false
}

// Page regions a pointer press can land on.
const (
	RegionPage                 = "page"
	RegionNavbar               = "navbar"
	RegionSidebar              = "sidebar"
	RegionContent              = "content"
	RegionProfileTrigger       = "profile-trigger"
	RegionProfilePanel         = "profile-panel"
	RegionNotificationsTrigger = "notifications-trigger"
	RegionNotificationsPanel   = "notifications-panel"
)

// Layout maps each region to its parent. A press inside a region is also
// inside every ancestor.
type Layout map[string]string

// DefaultLayout nests each popover panel inside its trigger wrapper.
func DefaultLayout() Layout {
	return Layout{
		RegionNavbar:               RegionPage,
		RegionSidebar:              RegionPage,
		RegionContent:              RegionPage,
		RegionProfileTrigger:       RegionNavbar,
		RegionProfilePanel:         RegionProfileTrigger,
		RegionNotificationsTrigger: RegionNavbar,
		RegionNotificationsPanel:   RegionNotificationsTrigger,
	}
}

// Within reports whether target is region or one of its descendants.
func (l Layout) Within(target, region string) bool {
	for depth := 0; target != "" && depth <= len(l); depth++ {
		if target == region {
			return true
		}
		target = l[target]
	}
	return false
}

// Popovers keeps at most one popover open.
type Popovers struct {
	layout Layout

	mu   sync.Mutex
	open Popover
}

func NewPopovers(layout Layout) *Popovers {
	if layout == nil {
		layout = DefaultLayout()
	}
	return &Popovers{layout: layout}
}

// Toggle opens which, closing the other one, or closes it when already
// open. It reports whether which is open afterwards.
func (p *Popovers) Toggle(which Popover) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open == which {
		p.open = NoPopover
		return false
	}
	p.open = which
	return which != NoPopover
}

// Close closes whichever popover is open.
func (p *Popovers) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = NoPopover
}

// Open returns the open popover or NoPopover.
func (p *Popovers) Open() Popover {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// IsOpen reports whether which is open.
func (p *Popovers) IsOpen(which Popover) bool {
	return which != NoPopover && p.Open() == which
}

// PointerDown closes the open popover unless target lies in its trigger or
// its panel. It reports whether a popover was closed.
func (p *Popovers) PointerDown(target string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open == NoPopover {
		return false
	}
	trigger, panel := regionsOf(p.open)
	if p.layout.Within(target, trigger) || p.layout.Within(target, panel) {
		return false
	}
	p.open = NoPopover
	return true
}

func regionsOf(which Popover) (trigger, panel string) {
	switch which {
	case ProfilePopover:
		return RegionProfileTrigger, RegionProfilePanel
	case NotificationsPopover:
		return RegionNotificationsTrigger, RegionNotificationsPanel
	}
	return "", ""
}
