package scanner_client

import (
	"net/url"
	"strconv"
)

const (
	// DefaultHistoryLimit sizes the sidebar history fetch.
	DefaultHistoryLimit = 7
	// DefaultNotificationLimit sizes the notification panel fetch.
	DefaultNotificationLimit = 15
)

// Page is a zero-based offset window. A zero Limit means the endpoint default.
type Page struct {
	Skip  int
	Limit int
}

// Resolve fills defaults: negative Skip becomes 0, non-positive Limit becomes defaultLimit.
func (p Page) Resolve(defaultLimit int) Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	return p
}

// query always carries both parameters, defaulted or not.
func (p Page) query(defaultLimit int) url.Values {
	resolved := p.Resolve(defaultLimit)
	q := url.Values{}
	q.Set("skip", strconv.Itoa(resolved.Skip))
	q.Set("limit", strconv.Itoa(resolved.Limit))
	return q
}
