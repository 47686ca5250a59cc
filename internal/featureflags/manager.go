// Package featureflags evaluates staged-rollout flags from configuration.
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// rule is one parsed flag value. Percent is only meaningful for partial
// rollouts; on/off are stored as 100/0 so Enabled needs no special cases.
type rule struct {
	raw     string
	percent int
}

// Manager holds flags parsed once at startup. Evaluation is read-only, so a
// Manager is safe for concurrent use by every request handler.
type Manager struct {
	rules map[string]rule
}

// NewManager parses a comma-separated flag list, e.g.
// "feed_v2=on,offer_search=25%,legacy_profile=off". Entries that do not
// parse are dropped rather than treated as off, so a typo in one flag
// cannot silently shadow a later correct definition of the same name.
func NewManager(raw string) *Manager {
	m := &Manager{rules: make(map[string]rule)}

	for _, entry := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name = normalize(name)
		r, ok := parseRule(normalize(value))
		if name == "" || !ok {
			continue
		}
		m.rules[name] = r
	}

	return m
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{raw: value, percent: 100}, true
	case "off", "false", "0":
		return rule{raw: value, percent: 0}, true
	}

	pct, ok := strings.CutSuffix(value, "%")
	if !ok {
		return rule{}, false
	}
	n, err := strconv.Atoi(pct)
	if err != nil || n < 0 {
		return rule{}, false
	}
	if n > 100 {
		n = 100
	}
	return rule{raw: value, percent: n}, true
}

// Enabled reports whether a flag is on for the given user. Partial rollouts
// are deterministic per (flag, user) pair, so a user never flaps between
// variants across requests. Anonymous traffic (userID 0) stays on the old
// path until the flag reaches 100%.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}

	switch {
	case r.percent >= 100:
		return true
	case r.percent <= 0:
		return false
	case userID == 0:
		return false
	}
	return bucket(normalize(name), userID) < r.percent
}

// Raw returns the configured flag values as written, for the admin surface.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for name, r := range m.rules {
		out[name] = r.raw
	}
	return out
}

// Snapshot evaluates every flag for one user, the payload of GET /api/flags.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bucket maps a (flag, user) pair onto 0..99. fnv keeps buckets stable
// across restarts, unlike anything seeded from runtime state.
func bucket(name string, userID uint) int {
	h := fnv.New64a()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum64() % 100)
}
