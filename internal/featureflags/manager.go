// Package featureflags evaluates runtime switches from FEATURE_FLAGS, a comma
// separated list such as "legacy_jobs_listing=on,new_profile_view=25%".
package featureflags

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// LegacyJobsListing serves GET /api/jobs, the unprojected listing of open jobs.
const LegacyJobsListing = "legacy_jobs_listing"

// rollout is the share of users, 0 to 100, that see a flag.
type rollout int

const (
	rolloutNone rollout = 0
	rolloutAll  rollout = 100
)

// parseRollout accepts on/true/1, off/false/0 and N%. Anything else is off.
func parseRollout(v string) rollout {
	switch v {
	case "on", "true", "1":
		return rolloutAll
	case "off", "false", "0":
		return rolloutNone
	}
	raw, ok := strings.CutSuffix(v, "%")
	if !ok {
		return rolloutNone
	}
	n, err := strconv.Atoi(raw)
	switch {
	case err != nil, n <= 0:
		return rolloutNone
	case n >= 100:
		return rolloutAll
	}
	return rollout(n)
}

type Manager struct {
	flags map[string]rollout
}

// NewManager parses raw. Entries without a key or value are skipped.
func NewManager(raw string) *Manager {
	m := &Manager{flags: make(map[string]rollout)}
	for _, entry := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(entry, "=")
		k, v = normalize(k), normalize(v)
		if !ok || k == "" || v == "" {
			continue
		}
		m.flags[k] = parseRollout(v)
	}
	return m
}

// Enabled reports whether name is on for userID. Partial rollouts hash the
// flag and user into a stable bucket, so anonymous callers (userID 0) only
// see fully enabled flags.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	name = normalize(name)
	r := m.flags[name]
	switch {
	case r == rolloutAll:
		return true
	case r == rolloutNone, userID == 0:
		return false
	}
	return bucket(name, userID) < int(r)
}

func (m *Manager) EnabledForAll(name string) bool {
	return m.Enabled(name, 0)
}

// Names lists configured flags, sorted.
func (m *Manager) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.flags))
	for n := range m.flags {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Snapshot evaluates every configured flag for userID.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.Names()))
	for _, n := range m.Names() {
		out[n] = m.Enabled(n, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name + ":" + strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum32() % 100)
}
