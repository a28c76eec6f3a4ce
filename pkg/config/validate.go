package config

import (
	"fmt"
	"sort"
	"strings"
)

// normalize runs the validation and normalization pipeline in the fixed
// order the generated artifacts depend on: structural presence, the
// as-given contiguity checks, nickname uniqueness, default injection,
// completeness, sorting, bitmap computation, key decoding. The bitmap
// pass after sorting is the authoritative one.
func (t *Tree) normalize() error {
	if err := t.checkPresence(); err != nil {
		return err
	}
	if err := t.checkClients(); err != nil {
		return err
	}
	if err := t.checkGroups(); err != nil {
		return err
	}
	t.injectDefaults()
	if err := t.checkComplete(); err != nil {
		return err
	}
	sort.Slice(t.Clients, func(i, j int) bool { return t.Clients[i].SID < t.Clients[j].SID })
	sort.Slice(t.Groups, func(i, j int) bool { return t.Groups[i].GID < t.Groups[j].GID })
	if err := t.computeBitmaps(); err != nil {
		return err
	}
	return t.decodeLTKs()
}

func (t *Tree) checkPresence() error {
	if len(t.Clients) == 0 {
		return &ValidationError{Entity: "clients", Msg: "collection is missing or empty"}
	}
	if len(t.Groups) == 0 {
		return &ValidationError{Entity: "groups", Msg: "collection is missing or empty"}
	}
	if t.Bus == nil {
		return &ValidationError{Entity: "bus", Msg: "collection is missing"}
	}
	if t.Defaults == nil {
		return &ValidationError{Entity: "defaults", Msg: "collection is missing"}
	}
	return nil
}

// checkClients verifies sid contiguity on the collection as authored and
// the case-insensitive uniqueness of nicknames.
func (t *Tree) checkClients() error {
	if first := t.Clients[0].SID; first != 1 {
		return &ValidationError{
			Entity: clientRef(t.Clients[0]),
			Msg:    fmt.Sprintf("first client has sid %d, want 1", first),
		}
	}
	if last := t.Clients[len(t.Clients)-1].SID; last != len(t.Clients) {
		return &ValidationError{
			Entity: clientRef(t.Clients[len(t.Clients)-1]),
			Msg:    fmt.Sprintf("last client has sid %d, want the client count %d", last, len(t.Clients)),
		}
	}
	seen := make(map[string]string, len(t.Clients))
	for _, c := range t.Clients {
		lower := strings.ToLower(c.Nickname)
		if other, ok := seen[lower]; ok {
			return &ValidationError{
				Entity: clientRef(c),
				Msg:    fmt.Sprintf("nickname collides with %q (comparison is case-insensitive)", other),
			}
		}
		seen[lower] = c.Nickname
	}
	return nil
}

// checkGroups verifies gid contiguity on the collection as authored.
// It also fills a first bitmap for the non-broadcast groups; that value
// is provisional and recomputed by computeBitmaps after sorting.
func (t *Tree) checkGroups() error {
	if first := t.Groups[0].GID; first != 0 {
		return &ValidationError{
			Entity: groupRef(t.Groups[0]),
			Msg:    fmt.Sprintf("first group has gid %d, want 0", first),
		}
	}
	if last := t.Groups[len(t.Groups)-1].GID; last != len(t.Groups)-1 {
		return &ValidationError{
			Entity: groupRef(t.Groups[len(t.Groups)-1]),
			Msg:    fmt.Sprintf("last group has gid %d, want the group count minus one %d", last, len(t.Groups)-1),
		}
	}
	for _, g := range t.Groups[1:] {
		var bitmap uint32
		for _, sid := range g.Clients {
			bitmap |= 1 << uint(sid-1)
		}
		g.ClientSidsInGroupBitmap = bitmap
	}
	return nil
}

// injectDefaults merges the bus settings and then the defaults into
// every client, and the defaults into every group, never overwriting a
// value the author supplied. Running it twice changes nothing.
func (t *Tree) injectDefaults() {
	for _, c := range t.Clients {
		fill(&c.HeaderType, t.Bus.HeaderType)
		fill(&c.TimeoutReqToResMillis, t.Defaults.TimeoutReqToResMillis)
	}
	for _, g := range t.Groups {
		fill(&g.MaxCtrnonceDelayMsgs, t.Defaults.MaxCtrnonceDelayMsgs)
		fill(&g.CtrNonceUpperLimit, t.Defaults.CtrNonceUpperLimit)
		fill(&g.SessionDurationMillis, t.Defaults.SessionDurationMillis)
		fill(&g.DelayBetweenRenNotificationsMillis, t.Defaults.DelayBetweenRenNotificationsMillis)
		fill(&g.MaxSilenceIntervalMillis, t.Defaults.MaxSilenceIntervalMillis)
		fill(&g.SessionRenewalDurationMillis, t.Defaults.SessionRenewalDurationMillis)
	}
}

func fill(dst **uint32, src *uint32) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}

// checkComplete verifies that after default injection every parameter
// the wire records need actually has a value.
func (t *Tree) checkComplete() error {
	if t.Bus.HeaderType == nil {
		return &ValidationError{Entity: "bus", Msg: "missing headerType"}
	}
	for _, c := range t.Clients {
		if c.TimeoutReqToResMillis == nil {
			return &ValidationError{
				Entity: clientRef(c),
				Msg:    "missing timeoutReqToResMillis (not set on the client, in bus or in defaults)",
			}
		}
	}
	for _, g := range t.Groups {
		for _, p := range []struct {
			name  string
			value *uint32
		}{
			{"maxCtrnonceDelayMsgs", g.MaxCtrnonceDelayMsgs},
			{"ctrNonceUpperLimit", g.CtrNonceUpperLimit},
			{"sessionDurationMillis", g.SessionDurationMillis},
			{"delayBetweenRenNotificationsMillis", g.DelayBetweenRenNotificationsMillis},
			{"maxSilenceIntervalMillis", g.MaxSilenceIntervalMillis},
			{"sessionRenewalDurationMillis", g.SessionRenewalDurationMillis},
		} {
			if p.value == nil {
				return &ValidationError{
					Entity: groupRef(g),
					Msg:    "missing " + p.name + " (not set on the group or in defaults)",
				}
			}
		}
	}
	return nil
}

// computeBitmaps derives the authoritative membership bitmaps after
// sorting. The broadcast group (gid 0) always spans the full client
// population and its bitmap is all ones regardless of what the input
// declared; every other group's bitmap ORs bit (sid-1) over its member
// sids, each of which must identify an existing client.
func (t *Tree) computeBitmaps() error {
	broadcast := t.Groups[0]
	broadcast.ClientSidsInGroupBitmap = 0xFFFFFFFF
	broadcast.Clients = make([]int, len(t.Clients))
	for i, c := range t.Clients {
		broadcast.Clients[i] = c.SID
	}
	for _, g := range t.Groups[1:] {
		var bitmap uint32
		for _, sid := range g.Clients {
			if sid < 1 || sid > len(t.Clients) {
				return &ValidationError{
					Entity: groupRef(g),
					Msg:    fmt.Sprintf("member sid %d is outside [1, %d]", sid, len(t.Clients)),
				}
			}
			bitmap |= 1 << uint(sid-1)
		}
		g.ClientSidsInGroupBitmap = bitmap
	}
	return nil
}

func (t *Tree) decodeLTKs() error {
	for _, c := range t.Clients {
		key, err := LTKFromString(c.LTK)
		if err != nil {
			return &ValidationError{Entity: clientRef(c), Msg: err.Error()}
		}
		c.LTKBytes = key
	}
	return nil
}

func clientRef(c *Client) string {
	return fmt.Sprintf("client %q", c.Nickname)
}

func groupRef(g *Group) string {
	return fmt.Sprintf("group %d", g.GID)
}
