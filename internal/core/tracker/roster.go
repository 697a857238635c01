package tracker

import (
	"bytes"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/zeusync/friendfinder/internal/core/observability/log"
	"github.com/zeusync/friendfinder/pkg/sequence"
)

// reconcile rebuilds the player targets from the live roster. The selected
// target keeps its selection when it survives the rebuild; otherwise an
// out-of-range index falls back to 0.
func (t *Tracker) reconcile(roster []RosterEntry) {
	live := t.liveRoster(roster)
	fp := fingerprint(live)

	if t.config.SkipUnchangedRoster && t.rosterKnown && fp == t.roster {
		t.refreshPlayers(live)
		return
	}

	selected, hadSelection := t.Current()

	kept := sequence.From(t.targets).Filter(isWaypoint).Collect()
	targets := make([]Target, 0, len(kept)+len(live))
	targets = append(targets, kept...)
	for _, entry := range live {
		targets = append(targets, playerFromEntry(entry))
	}
	t.targets = targets
	t.roster = fp
	t.rosterKnown = true

	if hadSelection {
		if i := slices.IndexFunc(t.targets, func(x Target) bool { return x.Key() == selected.Key() }); i >= 0 {
			t.index = i
		}
	}
	if len(t.targets) == 0 {
		t.index = 0
	} else if t.index < 0 || t.index >= len(t.targets) {
		t.logger.Debug("Resetting invalid target index", log.Int("index", t.index), log.Int("targets", len(t.targets)))
		t.index = 0
	}

	t.logger.Debug("Targets rebuilt",
		log.Int("players", len(live)),
		log.Int("waypoints", len(kept)),
		log.Int("index", t.index),
	)
}

// refreshPlayers updates positions, names and dimensions in place.
func (t *Tracker) refreshPlayers(live []RosterEntry) {
	byID := make(map[uuid.UUID]RosterEntry, len(live))
	for _, entry := range live {
		byID[entry.ID] = entry
	}
	for i, target := range t.targets {
		if p, ok := target.(PlayerTarget); ok {
			if entry, found := byID[p.ID]; found {
				t.targets[i] = playerFromEntry(entry)
			}
		}
	}
}

// liveRoster drops the local player, nil ids and repeated ids, keeping the
// first occurrence and the host's order.
func (t *Tracker) liveRoster(roster []RosterEntry) []RosterEntry {
	seen := make(map[uuid.UUID]struct{}, len(roster))
	live := make([]RosterEntry, 0, len(roster))
	for _, entry := range roster {
		if entry.ID == uuid.Nil || entry.ID == t.self {
			continue
		}
		if _, dup := seen[entry.ID]; dup {
			continue
		}
		seen[entry.ID] = struct{}{}
		live = append(live, entry)
	}
	return live
}

func playerFromEntry(entry RosterEntry) PlayerTarget {
	return PlayerTarget{
		ID:        entry.ID,
		Name:      entry.Name,
		Position:  entry.Position,
		Dimension: entry.Dimension,
	}
}

// fingerprint hashes the set of roster ids independently of their order.
func fingerprint(live []RosterEntry) uint64 {
	ids := make([]uuid.UUID, len(live))
	for i, entry := range live {
		ids[i] = entry.ID
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })

	d := xxhash.New()
	for _, id := range ids {
		_, _ = d.Write(id[:])
	}
	return d.Sum64()
}
