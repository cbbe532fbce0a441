package aggregate

import (
	"sort"
	"time"

	"github.com/medwatch/worktime-analytics/internal/event"
)

// UnlabeledSection stands in for a blank section label.
const UnlabeledSection = "Unlabeled"

// Block is a maximal run of consecutive same-section events within one
// complaint's stream. IgnoredMS covers wall-clock time the instrumentation
// attributed to neither active nor idle (long gaps); it is informational
// and never subtracted from the counted totals.
type Block struct {
	Section     string    `json:"section"`
	Start       time.Time `json:"start"`
	ActiveMS    int64     `json:"active_ms"`
	IdleMS      int64     `json:"idle_ms"`
	CountedEnd  time.Time `json:"counted_end"`
	LastEventTS time.Time `json:"last_event_ts"`
	IgnoredMS   int64     `json:"ignored_ms"`
}

// CollapseBlocks folds one complaint's events into contiguous labeled time
// blocks. A new block starts whenever the section changes between adjacent
// events, so the same label can appear in several blocks.
func CollapseBlocks(events []event.Event) []Block {
	if len(events) == 0 {
		return []Block{}
	}

	sorted := make([]event.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TS.Before(sorted[j].TS)
	})

	blocks := []Block{}
	var cur *Block

	flush := func() {
		if cur == nil {
			return
		}
		counted := cur.ActiveMS + cur.IdleMS
		cur.CountedEnd = cur.Start.Add(time.Duration(counted) * time.Millisecond)
		span := cur.LastEventTS.Sub(cur.Start).Milliseconds()
		if ignored := span - counted; ignored > 0 {
			cur.IgnoredMS = ignored
		}
		blocks = append(blocks, *cur)
		cur = nil
	}

	for _, e := range sorted {
		section := e.Section
		if section == "" {
			section = UnlabeledSection
		}

		if cur == nil || cur.Section != section {
			flush()
			cur = &Block{
				Section:     section,
				Start:       e.TS,
				LastEventTS: e.TS,
			}
		}

		cur.ActiveMS += e.ActiveMS
		cur.IdleMS += e.IdleMS
		cur.LastEventTS = e.TS
	}
	flush()

	return blocks
}
