package cart

import "encoding/json"

// Snapshot is the persisted wire form of a cart: the line items plus the
// write time in epoch milliseconds.
type Snapshot struct {
	Items     []LineItem `json:"items"`
	Timestamp int64      `json:"timestamp"`
}

// decodeSnapshot is the safe-parse path for persisted cart state. Anything
// structurally off (items missing or not a list, timestamp missing or not a
// positive number, broken JSON) reports !ok instead of an error, so callers
// can fall back to an empty cart.
func decodeSnapshot(raw []byte) (Snapshot, bool) {
	var probe struct {
		Items     json.RawMessage `json:"items"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Snapshot{}, false
	}
	var snap Snapshot
	if len(probe.Items) == 0 || json.Unmarshal(probe.Items, &snap.Items) != nil || snap.Items == nil {
		return Snapshot{}, false
	}
	if len(probe.Timestamp) == 0 || json.Unmarshal(probe.Timestamp, &snap.Timestamp) != nil || snap.Timestamp <= 0 {
		return Snapshot{}, false
	}
	return snap, true
}

// sanitize re-establishes the cart invariants on adopted snapshot items:
// at most one line per product id, every quantity >= 1. Duplicate ids merge
// into the first occurrence; non-positive quantities are dropped.
func sanitize(items []LineItem) []LineItem {
	var out []LineItem
	idx := make(map[int64]int, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if i, ok := idx[it.Product.ID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.Product.ID] = len(out)
		out = append(out, it)
	}
	return out
}
