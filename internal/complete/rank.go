package complete

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// DefaultFuzzyThreshold is the minimum Jaro-Winkler similarity for a
// non-prefix match to survive filtering.
const DefaultFuzzyThreshold = 0.80

// Rank filters and orders completion items against the partial word under
// the cursor. Exact-prefix matches come first, then fuzzy matches above the
// threshold ordered by similarity. An empty partial keeps everything,
// ordered by label for a stable presentation.
func Rank(items []Item, partial string) []Item {
	if partial == "" {
		out := make([]Item, len(items))
		copy(out, items)
		sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
		return out
	}

	lower := strings.ToLower(partial)
	type scored struct {
		item    Item
		prefix  bool
		similar float32
	}
	var kept []scored
	for _, item := range items {
		label := strings.ToLower(item.Label)
		if strings.HasPrefix(label, lower) {
			kept = append(kept, scored{item: item, prefix: true, similar: 1})
			continue
		}
		sim, err := edlib.StringsSimilarity(lower, label, edlib.JaroWinkler)
		if err == nil && sim >= DefaultFuzzyThreshold {
			kept = append(kept, scored{item: item, similar: sim})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].prefix != kept[j].prefix {
			return kept[i].prefix
		}
		if kept[i].similar != kept[j].similar {
			return kept[i].similar > kept[j].similar
		}
		return kept[i].item.Label < kept[j].item.Label
	})

	out := make([]Item, 0, len(kept))
	for _, s := range kept {
		out = append(out, s.item)
	}
	return out
}
