package api

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"modelforge/internal/session"
)

type SortKey struct {
	Field string
	Desc  bool
}

type ListParams struct {
	Limit  int
	Offset int
	Sort   []SortKey
	Q      string
	Format string
}

// parseListParams reads _limit/_offset/_sort (plain names accepted too),
// q and format.
func parseListParams(q url.Values) ListParams {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(q.Get(k)); v != "" {
				return v
			}
		}
		return ""
	}

	limit := 50
	if n, err := strconv.Atoi(first("_limit", "limit")); err == nil && n >= 0 && n <= 1000 {
		limit = n
	}
	offset := 0
	if n, err := strconv.Atoi(first("_offset", "offset")); err == nil && n >= 0 {
		offset = n
	}

	var keys []SortKey
	for _, p := range strings.Split(first("_sort", "sort"), ",") {
		p = strings.TrimSpace(p)
		desc := strings.HasPrefix(p, "-")
		p = strings.TrimLeft(p, "+-")
		if p != "" {
			keys = append(keys, SortKey{Field: p, Desc: desc})
		}
	}

	return ListParams{
		Limit:  limit,
		Offset: offset,
		Sort:   keys,
		Q:      strings.ToLower(first("q")),
		Format: strings.ToLower(first("format")),
	}
}

func filterSessions(all []session.Summary, lp ListParams) []session.Summary {
	out := make([]session.Summary, 0, len(all))
	for _, s := range all {
		if lp.Format != "" && string(s.Format) != lp.Format {
			continue
		}
		if lp.Q != "" && !strings.Contains(strings.ToLower(s.SystemName+" "+s.Template), lp.Q) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// cmpByKey compares two summaries on one sortable field; unknown fields
// compare equal.
func cmpByKey(a, b session.Summary, key string) int {
	switch key {
	case "id":
		return strings.Compare(a.ID, b.ID)
	case "systemName", "system_name":
		return strings.Compare(strings.ToLower(a.SystemName), strings.ToLower(b.SystemName))
	case "template":
		return strings.Compare(a.Template, b.Template)
	case "entities":
		return a.Entities - b.Entities
	case "updated_at", "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "version":
		switch {
		case a.Version < b.Version:
			return -1
		case a.Version > b.Version:
			return 1
		}
	}
	return 0
}

func sortSessions(items []session.Summary, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, k := range keys {
			c := cmpByKey(items[i], items[j], k.Field)
			if k.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
