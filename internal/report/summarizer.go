package report

import (
	"sort"

	"github.com/plonxyz/convertctl/internal/models"
)

// TypeStat aggregates results of one detected type
type TypeStat struct {
	Type       string
	Count      int
	TotalBytes int64
}

// Summarize groups results by detected type, largest group first
func Summarize(results []*models.ConversionResult) []TypeStat {
	byType := map[string]*TypeStat{}
	for _, r := range results {
		st, ok := byType[r.DetectedType]
		if !ok {
			st = &TypeStat{Type: r.DetectedType}
			byType[r.DetectedType] = st
		}
		st.Count++
		st.TotalBytes += r.Metadata.Size
	}

	stats := make([]TypeStat, 0, len(byType))
	for _, st := range byType {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Type < stats[j].Type
	})
	return stats
}
