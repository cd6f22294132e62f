// Package localize keeps the evidence of a dataset whose pages exist in the target language.
package localize

import (
	"github.com/ppiankov/fevercs/internal/model"
	"github.com/ppiankov/fevercs/internal/title"
)

// Result holds the outcome of filtering a dataset
type Result struct {
	Kept  []model.DataPoint
	Lost  []model.DataPoint
	Stats model.LocalizationStats
}

// LocalizeGroup rewrites every page of the group to its target title.
// A group is all-or-nothing: one unresolved page drops it. Items without a page are
// copied unchanged. The input group is never modified.
func LocalizeGroup(group model.EvidenceGroup, mapping model.TitleMapping) (model.EvidenceGroup, bool) {
	localized := make(model.EvidenceGroup, 0, len(group))

	for _, item := range group {
		if item.Page == nil {
			localized = append(localized, item)
			continue
		}

		decoded := title.Decode(*item.Page)
		target, ok := mapping.Lookup(decoded)
		if !ok {
			return nil, false
		}

		item.Page = &target
		item.OriginalPage = &decoded
		localized = append(localized, item)
	}

	return localized, true
}

// LocalizeEvidence returns the surviving groups in their original order
// and the number of dropped groups
func LocalizeEvidence(groups []model.EvidenceGroup, mapping model.TitleMapping) ([]model.EvidenceGroup, int) {
	survived := make([]model.EvidenceGroup, 0, len(groups))
	dropped := 0

	for _, group := range groups {
		localized, ok := LocalizeGroup(group, mapping)
		if !ok {
			dropped++
			continue
		}
		survived = append(survived, localized)
	}

	return survived, dropped
}

// Filter localizes every data point. A point is kept when at least one group survived;
// NOT VERIFIABLE points are always kept, with their evidence emptied.
func Filter(points []model.DataPoint, mapping model.TitleMapping) Result {
	var result Result
	result.Stats.Points = len(points)

	for _, point := range points {
		if !point.IsVerifiable() {
			point.Evidence = []model.EvidenceGroup{}
			result.Kept = append(result.Kept, point)
			result.Stats.NotVerifiable++
			continue
		}

		groups, dropped := LocalizeEvidence(point.Evidence, mapping)
		result.Stats.GroupsKept += len(groups)
		result.Stats.GroupsDropped += dropped

		if len(groups) > 0 {
			point.Evidence = groups
			result.Kept = append(result.Kept, point)
		} else {
			result.Lost = append(result.Lost, point)
		}
	}

	result.Stats.Kept = len(result.Kept)
	result.Stats.Lost = len(result.Lost)
	return result
}
