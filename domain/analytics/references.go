package analytics

import (
	"sort"

	"statdash/domain/core/entities"
	"statdash/domain/core/valueobjects"
)

// AnalyzeReferences scans every text property for links carrying marker and
// indexes them both ways. Values of any other kind are ignored.
func AnalyzeReferences(objects []entities.DomainObject, marker string) ReferenceAnalysis {
	result := ReferenceAnalysis{
		References:   make(map[string]map[string]int),
		ReferencedBy: make(map[string][]ReferenceSource),
	}

	for _, obj := range objects {
		// sorted keys keep referencedBy lists deterministic
		keys := make([]string, 0, len(obj.Properties))
		for key := range obj.Properties {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			text, ok := obj.Properties[key].(valueobjects.TextValue)
			if !ok {
				continue
			}
			target, ok := text.ReferenceTarget(marker)
			if !ok {
				continue
			}

			if result.References[key] == nil {
				result.References[key] = make(map[string]int)
			}
			result.References[key][target]++
			result.ReferencedBy[target] = append(result.ReferencedBy[target], ReferenceSource{
				ObjectID: obj.ID,
				Property: key,
			})
			result.TotalReferences++
		}
	}

	return result
}
