package stratum

import (
	"slices"
)

// Merge combines docs into one Effective document. For every non-skipped leaf of schema,
// the value comes from the highest-precedence document (see Precedence) that contains the
// leaf key; leaves no document supplies stay absent. Documents are ordered by kind, so the
// argument order does not matter, and keys outside the schema are ignored.
//
// Merge only selects values, so it cannot fail: absence is left to Validate.
func Merge(schema *Schema, docs ...Document) *Effective {
	ordered := slices.Clone(docs)
	slices.SortStableFunc(ordered, func(a, b Document) int {
		return a.kind.rank() - b.kind.rank()
	})

	eff := &Effective{
		values:  make(map[string]string, schema.Len()),
		origins: make(map[string]SourceKind, schema.Len()),
	}
	for _, leaf := range schema.leaves {
		if leaf.Skipped {
			continue
		}
		for _, doc := range ordered {
			if v, ok := doc.Lookup(leaf.Key); ok {
				eff.values[leaf.Key] = v
				eff.origins[leaf.Key] = doc.kind
				break
			}
		}
	}
	return eff
}
