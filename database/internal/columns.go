package internal

import (
	"fmt"
	"strings"
)

// Column describes one column of a table as reported by the database.
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// SchemaMismatchError lists how a table differs from the columns it is expected to have.
type SchemaMismatchError struct {
	Table      string
	Missing    []string
	Mismatched []string
}

func (e *SchemaMismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "table %s schema validation failed:", e.Table)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "\n  missing columns: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Mismatched) > 0 {
		b.WriteString("\n  mismatched columns:")
		for _, m := range e.Mismatched {
			fmt.Fprintf(&b, "\n    - %s", m)
		}
	}
	return b.String()
}

// CompareColumns checks that every expected column is present in actual with the same
// type and nullability. Types are compared case-insensitively and extra columns are
// allowed. Differences are reported in the order of expected.
func CompareColumns(table string, expected, actual []Column) error {
	byName := make(map[string]Column, len(actual))
	for _, c := range actual {
		byName[c.Name] = c
	}

	mismatch := &SchemaMismatchError{Table: table}
	for _, want := range expected {
		got, ok := byName[want.Name]
		if !ok {
			mismatch.Missing = append(mismatch.Missing, want.Name)
			continue
		}
		if !strings.EqualFold(got.Type, want.Type) {
			mismatch.Mismatched = append(mismatch.Mismatched,
				fmt.Sprintf("%s: expected %s, got %s", want.Name, want.Type, strings.ToLower(got.Type)))
		}
		if got.Nullable != want.Nullable {
			mismatch.Mismatched = append(mismatch.Mismatched,
				fmt.Sprintf("%s: expected nullable=%v, got nullable=%v", want.Name, want.Nullable, got.Nullable))
		}
	}

	if len(mismatch.Missing) > 0 || len(mismatch.Mismatched) > 0 {
		return mismatch
	}
	return nil
}
