package catalog

import (
	"fmt"

	"github.com/tturner/pclscope/internal/pstream/tags"
)

// ValidationError represents a catalog check finding for one entry.
type ValidationError struct {
	Key     string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Key, e.Field, e.Message)
}

// ValidationResult holds results from checking a catalog against a dictionary.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if no errors were found.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Check compares catalog entries with dict. Replacing a built-in entry is a
// warning; flags that make no sense for the entry's kind are errors.
func Check(f *File, dict *tags.Dictionary) *ValidationResult {
	if dict == nil {
		dict = tags.Default()
	}
	result := &ValidationResult{}

	for _, e := range f.Entries {
		key := e.Key()
		if prev, ok := dict.Lookup(key); ok {
			result.Warnings = append(result.Warnings, ValidationError{
				Key:     key.String(),
				Field:   "key",
				Message: fmt.Sprintf("replaces built-in %q", prev.Description),
			})
		}
		if e.Flags.Has(tags.FlagBinaryData) && e.Kind != tags.KindComplexSeq {
			result.Errors = append(result.Errors, ValidationError{
				Key:     key.String(),
				Field:   "flags",
				Message: "binary_data only applies to parameterised escape sequences",
			})
		}
		if e.Flags.Has(tags.FlagValueIsSymSet) && e.Kind != tags.KindComplexSeq {
			result.Errors = append(result.Errors, ValidationError{
				Key:     key.String(),
				Field:   "flags",
				Message: "value_is_symset only applies to parameterised escape sequences",
			})
		}
		if (e.Flags.Has(tags.FlagLabel) || e.Flags.Has(tags.FlagTermSet)) && e.Kind != tags.KindHPGL2Command {
			result.Errors = append(result.Errors, ValidationError{
				Key:     key.String(),
				Field:   "flags",
				Message: "label and term_set only apply to HP-GL/2 commands",
			})
		}
		if e.Description == "" {
			result.Warnings = append(result.Warnings, ValidationError{
				Key:     key.String(),
				Field:   "description",
				Message: "missing description",
			})
		}
	}

	return result
}
