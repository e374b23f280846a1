package activity

import (
	"sync"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-masker"
)

// SanitizerConfig controls the masker used for feed sanitization.
type SanitizerConfig struct {
	Masker *masker.Masker
}

var defaultMaskerOnce sync.Once

// DefaultMasker returns a configured masker instance with the default
// denylist. Activity payloads occasionally carry operator contact details in
// free-text fields; those are masked before the feed leaves the library.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizeEntry masks sensitive values in the entry payload.
func SanitizeEntry(mask *masker.Masker, entry types.ActivityEntry) types.ActivityEntry {
	if len(entry.Data) == 0 {
		return entry
	}
	if mask == nil {
		mask = DefaultMasker()
	}
	if mask == nil {
		entry.Data = map[string]any{}
		return entry
	}

	masked, err := mask.Mask(cloneData(entry.Data))
	if err != nil {
		entry.Data = map[string]any{}
		return entry
	}
	switch masked := masked.(type) {
	case map[string]any:
		entry.Data = masked
	default:
		entry.Data = map[string]any{}
	}
	return entry
}

// SanitizeEntries masks sensitive values for every entry in the slice.
func SanitizeEntries(mask *masker.Masker, entries []types.ActivityEntry) []types.ActivityEntry {
	if len(entries) == 0 {
		return entries
	}
	out := make([]types.ActivityEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, SanitizeEntry(mask, entry))
	}
	return out
}

func registerDefaultMaskFields(mask *masker.Masker) {
	if mask == nil {
		return
	}
	mask.RegisterMaskField("phone", "filled4")
	mask.RegisterMaskField("contactPhone", "filled4")
	mask.RegisterMaskField("secret", "filled4")
}
