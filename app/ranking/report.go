package ranking

import (
	"time"
)

// Assemble packages per-brand reports into the final served structure.
// Pure aggregation: brand input order is preserved.
func Assemble(runID string, generatedAt time.Time, brands []BrandReport) Report {
	return Report{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Brands:      brands,
	}
}
