package domain

import "time"

// Entity type identifiers used by the ERP change log.
const (
	EntityTypePart     = 1
	EntityTypeCustomer = 2
)

// ChangeLogEntry is one row of the ERP's modification audit trail. Entries
// are consumed once, to produce a deduplicated set of entity IDs newer than
// a cutoff; nothing downstream depends on their order.
type ChangeLogEntry struct {
	EntityID     string
	EntityTypeID int
	ModifiedAt   time.Time
}
