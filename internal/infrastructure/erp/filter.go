package erp

import (
	"fmt"
	"strings"
	"time"
)

// activePartPredicate restricts catalog fetches to parts inside the active
// status band and not blocked. Every catalog query applies it; callers
// never see parts outside this band.
const activePartPredicate = "Status ge 1 and Status le 6 and Blocked eq false"

// andAll joins non-empty predicates with "and".
func andAll(predicates ...string) string {
	parts := predicates[:0]
	for _, p := range predicates {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " and ")
}

// eq builds a quoted string-equality predicate.
func eq(field, value string) string {
	return fmt.Sprintf("%s eq '%s'", field, strings.ReplaceAll(value, "'", "''"))
}

// anyOf builds a parenthesized disjunction of equality predicates over the
// given values. The remote enforces a maximum query length; keeping the
// value batch small enough is the caller's responsibility.
func anyOf(field string, values []string) string {
	clauses := make([]string, 0, len(values))
	for _, v := range values {
		clauses = append(clauses, eq(field, v))
	}
	return "(" + strings.Join(clauses, " or ") + ")"
}

// modifiedAfter builds a timestamp lower-bound predicate.
func modifiedAfter(field string, t time.Time) string {
	return fmt.Sprintf("%s gt %s", field, t.UTC().Format(time.RFC3339))
}
