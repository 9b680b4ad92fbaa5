// Package engine implements pattern-based PII entity detection and the
// operators that transform detected spans.
package engine

import "regexp"

// Entity type labels shared between detection requests, recognizers, and
// operator mappings.
const (
	EntityEmail       = "EMAIL_ADDRESS"
	EntityPhone       = "PHONE_NUMBER"
	EntityAadhaar     = "AADHAAR"
	EntityPerson      = "PERSON"
	EntityPAN         = "PAN"
	EntityIPAddress   = "IP_ADDRESS"
	EntityBankAccount = "BANK_ACCOUNT"
	EntityCreditCard  = "CREDIT_CARD"
	EntityLocation    = "LOCATION"
	EntityDateTime    = "DATE_TIME"
)

// DefaultOperatorKey is the reserved operator-mapping key supplying the
// fallback operator for entity types without an explicit mapping.
const DefaultOperatorKey = "DEFAULT"

// TokenLength is the number of hex characters kept from a hash digest.
// 16 characters of SHA-256 keep collision probability negligible for the
// data volumes this tool targets.
const TokenLength = 16

// Rule is a single compiled detection rule
type Rule struct {
	Name         string
	Entity       string
	Pattern      *regexp.Regexp
	Score        float64
	Context      []string
	ValidateLuhn bool
}

// Detection locates one entity occurrence inside a specific text
type Detection struct {
	Entity string  `json:"entity"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Score  float64 `json:"score"`
}

// Operator kinds applied to detected spans.
const (
	OperatorHash    = "hash"
	OperatorReplace = "replace"
)

// Operator describes the transform for one entity type
type Operator struct {
	Type     string
	NewValue string
}
