// Package splitter implements the traffic split between the two user-service
// versions (strangler migration). Every request is an independent draw, so
// the realized ratio converges to the configured percentage only across many
// requests; that keeps the gateway stateless and safe to run in parallel.
package splitter

import "math/rand"

// Variant identifies which user-service version a request is routed to.
type Variant string

const (
	VariantV1 Variant = "v1"
	VariantV2 Variant = "v2"
)

// Decision is the outcome of one routing draw.
type Decision struct {
	Target  string
	Variant Variant
}

// Choose draws a uniform integer in [0,99] and returns VariantV1 when the
// draw is strictly below v1Percent. v1Percent of 0 never selects v1;
// 100 always does.
func Choose(v1Percent int) Variant {
	if rand.Intn(100) < v1Percent {
		return VariantV1
	}
	return VariantV2
}

// Pick resolves a draw into the base URL to forward to.
func Pick(v1Percent int, v1URL, v2URL string) Decision {
	if Choose(v1Percent) == VariantV1 {
		return Decision{Target: v1URL, Variant: VariantV1}
	}
	return Decision{Target: v2URL, Variant: VariantV2}
}
