// Package pricing implements the rule-based sale price engine.
// Rule selection and price computation are pure functions over an immutable
// rule snapshot; nothing here performs I/O.
package pricing

import "errors"

// Error categories for price computation.
var (
	// ErrNoMatchingRule indicates no active rule matched and no fallback rule
	// exists. This is a configuration error: every deployment should seed an
	// empty-condition fallback rule.
	ErrNoMatchingRule = errors.New("no matching pricing rule")

	// ErrInvalidCost indicates the product cost is zero or negative.
	// The product is rejected; other products keep flowing.
	ErrInvalidCost = errors.New("invalid product cost")

	// ErrMarginConfiguration indicates margin rate plus fee rates reach or
	// exceed 1, which would imply an infinite or negative price.
	ErrMarginConfiguration = errors.New("margin and fee rates must sum below 1")
)
