// Package airouter selects an AI execution target for enhancement tasks,
// keeping monthly cloud spend under a configured budget. Local models are
// free; cloud models bill per token.
package airouter

import "errors"

var (
	// ErrNoCapableModel indicates the registry holds no enabled model of any
	// kind that satisfies the task's capability requirements. This is a
	// configuration error.
	ErrNoCapableModel = errors.New("no capable model in registry")

	// ErrBudgetExceeded indicates the monthly budget is exhausted and no
	// capable local model exists to downgrade to. The caller may defer the
	// task to the next billing period.
	ErrBudgetExceeded = errors.New("monthly AI budget exceeded")

	// ErrUnknownTask indicates the task type is not registered.
	ErrUnknownTask = errors.New("unknown task type")
)
