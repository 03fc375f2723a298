// Package visibility evaluates the show and hide conditions attached to form
// questions. Evaluation is synchronous and pure: callers recompute the visible
// set with Evaluator.VisibleSet after every answer mutation.
package visibility
