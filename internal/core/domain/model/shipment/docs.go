// Package shipment contains the Shipment aggregate, its Status state machine
// and the immutable Event audit record.
//
// The state machine is the single source of truth for admissible status
// moves; the aggregate's TransitionTo enforces it and maintains the derived
// timestamps. Every successful transition is paired with exactly one Event,
// forming an append-only, gap-free audit trail.
package shipment
