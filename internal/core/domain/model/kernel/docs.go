// Package kernel contains shared value objects used across the domain model:
// entity identifiers, geographic coordinates, and the generators for tracking
// codes and public tracking tokens. All types here are immutable and must be
// created through their constructor functions.
package kernel
