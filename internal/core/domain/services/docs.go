// Package services holds domain logic that spans the order and agent
// aggregates: commission pricing, broadcast audience resolution and the
// rule deciding which pickup requests an agent may see.
package services
