// Package kernel holds the value objects shared by the order and agent
// aggregates: identifiers, the acting principal of a request, and money rounding.
package kernel
