package services

import (
	"regexp"
	"slices"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/order"
)

// AgentMatcher resolves the audience of a pickup broadcast. Explicit agent
// ids win over pin codes, pin codes over district, and no targeting selects
// every eligible agent. Ineligible agents are always dropped.
type AgentMatcher struct{}

func NewAgentMatcher() AgentMatcher {
	return AgentMatcher{}
}

func (AgentMatcher) Resolve(targets order.BroadcastTargets, agents []*agent.Agent) []*agent.Agent {
	var match func(*agent.Agent) bool

	switch {
	case len(targets.AgentIDs) > 0:
		match = func(a *agent.Agent) bool {
			return slices.ContainsFunc(targets.AgentIDs, a.ID().IsEqual)
		}
	case len(targets.PinCodes) > 0:
		match = func(a *agent.Agent) bool {
			return a.ServesAnyPinCode(targets.PinCodes)
		}
	case targets.District != "":
		pattern := DistrictPattern(targets.District)
		match = func(a *agent.Agent) bool {
			return a.ServesDistrict(pattern)
		}
	default:
		match = func(*agent.Agent) bool { return true }
	}

	resolved := make([]*agent.Agent, 0, len(agents))
	for _, a := range agents {
		if a.Validate() != nil || !a.IsEligible() {
			continue
		}
		if match(a) {
			resolved = append(resolved, a)
		}
	}
	return resolved
}

// DistrictPattern matches district as a case-insensitive literal substring.
func DistrictPattern(district string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(district))
}
