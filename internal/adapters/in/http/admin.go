package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func (s *Server) OverrideOrderStatus(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	var req OverrideStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	cmd, err := commands.NewOverrideOrderStatusCommand(orderID, actor, status, req.Reason, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.OverrideOrderStatus.Handle(c.Request().Context(), cmd))
}

// BroadcastPickupRequest handles POST /admin/orders/:id/broadcast and
// returns the agents that were notified.
func (s *Server) BroadcastPickupRequest(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	var req BroadcastRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	targets := order.BroadcastTargets{PinCodes: req.PinCodes, District: req.District}
	for _, raw := range req.AgentIDs {
		id, err := kernel.ParseUUID(raw)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("agentIds", err)
		}
		targets.AgentIDs = append(targets.AgentIDs, id)
	}

	cmd, err := commands.NewBroadcastPickupRequestCommand(orderID, actor, targets, req.Note, opts...)
	if err != nil {
		return err
	}
	res, err := s.h.BroadcastPickupRequest.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BroadcastResponse{Count: res.Count, Agents: toCandidates(res.Agents)})
}

func (s *Server) AssignAgent(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	var req AssignAgentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	agentID, err := kernel.ParseUUID(req.AgentID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("agentId", err)
	}
	cmd, err := commands.NewAssignAgentCommand(orderID, actor, agentID, req.Note, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.AssignAgent.Handle(c.Request().Context(), cmd))
}

func (s *Server) ActivateAgent(c echo.Context) error {
	return s.setAgentActive(c, true)
}

func (s *Server) DeactivateAgent(c echo.Context) error {
	return s.setAgentActive(c, false)
}

func (s *Server) setAgentActive(c echo.Context, active bool) error {
	agentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewSetAgentActiveCommand(agentID, actorFrom(c), active)
	if err != nil {
		return err
	}
	res, err := s.h.SetAgentActive.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	pins := res.PinCodes
	if pins == nil {
		pins = []string{}
	}
	return c.JSON(http.StatusOK, AgentAvailabilityResponse{
		ID:       res.AgentID.String(),
		Name:     res.Name,
		Active:   res.Active,
		Eligible: res.Eligible,
		PinCodes: pins,
	})
}
