package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// GetAvailableOpportunities handles GET /agent/opportunities.
func (s *Server) GetAvailableOpportunities(c echo.Context) error {
	q, err := queries.NewGetAvailableOpportunitiesQuery(actorFrom(c), queries.OpportunityFilters{
		PinCode:  c.QueryParam("pinCode"),
		District: c.QueryParam("district"),
	})
	if err != nil {
		return err
	}
	ops, err := s.h.GetAvailableOpportunities.Handle(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOpportunityResponses(ops))
}

func (s *Server) ExpressInterest(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewExpressInterestCommand(orderID, actor, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.ExpressInterest.Handle(c.Request().Context(), cmd))
}

func (s *Server) AcceptDelivery(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAcceptDeliveryCommand(orderID, actor, opts...)
	if err != nil {
		return err
	}
	commission, err := s.h.AcceptDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AcceptResponse{Commission: commission.StringFixed(2)})
}

func (s *Server) ConfirmPickup(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	var req PickupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewConfirmPickupCommand(orderID, actor, order.PickupProof{Note: req.Note, Image: req.Image}, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.ConfirmPickup.Handle(c.Request().Context(), cmd))
}

func (s *Server) CompleteDelivery(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	var req CompleteDeliveryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	proof := order.DeliveryProof{Note: req.Note, Image: req.Image, Signature: req.Signature, OTP: req.OTP}
	cmd, err := commands.NewCompleteDeliveryCommand(orderID, actor, proof, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.CompleteDelivery.Handle(c.Request().Context(), cmd))
}

// RequestPayout handles POST /agent/payouts. The amount travels as a
// decimal string so no precision is lost in JSON.
func (s *Server) RequestPayout(c echo.Context) error {
	var req PayoutRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	amount, err := kernel.ParseAmount("amount", req.Amount)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRequestPayoutCommand(actorFrom(c), amount)
	if err != nil {
		return err
	}
	id, err := s.h.RequestPayout.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, PayoutResponse{PayoutID: id.String()})
}
