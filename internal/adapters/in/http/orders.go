package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// GetStatusHistory handles GET /orders/:id/history.
func (s *Server) GetStatusHistory(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	q, err := queries.NewGetStatusHistoryQuery(orderID, actorFrom(c))
	if err != nil {
		return err
	}
	resp, err := s.h.GetStatusHistory.Handle(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHistoryResponse(resp))
}

// UpdateOrderStatus handles PATCH /orders/:id/status.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	var req UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, actor, status, req.Note, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.UpdateOrderStatus.Handle(c.Request().Context(), cmd))
}

func (s *Server) MarkAsReceived(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewMarkAsReceivedCommand(orderID, actor, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.UpdateOrderStatus.Handle(c.Request().Context(), cmd))
}

func (s *Server) MarkAsPacked(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewMarkAsPackedCommand(orderID, actor, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.UpdateOrderStatus.Handle(c.Request().Context(), cmd))
}

func (s *Server) RequestPickupAgent(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	var req NoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewRequestPickupAgentCommand(orderID, actor, req.Note, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.UpdateOrderStatus.Handle(c.Request().Context(), cmd))
}

func (s *Server) ConfirmSelfShipping(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	var req ConfirmSelfShippingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewConfirmSelfShippingCommand(
		orderID, actor, req.Carrier, req.TrackingNumber, req.EstimatedDelivery, req.Note, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.ConfirmSelfShipping.Handle(c.Request().Context(), cmd))
}

func (s *Server) MarkAsDelivered(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	var req MarkAsDeliveredRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewMarkAsDeliveredCommand(orderID, actor, req.Note, req.Signature, req.ConfirmedBy, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.MarkAsDelivered.Handle(c.Request().Context(), cmd))
}

func (s *Server) CancelOrder(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	var req ReasonRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewCancelOrderCommand(orderID, actor, req.Reason, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.CancelOrder.Handle(c.Request().Context(), cmd))
}

func (s *Server) AddStatusNote(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	var req RequiredNoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewAddStatusNoteCommand(orderID, actor, req.Note, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.AddStatusNote.Handle(c.Request().Context(), cmd))
}

func (s *Server) RevertOrderStatus(c echo.Context) error {
	orderID, actor, opts, err := orderRequest(c)
	if err != nil {
		return err
	}
	var req ReasonRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewRevertOrderStatusCommand(orderID, actor, req.Reason, opts...)
	if err != nil {
		return err
	}
	return s.noContent(c, s.h.RevertOrderStatus.Handle(c.Request().Context(), cmd))
}

func (s *Server) noContent(c echo.Context, err error) error {
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
