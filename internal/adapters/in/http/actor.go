package http

import (
	"net/http"
	"strconv"
	"strings"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Authentication happens upstream. The gateway forwards the caller as
// headers.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"

	actorContextKey = "actor"
)

func (s *Server) actorMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		rawID := strings.TrimSpace(c.Request().Header.Get(HeaderActorID))
		rawRole := strings.TrimSpace(c.Request().Header.Get(HeaderActorRole))
		if rawID == "" || rawRole == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing actor headers")
		}

		id, err := kernel.ParseUUID(rawID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid actor id")
		}
		actor, err := kernel.NewActor(id, kernel.Role(rawRole))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid actor role")
		}

		req := c.Request()
		ctx := s.log.WithActor(req.Context(), actor.ID().String(), string(actor.Role()))
		c.SetRequest(req.WithContext(ctx))
		c.Set(actorContextKey, actor)
		return next(c)
	}
}

func actorFrom(c echo.Context) kernel.Actor {
	actor, _ := c.Get(actorContextKey).(kernel.Actor)
	return actor
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.ParseUUID(c.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// versionOptions turns an If-Match header into an expected version. Both
// `3` and the quoted ETag form `"3"` are accepted.
func versionOptions(c echo.Context) ([]commands.Option, error) {
	raw := strings.TrimSpace(c.Request().Header.Get("If-Match"))
	if raw == "" || raw == "*" {
		return nil, nil
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("If-Match", err)
	}
	return []commands.Option{commands.WithExpectedVersion(version)}, nil
}

// orderRequest extracts what every order command needs.
func orderRequest(c echo.Context) (kernel.UUID, kernel.Actor, []commands.Option, error) {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return kernel.UUID{}, kernel.Actor{}, nil, err
	}
	opts, err := versionOptions(c)
	if err != nil {
		return kernel.UUID{}, kernel.Actor{}, nil, err
	}
	return orderID, actorFrom(c), opts, nil
}
