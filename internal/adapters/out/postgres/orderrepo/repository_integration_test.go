package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var baseTime = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

// OrderRepositoryIntegrationTestSuite runs the repository against a real
// PostgreSQL so the versioned update and history table are exercised.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
	suite.repository = orderrepo.NewGormOrderRepository(suite.pg.DB)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := suite.T().Context()
	o := suite.createTestOrder("ORD-1")

	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.assertCount(&orderrepo.OrderDTO{}, 1)
	suite.assertCount(&orderrepo.StatusHistoryDTO{}, 1)
	suite.Empty(o.NewHistory(), "persisted history is no longer pending")
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_NotConstructed() {
	err := suite.repository.Add(suite.T().Context(), new(order.Order))

	suite.ErrorIs(err, order.ErrOrderIsNotConstructed)
	suite.assertCount(&orderrepo.OrderDTO{}, 0)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateOrderNumber() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder("ORD-1")))

	err := suite.repository.Add(ctx, suite.createTestOrder("ORD-1"))

	suite.Error(err)
	suite.assertCount(&orderrepo.OrderDTO{}, 1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(suite.T().Context(), kernel.NewUUID())

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTripsScalarState() {
	ctx := suite.T().Context()
	o := suite.createTestOrder("ORD-7")
	suite.Require().NoError(suite.repository.Add(ctx, o))

	stored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Equal(o.OrderNumber(), stored.OrderNumber())
	suite.Equal(o.ArtisanID(), stored.ArtisanID())
	suite.Equal(o.BuyerID(), stored.BuyerID())
	suite.True(o.TotalAmount().Equal(stored.TotalAmount()))
	suite.Equal(order.PaymentCompleted, stored.PaymentStatus())
	suite.Equal(o.Address(), stored.Address())
	suite.Equal(order.Pending, stored.Status())
	suite.Equal(int64(1), stored.Version())
	suite.WithinDuration(baseTime, stored.LastStatusChangeAt(), 0)
	suite.Require().Len(stored.History(), 1)
	suite.Equal(kernel.RoleBuyer, stored.History()[0].UpdatedByRole)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_AppendsHistoryAndBumpsVersion() {
	ctx := suite.T().Context()
	o := suite.createTestOrder("ORD-1")
	suite.Require().NoError(suite.repository.Add(ctx, o))

	artisan := suite.actor(o.ArtisanID(), kernel.RoleArtisan)
	suite.Require().NoError(o.UpdateStatus(order.Received, artisan, "on it", baseTime.Add(time.Minute)))
	suite.Require().NoError(o.UpdateStatus(order.Packed, artisan, "", baseTime.Add(2*time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, o))
	suite.Equal(int64(2), o.Version())

	stored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Packed, stored.Status())
	suite.Equal(int64(2), stored.Version())
	suite.Require().Len(stored.History(), 3)
	suite.Equal(order.Received, stored.History()[1].Status)
	suite.Equal("on it", stored.History()[1].Note)
	suite.Equal(order.Packed, stored.History()[2].Status)

	suite.Require().NoError(stored.ConfirmSelfShipping(artisan,
		order.SelfShipment{Carrier: "bluedart", TrackingNumber: "12345678"}, baseTime.Add(3*time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, stored))
	suite.assertCount(&orderrepo.StatusHistoryDTO{}, 4)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersionConflicts() {
	ctx := suite.T().Context()
	o := suite.createTestOrder("ORD-1")
	suite.Require().NoError(suite.repository.Add(ctx, o))

	first, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	artisan := suite.actor(o.ArtisanID(), kernel.RoleArtisan)
	suite.Require().NoError(first.UpdateStatus(order.Received, artisan, "", baseTime))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.Cancel(artisan, "out of stock", baseTime))
	err = suite.repository.Update(ctx, second)

	var conflict *errs.ConflictError
	suite.Require().ErrorAs(err, &conflict)
	suite.Equal(int64(1), conflict.Expected)
	suite.Equal(int64(2), conflict.Actual)
	suite.ErrorIs(err, errs.ErrConflict)

	stored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Received, stored.Status())
	suite.Len(stored.History(), 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_MissingOrder() {
	o := suite.createTestOrder("ORD-1")

	err := suite.repository.Update(suite.T().Context(), o)

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsSelfShippingAndCancellation() {
	ctx := suite.T().Context()
	shipped := suite.createTestOrder("ORD-1")
	cancelled := suite.createTestOrder("ORD-2")
	suite.Require().NoError(suite.repository.Add(ctx, shipped))
	suite.Require().NoError(suite.repository.Add(ctx, cancelled))

	artisan := suite.actor(shipped.ArtisanID(), kernel.RoleArtisan)
	suite.Require().NoError(shipped.UpdateStatus(order.Received, artisan, "", baseTime))
	suite.Require().NoError(shipped.UpdateStatus(order.Packed, artisan, "", baseTime))
	eta := baseTime.Add(72 * time.Hour)
	suite.Require().NoError(shipped.ConfirmSelfShipping(artisan, order.SelfShipment{
		Carrier:           "india_post",
		TrackingNumber:    "EE123456789IN",
		EstimatedDelivery: &eta,
	}, baseTime))
	suite.Require().NoError(suite.repository.Update(ctx, shipped))

	other := suite.actor(cancelled.ArtisanID(), kernel.RoleArtisan)
	suite.Require().NoError(cancelled.Cancel(other, "buyer asked", baseTime))
	suite.Require().NoError(suite.repository.Update(ctx, cancelled))

	storedShipped, err := suite.repository.Get(ctx, shipped.ID())
	suite.Require().NoError(err)
	suite.Equal(order.ShippingMethodSelfShip, storedShipped.ShippingMethod())
	details := storedShipped.ShippingDetails()
	suite.Equal("india_post", details.Carrier)
	suite.Equal("EE123456789IN", details.TrackingNumber)
	suite.Require().NotNil(details.EstimatedDelivery)
	suite.WithinDuration(eta, *details.EstimatedDelivery, 0)

	storedCancelled, err := suite.repository.Get(ctx, cancelled.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, storedCancelled.Status())
	suite.Require().NotNil(storedCancelled.Cancellation())
	suite.Equal("buyer asked", storedCancelled.Cancellation().Reason)
	suite.Require().NotNil(storedCancelled.Cancellation().RefundStatus)
	suite.Equal(order.RefundPending, *storedCancelled.Cancellation().RefundStatus)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAssignmentRoundTrip() {
	ctx := suite.T().Context()
	o := suite.pickupOrder("ORD-1")
	suite.Require().NoError(suite.repository.Add(ctx, o))

	admin := suite.actor(kernel.NewUUID(), kernel.RoleAdmin)
	agentID := kernel.NewUUID()
	candidate := order.AgentCandidate{ID: agentID, Name: "Ravi", Phone: "+91-9000000000", Rating: 4.5}

	suite.Require().NoError(o.BroadcastPickupRequest(admin,
		order.BroadcastTargets{PinCodes: []string{"560001"}},
		[]kernel.UUID{agentID}, "fragile", baseTime))
	suite.Require().NoError(o.ExpressInterest(candidate, baseTime.Add(time.Minute)))
	suite.Require().NoError(o.AssignAgent(admin, candidate, "", baseTime.Add(2*time.Minute)))
	agentActor := suite.actor(agentID, kernel.RoleShippingAgent)
	suite.Require().NoError(o.AcceptDelivery(agentActor, decimal.RequireFromString("100.00"), baseTime.Add(3*time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	stored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	assigned, ok := stored.AssignedAgentID()
	suite.Require().True(ok)
	suite.Equal(agentID, assigned)

	details := stored.ShippingDetails()
	suite.Require().NotNil(details.Broadcast)
	suite.Equal("fragile", details.Broadcast.Note)
	suite.Equal([]string{"560001"}, details.Broadcast.TargetPinCodes)
	suite.Equal([]kernel.UUID{agentID}, details.Broadcast.TargetedAgentIDs)
	suite.Require().Len(details.Broadcast.InterestedAgents, 1)
	suite.Equal("Ravi", details.Broadcast.InterestedAgents[0].Name)

	suite.Require().NotNil(details.Assignment)
	suite.True(details.Assignment.IsAccepted())
	suite.Require().NotNil(details.Assignment.Commission)
	suite.True(decimal.NewFromInt(100).Equal(*details.Assignment.Commission))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListOpenPickupRequests() {
	ctx := suite.T().Context()
	older := suite.pickupOrder("ORD-1")
	newer := suite.pickupOrderAt("ORD-2", baseTime.Add(time.Hour))
	assigned := suite.pickupOrder("ORD-3")
	pending := suite.createTestOrder("ORD-4")

	admin := suite.actor(kernel.NewUUID(), kernel.RoleAdmin)
	suite.Require().NoError(assigned.AssignAgent(admin,
		order.AgentCandidate{ID: kernel.NewUUID(), Name: "Meena"}, "", baseTime))

	for _, o := range []*order.Order{older, newer, assigned, pending} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	open, err := suite.repository.ListOpenPickupRequests(ctx)
	suite.Require().NoError(err)

	suite.Require().Len(open, 2)
	suite.Equal(newer.ID(), open[0].ID())
	suite.Equal(older.ID(), open[1].ID())
	suite.Len(open[0].History(), 4, "history is loaded for listed orders")
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListOpenPickupRequests_Empty() {
	open, err := suite.repository.ListOpenPickupRequests(suite.T().Context())

	suite.Require().NoError(err)
	suite.NotNil(open)
	suite.Empty(open)
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(number string) *order.Order {
	o, err := order.NewOrder(
		kernel.NewUUID(),
		number,
		kernel.NewUUID(),
		kernel.NewUUID(),
		decimal.RequireFromString("1250.50"),
		order.PaymentCompleted,
		order.Address{
			Name:     "Asha",
			Phone:    "+91-9800000000",
			Street:   "12 MG Road",
			City:     "Bengaluru",
			District: "Bengaluru Urban",
			State:    "Karnataka",
			PinCode:  "560001",
		},
		baseTime,
	)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) pickupOrder(number string) *order.Order {
	return suite.pickupOrderAt(number, baseTime)
}

func (suite *OrderRepositoryIntegrationTestSuite) pickupOrderAt(number string, at time.Time) *order.Order {
	o := suite.createTestOrder(number)
	artisan := suite.actor(o.ArtisanID(), kernel.RoleArtisan)
	for _, s := range []order.Status{order.Received, order.Packed, order.PickupRequested} {
		suite.Require().NoError(o.UpdateStatus(s, artisan, "", at))
	}
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) actor(id kernel.UUID, role kernel.Role) kernel.Actor {
	a, err := kernel.NewActor(id, role)
	suite.Require().NoError(err)
	return a
}

func (suite *OrderRepositoryIntegrationTestSuite) assertCount(model any, expected int64) {
	var count int64
	suite.Require().NoError(suite.pg.DB.Model(model).Count(&count).Error)
	suite.Equal(expected, count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
