package errs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrAuthorization       = errors.New("access denied")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrWindowExpired       = errors.New("status modification window expired")
	ErrTerminalState       = errors.New("order is in a terminal state")
	ErrNoHistory           = errors.New("no previous status to revert to")
	ErrAlreadyInterested   = errors.New("agent already expressed interest")
	ErrAlreadyAccepted     = errors.New("delivery already accepted")
	ErrAlreadyAssigned     = errors.New("order already assigned")
	ErrNotAssignedAgent    = errors.New("not the assigned agent")
	ErrConflict            = errors.New("concurrent modification")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrBelowMinimumPayout  = errors.New("payout below minimum")
	ErrUnexpectedStatus    = errors.New("order is not in the required status")
	ErrNotAccepted         = errors.New("delivery not accepted")
	ErrShippingMethod      = errors.New("shipping method does not allow this operation")
)

// AuthorizationError reports an actor acting on an order it does not own or serve.
type AuthorizationError struct {
	ActorID string
	Role    string
	Reason  string
}

func NewAuthorizationError(actorID, role, reason string) *AuthorizationError {
	return &AuthorizationError{ActorID: actorID, Role: role, Reason: reason}
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", ErrAuthorization, e.Role, e.ActorID, e.Reason)
}

func (e *AuthorizationError) Unwrap() error {
	return ErrAuthorization
}

// InvalidTransitionError carries the statuses reachable from From so clients can display them.
type InvalidTransitionError struct {
	From    string
	To      string
	Allowed []string
}

func NewInvalidTransitionError(from, to string, allowed []string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Allowed: allowed}
}

func (e *InvalidTransitionError) Error() string {
	allowed := "none"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	return fmt.Sprintf("%s: cannot move from %s to %s (allowed: %s)", ErrInvalidTransition, e.From, e.To, allowed)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

type WindowExpiredError struct {
	LastChangeAt time.Time
	Window       time.Duration
}

func NewWindowExpiredError(lastChangeAt time.Time, window time.Duration) *WindowExpiredError {
	return &WindowExpiredError{LastChangeAt: lastChangeAt, Window: window}
}

func (e *WindowExpiredError) Error() string {
	return fmt.Sprintf("%s: last change at %s, window is %s",
		ErrWindowExpired, e.LastChangeAt.UTC().Format(time.RFC3339), e.Window)
}

func (e *WindowExpiredError) Unwrap() error {
	return ErrWindowExpired
}

type TerminalStateError struct {
	Status string
}

func NewTerminalStateError(status string) *TerminalStateError {
	return &TerminalStateError{Status: status}
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTerminalState, e.Status)
}

func (e *TerminalStateError) Unwrap() error {
	return ErrTerminalState
}

type NoHistoryError struct {
	OrderID string
	Entries int
}

func NewNoHistoryError(orderID string, entries int) *NoHistoryError {
	return &NoHistoryError{OrderID: orderID, Entries: entries}
}

func (e *NoHistoryError) Error() string {
	return fmt.Sprintf("%s: order %s has %d history entries", ErrNoHistory, e.OrderID, e.Entries)
}

func (e *NoHistoryError) Unwrap() error {
	return ErrNoHistory
}

type AlreadyInterestedError struct {
	OrderID string
	AgentID string
}

func NewAlreadyInterestedError(orderID, agentID string) *AlreadyInterestedError {
	return &AlreadyInterestedError{OrderID: orderID, AgentID: agentID}
}

func (e *AlreadyInterestedError) Error() string {
	return fmt.Sprintf("%s: agent %s on order %s", ErrAlreadyInterested, e.AgentID, e.OrderID)
}

func (e *AlreadyInterestedError) Unwrap() error {
	return ErrAlreadyInterested
}

type AlreadyAcceptedError struct {
	OrderID    string
	AcceptedAt time.Time
}

func NewAlreadyAcceptedError(orderID string, acceptedAt time.Time) *AlreadyAcceptedError {
	return &AlreadyAcceptedError{OrderID: orderID, AcceptedAt: acceptedAt}
}

func (e *AlreadyAcceptedError) Error() string {
	return fmt.Sprintf("%s: order %s at %s", ErrAlreadyAccepted, e.OrderID, e.AcceptedAt.UTC().Format(time.RFC3339))
}

func (e *AlreadyAcceptedError) Unwrap() error {
	return ErrAlreadyAccepted
}

type AlreadyAssignedError struct {
	OrderID string
	AgentID string
}

func NewAlreadyAssignedError(orderID, agentID string) *AlreadyAssignedError {
	return &AlreadyAssignedError{OrderID: orderID, AgentID: agentID}
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("%s: order %s is assigned to agent %s", ErrAlreadyAssigned, e.OrderID, e.AgentID)
}

func (e *AlreadyAssignedError) Unwrap() error {
	return ErrAlreadyAssigned
}

// NotAssignedAgentError reports an agent acting on a delivery held by someone else.
type NotAssignedAgentError struct {
	OrderID string
	AgentID string
}

func NewNotAssignedAgentError(orderID, agentID string) *NotAssignedAgentError {
	return &NotAssignedAgentError{OrderID: orderID, AgentID: agentID}
}

func (e *NotAssignedAgentError) Error() string {
	return fmt.Sprintf("%s: agent %s is not assigned to order %s", ErrNotAssignedAgent, e.AgentID, e.OrderID)
}

func (e *NotAssignedAgentError) Unwrap() error {
	return ErrNotAssignedAgent
}

// ConflictError reports a stale write: the stored version moved past the expected one.
type ConflictError struct {
	Aggregate string
	ID        string
	Expected  int64
	Actual    int64
}

func NewConflictError(aggregate, id string, expected, actual int64) *ConflictError {
	return &ConflictError{Aggregate: aggregate, ID: id, Expected: expected, Actual: actual}
}

func (e *ConflictError) Error() string {
	if e.Actual == 0 {
		return fmt.Sprintf("%s: %s %s, expected version %d", ErrConflict, e.Aggregate, e.ID, e.Expected)
	}
	return fmt.Sprintf("%s: %s %s, expected version %d, actual %d",
		ErrConflict, e.Aggregate, e.ID, e.Expected, e.Actual)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

type InsufficientBalanceError struct {
	Balance   string
	Requested string
}

func NewInsufficientBalanceError(balance, requested string) *InsufficientBalanceError {
	return &InsufficientBalanceError{Balance: balance, Requested: requested}
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: balance %s, requested %s", ErrInsufficientBalance, e.Balance, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

type BelowMinimumPayoutError struct {
	Requested string
	Minimum   string
}

func NewBelowMinimumPayoutError(requested, minimum string) *BelowMinimumPayoutError {
	return &BelowMinimumPayoutError{Requested: requested, Minimum: minimum}
}

func (e *BelowMinimumPayoutError) Error() string {
	return fmt.Sprintf("%s: requested %s, minimum %s", ErrBelowMinimumPayout, e.Requested, e.Minimum)
}

func (e *BelowMinimumPayoutError) Unwrap() error {
	return ErrBelowMinimumPayout
}

// UnexpectedStatusError reports an operation that needs the order in one of
// Expected statuses.
type UnexpectedStatusError struct {
	OrderID  string
	Actual   string
	Expected []string
}

func NewUnexpectedStatusError(orderID, actual string, expected ...string) *UnexpectedStatusError {
	return &UnexpectedStatusError{OrderID: orderID, Actual: actual, Expected: expected}
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%s: order %s is %s, expected %s",
		ErrUnexpectedStatus, e.OrderID, e.Actual, strings.Join(e.Expected, " or "))
}

func (e *UnexpectedStatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

type NotAcceptedError struct {
	OrderID string
	AgentID string
}

func NewNotAcceptedError(orderID, agentID string) *NotAcceptedError {
	return &NotAcceptedError{OrderID: orderID, AgentID: agentID}
}

func (e *NotAcceptedError) Error() string {
	return fmt.Sprintf("%s: agent %s has not accepted order %s", ErrNotAccepted, e.AgentID, e.OrderID)
}

func (e *NotAcceptedError) Unwrap() error {
	return ErrNotAccepted
}

// ShippingMethodError reports an order shipped one way being handled as the other.
type ShippingMethodError struct {
	OrderID  string
	Actual   string
	Required string
}

func NewShippingMethodError(orderID, actual, required string) *ShippingMethodError {
	return &ShippingMethodError{OrderID: orderID, Actual: actual, Required: required}
}

func (e *ShippingMethodError) Error() string {
	actual := e.Actual
	if actual == "" {
		actual = "unset"
	}
	return fmt.Sprintf("%s: order %s ships via %s, requires %s", ErrShippingMethod, e.OrderID, actual, e.Required)
}

func (e *ShippingMethodError) Unwrap() error {
	return ErrShippingMethod
}
