package friendship

import (
	"filmsocial/backend/internal/apperr"
	"filmsocial/backend/internal/models"
)

// Operation is an action one user takes on the edge to another.
type Operation string

const (
	OpRequest  Operation = "request"
	OpAccept   Operation = "accept"
	OpBlock    Operation = "block"
	OpUnblock  Operation = "unblock"
	OpUnfriend Operation = "unfriend"
)

// Operations lists every operation the state machine accepts.
var Operations = []Operation{OpRequest, OpAccept, OpBlock, OpUnblock, OpUnfriend}

// statusAbsent stands for "no record" in the transition table.
const statusAbsent models.FriendshipStatus = ""

var statuses = []models.FriendshipStatus{statusAbsent, models.StatusRequested, models.StatusAccepted, models.StatusBlocked}

// role is the acting user's position on the existing edge.
type role int

const (
	roleNone role = iota
	roleInitiator
	roleRecipient
)

type orientation int

const (
	keep orientation = iota
	actorInitiates
	targetInitiates
)

type effect int

const (
	effectNone effect = iota
	effectCreate
	effectUpdate
	effectDelete
)

var (
	ErrSelfTarget         = apperr.Validation("a user cannot target themselves")
	ErrRequestAlreadySent = apperr.AlreadyExists("request already sent")
	ErrAlreadyFriends     = apperr.AlreadyExists("already friends")
	ErrBlockedByTarget    = apperr.AccessDenied("cannot send request to a user who blocked you")
	ErrYouBlockedTarget   = apperr.AccessDenied("unblock the user before sending a request")
	ErrRequestNotFound    = apperr.NotFound("friend request not found")
	ErrInvalidRequest     = apperr.IllegalState("invalid request")
	ErrBlockAdmin         = apperr.IllegalState("cannot block an administrator")
	ErrNotBlocker         = apperr.IllegalState("only the blocker may remove the block")
	ErrFriendshipNotFound = apperr.NotFound("friendship not found")
	ErrNotFriends         = apperr.IllegalState("not friends")
)

type key struct {
	status models.FriendshipStatus
	op     Operation
	role   role
}

type transition struct {
	next   models.FriendshipStatus
	orient orientation
	effect effect
	err    error
}

func fail(err error) transition { return transition{err: err} }

func noop() transition { return transition{effect: effectNone} }

func update(next models.FriendshipStatus, o orientation) transition {
	return transition{next: next, orient: o, effect: effectUpdate}
}

// table is the complete state machine. Every (status, operation, role)
// reachable from a stored edge has exactly one entry.
var table = map[key]transition{
	// No record between the pair.
	{statusAbsent, OpRequest, roleNone}:  {next: models.StatusRequested, orient: actorInitiates, effect: effectCreate},
	{statusAbsent, OpAccept, roleNone}:   fail(ErrRequestNotFound),
	{statusAbsent, OpBlock, roleNone}:    {next: models.StatusBlocked, orient: actorInitiates, effect: effectCreate},
	{statusAbsent, OpUnblock, roleNone}:  noop(),
	{statusAbsent, OpUnfriend, roleNone}: fail(ErrFriendshipNotFound),

	// Pending request, doubling as a one-way follow.
	{models.StatusRequested, OpRequest, roleInitiator}:  fail(ErrRequestAlreadySent),
	{models.StatusRequested, OpRequest, roleRecipient}:  update(models.StatusAccepted, keep),
	{models.StatusRequested, OpAccept, roleInitiator}:   fail(ErrInvalidRequest),
	{models.StatusRequested, OpAccept, roleRecipient}:   update(models.StatusAccepted, keep),
	{models.StatusRequested, OpBlock, roleInitiator}:    update(models.StatusBlocked, keep),
	{models.StatusRequested, OpBlock, roleRecipient}:    update(models.StatusBlocked, actorInitiates),
	{models.StatusRequested, OpUnblock, roleInitiator}:  noop(),
	{models.StatusRequested, OpUnblock, roleRecipient}:  noop(),
	{models.StatusRequested, OpUnfriend, roleInitiator}: fail(ErrNotFriends),
	{models.StatusRequested, OpUnfriend, roleRecipient}: fail(ErrNotFriends),

	// Mutual friends.
	{models.StatusAccepted, OpRequest, roleInitiator}:  fail(ErrAlreadyFriends),
	{models.StatusAccepted, OpRequest, roleRecipient}:  fail(ErrAlreadyFriends),
	{models.StatusAccepted, OpAccept, roleInitiator}:   fail(ErrInvalidRequest),
	{models.StatusAccepted, OpAccept, roleRecipient}:   fail(ErrInvalidRequest),
	{models.StatusAccepted, OpBlock, roleInitiator}:    update(models.StatusBlocked, keep),
	{models.StatusAccepted, OpBlock, roleRecipient}:    update(models.StatusBlocked, actorInitiates),
	{models.StatusAccepted, OpUnblock, roleInitiator}:  noop(),
	{models.StatusAccepted, OpUnblock, roleRecipient}:  noop(),
	{models.StatusAccepted, OpUnfriend, roleInitiator}: update(models.StatusRequested, targetInitiates),
	{models.StatusAccepted, OpUnfriend, roleRecipient}: update(models.StatusRequested, keep),

	// Initiator blocked recipient.
	{models.StatusBlocked, OpRequest, roleInitiator}:  fail(ErrYouBlockedTarget),
	{models.StatusBlocked, OpRequest, roleRecipient}:  fail(ErrBlockedByTarget),
	{models.StatusBlocked, OpAccept, roleInitiator}:   fail(ErrInvalidRequest),
	{models.StatusBlocked, OpAccept, roleRecipient}:   fail(ErrInvalidRequest),
	{models.StatusBlocked, OpBlock, roleInitiator}:    update(models.StatusBlocked, keep),
	{models.StatusBlocked, OpBlock, roleRecipient}:    update(models.StatusBlocked, actorInitiates),
	{models.StatusBlocked, OpUnblock, roleInitiator}:  {effect: effectDelete},
	{models.StatusBlocked, OpUnblock, roleRecipient}:  fail(ErrNotBlocker),
	{models.StatusBlocked, OpUnfriend, roleInitiator}: fail(ErrNotFriends),
	{models.StatusBlocked, OpUnfriend, roleRecipient}: fail(ErrNotFriends),
}

// keyFor derives the table key for actor operating on current (nil when absent).
func keyFor(current *models.Friendship, op Operation, actor uint) key {
	if current == nil {
		return key{status: statusAbsent, op: op, role: roleNone}
	}
	r := roleRecipient
	if current.InitiatorID == actor {
		r = roleInitiator
	}
	return key{status: current.Status, op: op, role: r}
}

// resolve looks the transition up. A missing entry means the stored edge is
// corrupt (unknown status), which is reported as an internal error.
func resolve(current *models.Friendship, op Operation, actor uint) (transition, error) {
	k := keyFor(current, op, actor)
	t, ok := table[k]
	if !ok {
		return transition{}, apperr.Internal(nil, "no transition for status %q operation %q", k.status, k.op)
	}
	return t, nil
}

// apply mutates f according to t. target is the non-acting party.
func (t transition) apply(f *models.Friendship, actor, target uint) {
	switch t.orient {
	case actorInitiates:
		f.InitiatorID = actor
	case targetInitiates:
		f.InitiatorID = target
	}
	f.Status = t.next
}
