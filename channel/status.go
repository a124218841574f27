package channel

// Status is the derived lifecycle stage of a channel (spec.md §4.D),
// always a pure function of its transaction slots — never stored
// directly, to keep it impossible for Status() and the transaction
// records to drift out of sync.
type Status uint8

const (
	// StatusOpened is the default: no close or settle transaction has
	// been recorded.
	StatusOpened Status = iota
	StatusClosing
	StatusClosed
	StatusSettling
	StatusSettled
	StatusUnusable
)

func (s Status) String() string {
	switch s {
	case StatusOpened:
		return "opened"
	case StatusClosing:
		return "closing"
	case StatusClosed:
		return "closed"
	case StatusSettling:
		return "settling"
	case StatusSettled:
		return "settled"
	case StatusUnusable:
		return "unusable"
	default:
		return "unknown"
	}
}

// TransactionResult is the outcome of a submitted on-chain transaction,
// observed asynchronously via a later state change.
type TransactionResult uint8

const (
	TransactionResultUnknown TransactionResult = iota
	TransactionResultSuccess
	TransactionResultFailure
)

// TransactionRecord tracks one submitted close/settle transaction: when
// it started, and — once observed on-chain — at what block it finished
// and with what result.
type TransactionRecord struct {
	StartedBlockNumber  uint64
	FinishedBlockNumber uint64
	Finished            bool
	Result              TransactionResult
}

// running reports whether the transaction has been submitted but no
// finishing on-chain event has been observed yet.
func (t *TransactionRecord) running() bool {
	return t != nil && !t.Finished
}

func (t *TransactionRecord) succeeded() bool {
	return t != nil && t.Finished && t.Result == TransactionResultSuccess
}

func (t *TransactionRecord) failed() bool {
	return t != nil && t.Finished && t.Result == TransactionResultFailure
}

// CHANNEL_STATES_PRIOR_TO_CLOSED gates operations (channel close, withdraw
// requests) that only make sense while the channel has not yet started
// closing (spec.md §4.D).
var channelStatesPriorToClosed = map[Status]bool{
	StatusOpened: true,
}

// IsPriorToClosed reports whether s is a member of
// CHANNEL_STATES_PRIOR_TO_CLOSED.
func IsPriorToClosed(s Status) bool {
	return channelStatesPriorToClosed[s]
}

// Status derives the channel's current lifecycle stage from its
// transaction slots, exactly per spec.md §4.D's precedence: settle
// transaction first, then close transaction, else opened.
func (c *ChannelState) Status() Status {
	if c.SettleTransaction != nil {
		switch {
		case c.SettleTransaction.succeeded():
			return StatusSettled
		case c.SettleTransaction.failed():
			return StatusUnusable
		default:
			return StatusSettling
		}
	}

	if c.CloseTransaction != nil {
		switch {
		case c.CloseTransaction.succeeded():
			return StatusClosed
		case c.CloseTransaction.failed():
			return StatusUnusable
		default:
			return StatusClosing
		}
	}

	return StatusOpened
}

// SetClosed fills in the close transaction's finishing block, marking it
// successful. A no-op if no close transaction has been recorded; an
// already finished record is overwritten.
func (c *ChannelState) SetClosed(blockNumber uint64) {
	if c.CloseTransaction == nil {
		return
	}
	c.CloseTransaction.Finished = true
	c.CloseTransaction.FinishedBlockNumber = blockNumber
	c.CloseTransaction.Result = TransactionResultSuccess
}

// SetSettled fills in the settle transaction's finishing block, marking
// it successful. A no-op if no settle transaction has been recorded; an
// already finished record is overwritten.
func (c *ChannelState) SetSettled(blockNumber uint64) {
	if c.SettleTransaction == nil {
		return
	}
	c.SettleTransaction.Finished = true
	c.SettleTransaction.FinishedBlockNumber = blockNumber
	c.SettleTransaction.Result = TransactionResultSuccess
}
