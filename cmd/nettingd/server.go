package main

import (
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/queue"
	"github.com/lightningnetwork/lnd/ticker"

	"github.com/nettinglabs/netting-core/channel"
	"github.com/nettinglabs/netting-core/crypto"
	"github.com/nettinglabs/netting-core/store"
)

// daemon hosts a single channel.ChannelState and drives it with a
// queue/ticker pair, per SPEC_FULL.md §5's concurrency model: the core
// transition function itself stays synchronous and single-threaded, and
// all the concurrency lives in this host loop, exactly as the teacher
// keeps commitment-state mutation single-threaded inside a per-link
// goroutine in htlcswitch while feeding it off a buffered queue.
type daemon struct {
	cfg *NettingConfig
	db  *store.DB

	stateMu   sync.RWMutex
	chanState *channel.ChannelState

	changeQueue *queue.ConcurrentQueue
	blockTicker ticker.Ticker

	sink EventSink

	idGen channel.IDGenerator
	clk   clock.Clock

	quit chan struct{}
	wg   sync.WaitGroup
}

func newDaemon(cfg *NettingConfig, db *store.DB, chanState *channel.ChannelState, tickInterval time.Duration) *daemon {
	var nextID uint64
	idGen := func() uint64 {
		nextID++
		return nextID
	}

	return &daemon{
		cfg:         cfg,
		db:          db,
		chanState:   chanState,
		changeQueue: queue.NewConcurrentQueue(64),
		blockTicker: ticker.New(tickInterval),
		sink:        loggingEventSink{},
		idGen:       idGen,
		clk:         clock.NewDefaultClock(),
		quit:        make(chan struct{}),
	}
}

// SubmitChange enqueues an externally observed StateChange (a received
// message, an on-chain watcher event, an operator action) for processing
// by the host loop, preserving arrival order per SPEC_FULL.md §5.
func (d *daemon) SubmitChange(change channel.StateChange) {
	d.changeQueue.ChanIn() <- change
}

// ChannelState returns the current channel state (or nil if disposed),
// safe for concurrent use by the control server goroutines.
func (d *daemon) ChannelState() *channel.ChannelState {
	d.stateMu.RLock()
	defer d.stateMu.RUnlock()
	return d.chanState
}

// Start launches the host loop goroutine.
func (d *daemon) Start() {
	d.changeQueue.Start()
	d.blockTicker.Resume()

	d.wg.Add(1)
	go d.loop()
}

// Stop signals the host loop to exit and waits for it to finish.
func (d *daemon) Stop() {
	close(d.quit)
	d.wg.Wait()
	d.blockTicker.Stop()
	d.changeQueue.Stop()
}

func (d *daemon) loop() {
	defer d.wg.Done()

	var blockNumber uint64

	for {
		select {
		case item, ok := <-d.changeQueue.ChanOut():
			if !ok {
				return
			}
			change := item.(channel.StateChange)
			d.apply(change)

		case <-d.blockTicker.Ticks():
			blockNumber++
			d.apply(channel.Block{BlockNumber: blockNumber})

		case <-d.quit:
			return
		}
	}
}

func (d *daemon) apply(change channel.StateChange) {
	ctx := channel.Context{
		IDGen:     d.idGen,
		Recoverer: crypto.DefaultRecoverer,
	}

	if deposit, ok := change.(channel.ContractReceiveChannelNewBalance); ok {
		log.Infof("deposit to %d for participant %x observed at %s, queued for confirmation",
			deposit.DepositBlockNumber, deposit.ParticipantAddr, d.clk.Now().Format(time.RFC3339))
	}

	current := d.ChannelState()
	channelID := current.Identity.ChannelID
	newState, events := channel.StateTransition(current, change, ctx)

	for _, event := range events {
		d.sink.Handle(event)
	}

	d.stateMu.Lock()
	d.chanState = newState
	d.stateMu.Unlock()

	if newState == nil {
		log.Infof("channel %d disposed", channelID)
		if err := d.db.DeleteChannelState(channelID); err != nil {
			log.Errorf("failed to delete disposed channel snapshot: %v", err)
		}
		return
	}

	if err := d.db.PutChannelState(newState); err != nil {
		log.Errorf("failed to persist channel snapshot: %v", err)
	}
}
