/*
Package universe implements the per-entity actor and its handle.

Each universe owns its mutable state exclusively: one goroutine runs a
cooperative select over the command mailbox and a periodic tick clock.
Nothing outside the actor ever reads or writes that state; commands go in
through the mailbox, intents come out through the handle's queue, and
narration goes to the log bus.

# Actor Loop

	for {
		select {
		case cmd := <-mailbox:   // FIFO, bounded (depth 10)
			apply(cmd)
		case <-ticker.C:         // 80ms, missed ticks skipped
			if executes && hp > 0 { step() }
		}
		if collapsed { return }
	}

Collapse pins hp to 0, stops execution and emits exactly one Dead intent.
A Shutdown command terminates the loop without the collapse broadcast;
the two exits are distinct on purpose.

# Autonomy

Every 4th tick the actor rolls two independent chances: 0.7 to attack a
uniformly chosen enemy and 0.3 to heal a uniformly chosen brother, with
magnitudes sampled from [7,20]. Both the probabilities and the RNG seed
are injectable so tests can pin the dice.

# Intents

The actor→supervisor queue is unbounded by design: the Dead intent must
survive any load, so the queue trades bounded memory for delivery. The
supervisor drains it every pump cycle (~100ms); if the pump stalls, queue
memory grows linearly with the lag.
*/
package universe
