/*
Package supervisor owns the universe fleet.

The supervisor is the singleton registry and router: it spawns actors,
rolls their birth-time relationships, brokers every inter-universe
message, and tears the fleet down. Actors never hold references to each
other — only ids — so collapse can remove a universe without dangling
references; every id resolves through the registry here.

# Data Flow

	front-end → façade → Supervisor ──command──▶ actor
	                         ▲                     │
	                         └───────intent────────┘

The driver pumps ProcessIntents every ~100ms: each handle's intent queue
is drained non-blockingly, then the collected intents are applied. An
Attack or Heal resolves its target by id and turns into an InjectEvent on
the target's mailbox; a Dead intent announces the collapse, broadcasts
PeerCollapsed to every survivor and removes the universe from both maps.

# Creation and the Relationship Roll

Create allocates the id and color, spawns the actor, and then — before
the newcomer appears in either registry map — tosses one fair coin per
existing peer and delivers the same SetRelationship to both sides of the
pair. Doing the roll pre-registration means no third party can observe
or message the newcomer mid-roll, so every pair carries exactly one
label and both views agree. One Relationship feed entry is published per
pair.

Roll deliveries use the blocking send: a relationship silently lost to a
momentarily full mailbox would leave the pair asymmetric forever, which
is worse than making Create wait a few microseconds.

# Registry Invariant

by_id and by_name are kept mutually consistent under one mutex: a name
resolves to an id that is a key of by_id, and every handle appears under
exactly one name. Iteration order is never relied on for correctness;
where it leaks into output (List), the names are sorted.

A single entry leaves the registry on exactly two paths: a Dead intent
processed by the pump, or an explicit Shutdown routed through
SendCommand. Both remove the handle from both maps in the same critical
section. ShutdownAll clears every entry at once (see below).

# Ordering Guarantees

  - Commands from a single sender to a single actor are delivered and
    applied in FIFO order (one bounded mailbox per actor).
  - Intents from a single actor are processed in FIFO order (one queue
    per handle, drained in push order).
  - Nothing is guaranteed between intents from different actors, nor
    between an intent and a command issued in parallel. The pump drains
    all handles first and applies afterwards, but that snapshot is a
    batching detail, not an ordering promise.

# Shutdown

ShutdownAll empties both maps first, then sends Shutdown to every former
member and joins each actor goroutine with a bounded wait. Clearing the
registry up front means no command routed during teardown can reach a
dying actor, and ProcessIntents called afterwards finds nothing to
drain.

# Error Posture

Message-passing failures never panic. Unknown names and full mailboxes
are logged to the bus and dropped; a target that collapsed in flight
simply absorbs the message into nothing. SendCommand reports resolution
as a bool so front-ends can suppress their own narration for ghosts,
but callers that don't care may ignore it — the drop is already logged.
*/
package supervisor
