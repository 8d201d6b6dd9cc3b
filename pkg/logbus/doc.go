/*
Package logbus provides the process-wide broadcast log feed for the
multiverse simulator.

Every component publishes structured entries to a single bus; any number
of front-ends may subscribe, including late joiners. The bus is the only
shared resource in the system: publishers share one writer endpoint and
each subscriber owns an independent cursor.

# Architecture

	┌──────────────────────── LOG BUS ─────────────────────────┐
	│                                                           │
	│  Publishers (supervisor, actors, HTTP layer)              │
	│       ↓                                                   │
	│  Entry Channel (buffer: 500)                              │
	│       ↓                                                   │
	│  Broadcast Loop                                           │
	│       ↓                                                   │
	│  Subscriber Channels (buffer: 500 each)                   │
	│       ↓                                                   │
	│  Front-ends (retention ring, streaming feeds)             │
	│                                                           │
	└───────────────────────────────────────────────────────────┘

Publishers are never back-pressured. When a subscriber's buffer is full
the broadcaster evicts that subscriber's oldest buffered entry and
delivers the new one, so a slow consumer loses history from the head of
its own queue without affecting anyone else.

# Levels

  - info: system messages (creation, drops, shutdown)
  - universe: per-entity narration (attacks, heals, collapse)
  - relationship: alliance and enmity announcements
  - useraction: externally triggered events

# Retention

The bus keeps nothing. A Ring fed from a subscription retains the most
recent 1000 entries in memory for query-style access (the /logs endpoint);
it trims from the head when full and dies with the process.
*/
package logbus
