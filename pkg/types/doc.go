/*
Package types defines the core data structures used throughout the
multiverse simulator.

This package contains the fundamental types of the domain model: universe
identifiers, relationships, colors, and the three message families that
flow between the supervisor and the universe actors. All other packages
build on these types for routing, state management and the control plane.

# Message Families

Three kinds of values travel through the fabric:

  - Command: supervisor → actor. Alters the actor's state (start, stop,
    shutdown, relationship assignment, event injection, state request).
  - Event: the payload of an InjectEvent command (shatter, heal, crash,
    peer-collapsed).
  - Intent: actor → supervisor. A declared desire produced during a tick
    (attack, heal, dead), executed by the supervisor against the registry.

Commands on a single mailbox are applied in FIFO order; intents from a
single actor are processed in FIFO order. No ordering holds across actors.

# Identifiers

UniverseID values come from one process-global atomic counter starting at
1. An ID is stable for the life of the process and never reused, which
lets actors refer to peers by ID alone and lets the supervisor drop
messages aimed at collapsed universes without ambiguity.

# Relationships

A Relationship is symmetric and immutable: it is rolled exactly once, at
the birth of the newer universe, and the same kind is delivered to both
sides of the pair. A peer can only leave a relationship set by collapsing.
*/
package types
