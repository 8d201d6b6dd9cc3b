/*
Package api exposes the fleet through a small HTTP/JSON control plane.

The control plane is a front-end like any other: it converses with the
supervisor through the same command/query surface the CLI and tests use,
and publishes a UserAction feed entry for every externally triggered
event whose target name resolved. It binds to 127.0.0.1:3000 by default.

# Routes

	GET  /health                          plaintext OK
	GET  /universes                       {"universes": [name, ...]}
	POST /universes                       {"name": "..."} → 201
	POST /universes/{n}/resume            fires Start
	POST /universes/{n}/pause             fires Stop
	POST /universes/{n}/collapse          fires Shutdown
	POST /universes/{n}/events/shatter    {"strength": N}
	POST /universes/{n}/events/heal       {"strength": N}
	POST /universes/{n}/events/crash      immediate collapse
	GET  /universes/{n}/state             publishes a state snapshot log
	GET  /logs?limit=N                    recent feed entries (default 100)

Unknown universe names answer 200 with no side effect — the universe may
have collapsed while the request was in flight, and that is not the
caller's problem. Only malformed JSON, empty names, duplicate names and
a /logs limit that is not a non-negative integer produce 4xx.
*/
package api
