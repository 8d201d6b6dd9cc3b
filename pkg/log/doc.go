/*
Package log provides structured operator logging using zerolog.

This is the operator-facing stream: component-scoped diagnostics written
to stderr, configurable between human console output and JSON. It is
distinct from the logbus package, which carries the product-facing
narration feed; most components write to both, for different audiences.

Configure once at process start:

	if err := log.Setup("info", false, nil); err != nil { ... }

then derive a child logger per component or per universe and keep it:

	logger := log.WithComponent("supervisor")
	logger.Info().Str("universe", name).Msg("Universe created")

	actorLog := log.ForUniverse(uint64(id), name)
	actorLog.Debug().Msg("Shutting down")
*/
package log
