/*
Package log provides structured logging for hacfg using zerolog.

A single global Logger is configured once by the CLI through Init. Packages
derive child loggers with WithComponent, and the library environment tags every
line of one command with a transaction id through WithTransaction, so a push
to the cluster can be correlated with the node requests and reports that led
to it.

Console output is the default since hacfg is an interactive tool; JSON output
is available for automation. Logs go to stderr.

	log.Init(log.Config{Level: log.DebugLevel})
	logger := log.WithComponent("communication")
	logger.Debug().Str("url", url).Msg("Sending HTTP request")
*/
package log
