/*
Package middleware wraps a command with the loading and saving of the files
it works on.

	chain := middleware.Build(
		middleware.CIB("/tmp/cib.xml", nil),
		middleware.KnownHostsReadOnly("/var/lib/pcsd/known-hosts", nil),
	)
	err := chain.Run(&middleware.Env{}, func(env *middleware.Env) error {
		// *env.CIBData holds the file content
		return nil
	})

Middlewares nest like an onion: the first Before runs first and its After runs
last. When a Before or the command fails, no After of an enclosing middleware
runs, so nothing is written. An After that already completed is not rolled
back.

A file is written back only when its content differs from what was read.
*/
package middleware
