/*
Package history keeps a local journal of CIB commits in BoltDB.

Every push made by hacfg can be recorded with the command that made it, the
target (live cluster or file), a SHA-256 digest and the pushed document.
Commit ids are UUIDv7, so the key order of the commits bucket is the commit
order and listing newest first is a reverse cursor walk.

# Storage Layout

	commits/
	  <uuidv7> → {"id", "time", "target", "command", "digest", "size", "cib"}

The journal is optional: an empty history path in the configuration disables
it.
*/
package history
