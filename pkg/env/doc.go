/*
Package env is the transaction of one hacfg command.

An Environment sits on top of what the middlewares loaded (pkg/middleware).
A nil document in middleware.Env means live mode: the CIB is read and
replaced with cibadmin and corosync.conf is sent to the known hosts. A
loaded document means file mode: pushes only update middleware.Env and the
CIB middleware writes the file afterwards.

	e := env.New(files, env.Options{Command: "node standby"})
	defer e.Close()

	doc, err := e.GetCIB(ctx)
	// ... edit doc ...
	err = e.PushCIB(ctx, env.WaitFor("60s"))

The CIB is loaded at most once and pushed at most once. A push of a document
that serializes to what was loaded does nothing, so commands that change
nothing never touch the cluster or the file. Every real push is counted in
metrics, announced on the event broker and recorded in the commit journal
when one is configured.

Waiting for the cluster to settle is only possible in live mode and only with
a crm_resource that knows --wait. An expired wait is WAIT_FOR_IDLE_TIMED_OUT,
never a push error.
*/
package env
