/*
Package pacemaker talks to a live cluster through the pacemaker command line
tools.

Every call goes through a runner.Runner so tests can script the commands:

	client := pacemaker.NewClient(runner.NewExecRunner(nil), "/usr/sbin")
	state, err := client.GetClusterState(ctx)

Failures come back as *reports.LibraryError carrying the code of the tool
that failed (CIB_LOAD_ERROR, CIB_PUSH_ERROR, CRM_MON_ERROR, and so on).
WaitForIdle keeps an expired wait (crm_resource exit status 62 or an expired
context) apart from other wait failures.
*/
package pacemaker
