// Package runner executes external commands (cibadmin, crm_mon, crm_resource)
// as plain argument vectors. Shell syntax is never interpreted.
package runner
