// Package bootstrap runs command-line tasks over a component registry.
//
// NewApp validates a config embedding config.ServiceConfig and sets up
// logging; RunTask starts the registered components, runs the task and
// stops the components again, also on SIGINT/SIGTERM.
package bootstrap
