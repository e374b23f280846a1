// Package command exposes go-command compatible command handlers implementing
// go-hatchery business logic (farm reconciliation, staff provisioning and
// claims, activity recording, preferences). Commands are wired by the service
// layer and can be invoked by any transport.
package command
