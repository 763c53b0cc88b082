// Package app provides the orchestration layer for the willdo application.
//
// # Overview
//
// This package wires together configuration, the intake client, the
// synchronization session, version-control access, and the UI to create the
// complete willdo experience. It serves as the composition root where all
// dependencies are initialized and connected.
//
// # Startup sequence
//
//  1. Load configuration from ~/.config/willdo/config.toml plus WILLDO_* overrides
//  2. Run the interactive setup form when required settings are missing
//  3. Route the standard logger to a rotating file (the TUI owns the terminal)
//  4. Build the intake HTTP client, copy-marker resolver, and session
//  5. Start the filesystem watcher that triggers metadata rescans
//  6. Subscribe the UI as the session's consumer and run the program
//  7. On exit, mark the consumer dead and unsubscribe, stopping the poll loop
//
// # Event flow
//
// The session delivers list, metadata, and error events through the consumer
// adapter, which forwards them into the Bubble Tea program with Program.Send.
// Send is safe from any goroutine and becomes a no-op once the program has
// quit, so a delivery that was already in flight when the user quit cannot
// block or crash shutdown. Unsubscribe then guarantees nothing further is
// delivered at all.
package app
