// Package app wires the dashboard server together: configuration, logging,
// metrics, the dataset store and its reload watcher, the WebSocket hub, and
// the chi router with its middleware chain. The Application owns process
// lifecycle; everything else stays in its own package.
package app
