// Package cli provides the interactive admin command-line client.
//
// It wires configuration, the local sqlite cache, the HTTP API client and a
// REPL. A saved session is resumed on start, and a background watcher probes
// the server's gRPC health endpoint to show online/offline in the prompt.
//
// Commands:
//   - login / logout
//   - list <resource>, refresh <resource>: served from the cache, refresh
//     forces a fetch
//   - add-user, add-company, add-vehicle, add-point: prompt for fields
//   - delete <resource> <id>
//   - export <resource> [save]: upload a snapshot, print a download link and
//     optionally save it under ./exports
//   - help, exit
//
// Resources are users, companies, vehicles and points (collection points).
package cli
