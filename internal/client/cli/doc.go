// Package cli provides the interactive cinepass command-line client.
//
// It wires configuration, the credential store and its backends, the
// authenticated HTTP and gRPC clients, the API services and an interactive
// REPL. Typical flow: sign in with an OTP, browse movies and contests, edit
// the profile, sign out.
//
// Key features:
//   - Login / Logout (OTP sign-in, server-side logout)
//   - Profile, KYC and permission updates
//   - Movie list, movie details, contests
//   - Authenticated gRPC health check and client-side metrics
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
