// Package app contains the core application logic. It wires the command
// catalog, the shell session and its ambient services together and runs a
// batch script or an interactive prompt, decoupled from any specific
// entrypoint like a CLI.
package app
