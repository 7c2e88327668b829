// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the batch lifecycle: discover input
// documents, compile them on a bounded worker pool, write the emitted
// documents and render diagnostics. It is decoupled from any specific
// entrypoint like a CLI.
package app
