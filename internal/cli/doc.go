// Package cli is responsible for parsing command-line arguments, layering
// settings from the settings file, the environment and flags, and handling
// process-level concerns like exit codes. It translates the command line
// into the application's internal configuration and runs the selected
// command.
package cli
