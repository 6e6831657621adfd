package main

// Exit codes used by all refsolve commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad config file, invalid paths)
	ExitNotFound    = 3 // No identifier could be resolved for any target
)
