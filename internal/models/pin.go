package models

// PinResult describes a successful PIN check.
type PinResult struct {
	// Bootstrapped is set when the call stored the first PIN.
	Bootstrapped bool
	Message      string
}
