package application

import "errors"

var (
	// ErrTransferFailed is returned when the host's asset-transfer capability
	// rejects the escrow or settlement movement. The operation that raised it
	// leaves no state change behind.
	ErrTransferFailed = errors.New("asset transfer failed")
)
