package baseband

import "errors"

var (
	ErrInvalidConfig       = errors.New("baseband: invalid run-time config")
	ErrNotInitialized      = errors.New("baseband: scheduler not initialized")
	ErrAlreadyInitialized  = errors.New("baseband: scheduler already initialized")
	ErrInvalidProtocol     = errors.New("baseband: invalid protocol id")
	ErrMissingHandler      = errors.New("baseband: required handler is nil")
	ErrNotRegistered       = errors.New("baseband: protocol not registered")
	ErrStopWithoutStart    = errors.New("baseband: stop without matching start")
	ErrNilOperation        = errors.New("baseband: operation is nil")
	ErrNoCompletionHandler = errors.New("baseband: completion handler not registered")
)
