package pipeline

import "errors"

var (
	ErrWindowSizeExceeded = errors.New("window size exceeds cap")
	ErrInvalidWindowSize  = errors.New("window size must be positive")
	ErrMisrouted          = errors.New("record read from a partition that does not own it")
	ErrMalformedRecord    = errors.New("malformed record")
	ErrCollatorFinalized  = errors.New("collator already finalized")
	ErrStageFault         = errors.New("pipeline stage fault")
)
