package authflow

import (
	"fmt"
	"time"
)

// DeniedError means the user reached the consent screen and declined, or
// the provider rejected the authorization request outright.
type DeniedError struct {
	Code string
}

func (e *DeniedError) Error() string {
	if e.Code == "" || e.Code == "access_denied" {
		return "authorization denied by user"
	}
	return fmt.Sprintf("authorization rejected by provider: %s", e.Code)
}

// NetworkError wraps a transport failure reaching the provider.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// CallbackTimeoutError means the loopback listener never saw the provider
// redirect within the configured bound.
type CallbackTimeoutError struct {
	Wait time.Duration
}

func (e *CallbackTimeoutError) Error() string {
	return fmt.Sprintf("no authorization callback received within %s (was the browser window closed?)", e.Wait)
}
