package powerbi

import "fmt"

// UpstreamError wraps a failure of the Power BI API or its identity
// endpoint.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("powerbi %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
