package sim

import "fmt"

// IntegrationError reports non-finite state despite the model's guards,
// localized to the step that produced it.
type IntegrationError struct {
	From float64
	To   float64
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration produced non-finite state between t=%.4fs and t=%.4fs", e.From, e.To)
}
