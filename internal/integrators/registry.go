package integrators

import (
	"fmt"

	"github.com/dynmep/motorstart/internal/sim"
)

// Factory returns a constructor for a named integrator. Constructors are
// returned rather than instances because integrators keep scratch buffers
// and must not be shared between concurrent runs.
func Factory(name string) (func() sim.Integrator, error) {
	switch name {
	case "euler":
		return func() sim.Integrator { return NewEuler() }, nil
	case "rk4", "":
		return func() sim.Integrator { return NewRK4() }, nil
	case "rk45":
		return func() sim.Integrator { return NewRK45() }, nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

// Names lists the available integrators.
func Names() []string {
	return []string{"euler", "rk4", "rk45"}
}
