package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes all provisioning phases sequentially. Every phase
// depends on host state left by its predecessor, so a failed phase
// short-circuits the rest; completed phases are not rolled back.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting run %s with %d phases...", ctx.State.RunID, len(phases))

	for i, phase := range phases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run canceled before %s phase: %w", phase.Name(), err)
		}

		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		LogPhaseStart(ctx.Observer, name)

		if err := phase.Provision(ctx); err != nil {
			LogPhaseFailed(ctx.Observer, name, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(ctx.Observer, name, time.Since(phaseStart))
	}

	if n := len(ctx.State.Warnings); n > 0 {
		ctx.Observer.Printf("Provisioning completed in %v with %d warning(s)",
			time.Since(start).Round(time.Millisecond), n)
	} else {
		ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	}
	return nil
}
