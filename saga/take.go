package saga

// On forks a task that waits for a single event matching pred, runs handle
// with it, then exits. Equivalent to a one-shot takeLatest.
func On(c *Ctx, pred func(Event) bool, handle func(*Ctx, Event) error) *Task {
	return c.Fork(func(ctx *Ctx) error {
		ev, err := ctx.Select(pred)
		if err != nil {
			return err
		}
		return handle(ctx, ev)
	})
}

// OnEvery forks a task that spawns handle, concurrently and without
// cancelling prior runs, for every event matching pred until the task is
// cancelled.
func OnEvery(c *Ctx, pred func(Event) bool, handle func(*Ctx, Event) error) *Task {
	return c.Fork(func(ctx *Ctx) error {
		for {
			ev, err := ctx.Select(pred)
			if err != nil {
				return err
			}
			ctx.Fork(func(inner *Ctx) error {
				return handle(inner, ev)
			})
		}
	})
}

// OnLatest forks a task that runs handle for every event matching pred,
// cancelling the previous in-flight handle run whenever a new matching
// event arrives.
func OnLatest(c *Ctx, pred func(Event) bool, handle func(*Ctx, Event) error) *Task {
	return c.Fork(func(ctx *Ctx) error {
		var current *Task
		for {
			ev, err := ctx.Select(pred)
			if err != nil {
				if current != nil {
					current.Cancel()
				}
				return err
			}
			if current != nil {
				current.Cancel()
			}
			current = ctx.Fork(func(inner *Ctx) error {
				return handle(inner, ev)
			})
		}
	})
}

// OnLeading forks a task that runs handle for the first event matching
// pred, then ignores further matches until that run completes.
func OnLeading(c *Ctx, pred func(Event) bool, handle func(*Ctx, Event) error) *Task {
	return c.Fork(func(ctx *Ctx) error {
		for {
			ev, err := ctx.Select(pred)
			if err != nil {
				return err
			}
			done := make(chan struct{})
			ctx.Fork(func(inner *Ctx) error {
				defer close(done)
				return handle(inner, ev)
			})
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}
