package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/wordvm/core"
)

// instTracer logs the instructions retired by a core.
type instTracer struct{}

func (instTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != core.HookPosInstRetired {
		return
	}

	c := ctx.Domain.(*core.Core)
	core.Trace("Inst",
		"Core", c.Name(),
		"Time", float64(c.Engine.CurrentTime()*1e9),
		"PC", ctx.Detail,
		"Inst", ctx.Item,
		"ZeroFlag", c.Processor().ZeroFlag(),
		"SignFlag", c.Processor().SignFlag(),
	)
}
