// This file is part of thumbiss.
//
// thumbiss is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// thumbiss is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with thumbiss.  If not, see <https://www.gnu.org/licenses/>.

// Command armiss loads a raw Thumb binary image and runs it to completion
// (or to an instruction-count limit) on the internal/arm simulator, servicing the guest's
// semihosting calls against the host's real stdio (spec.md §6.1, §6.2). It
// is the external driver spec.md §1 describes as out of scope for the
// core's own specification but necessary to exercise it end to end.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jetsetilly/thumbiss/internal/arm"
	"github.com/jetsetilly/thumbiss/internal/config"
	"github.com/jetsetilly/thumbiss/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("armiss", pflag.ContinueOnError)
	configPath := fs.String("config", "", "optional YAML configuration file")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: armiss [flags] <image>")
		fs.PrintDefaults()
	}

	cfg := config.Default()
	config.RegisterFlags(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		cfg = loaded
		// flags parsed above only bound to the Default() config; re-register
		// against the loaded one and re-parse so command-line flags still
		// take precedence over the file (SPEC_FULL.md §2: "flags taking
		// precedence field by field").
		fs2 := pflag.NewFlagSet("armiss", pflag.ContinueOnError)
		fs2.String("config", *configPath, "")
		config.RegisterFlags(fs2, &cfg)
		if err := fs2.Parse(args); err != nil {
			return 2
		}
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	cfg.ImagePath = fs.Arg(0)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	image, err := os.ReadFile(cfg.ImagePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	c, h, err := buildCore(cfg, image)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var stopDashboard func()
	if cfg.Dashboard {
		stopDashboard = startDashboard("localhost:18066", c)
		defer stopDashboard()
		fmt.Fprintln(os.Stderr, "dashboard: http://localhost:18066/debug/statsview")
	}

	var interrupted func() bool
	if !cfg.Batch {
		if mon, ok := newMonitor(); ok {
			mon.Start()
			defer mon.Restore()
			interrupted = mon.Interrupted
		}
	}

	reason := c.Continue(interrupted, cfg.MaxCycles)

	if cfg.DumpStateGraph != "" {
		if err := dumpStateGraph(cfg.DumpStateGraph, c); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	switch reason {
	case arm.StopInterrupt:
		fmt.Fprintln(os.Stderr, "armiss: interrupted")
		return 130
	case arm.StopBreakpoint:
		fmt.Fprintln(os.Stderr, "armiss: stopped at breakpoint")
		return 1
	case arm.StopStep:
		fmt.Fprintln(os.Stderr, "armiss: instruction limit reached")
		return 1
	}

	if !h.Exited {
		return 1
	}
	return h.ExitCode
}

// buildCore wires a bus (code + SRAM + PPB), a Core, and the semihosting
// host callback from cfg and the loaded image, then performs the spec.md
// §4.4 Reset special case.
func buildCore(cfg config.Config, image []byte) (*arm.Core, *host, error) {
	code := arm.NewCodeRegion(cfg.CodeBase, image)
	bus := arm.NewBus(code)
	bus.Attach(arm.NewSRAMRegion(cfg.SRAMBase, cfg.SRAMSize))

	ppb := arm.NewPPBRegion()
	bus.Attach(ppb)

	c := arm.NewCore(bus, ppb, uint32(len(image)))
	c.HasFPU = cfg.HasFPU
	c.ARMv6M = cfg.ARMv6M

	h := newHost()
	c.Host = h

	if f := c.ResetCore(); f.Kind != "" {
		return nil, nil, fmt.Errorf("armiss: reset: %w", f)
	}

	ppb.SCB.VTOR = cfg.VTOR
	if cfg.DivideByZeroTraps {
		ppb.SCB.CCR |= 1 << 4
	}

	logger.Logf(logger.Allow, "armiss", "loaded %d bytes at %#08x, reset to pc=%#08x", len(image), cfg.CodeBase, c.Regs.PCReg())

	return c, h, nil
}
