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

// Package config is the ambient configuration layer SPEC_FULL.md §2 adds:
// an optional YAML file plus command-line flags that together describe how
// cmd/armiss should wire up a Core (memory layout, VTOR, NVIC external-
// interrupt count, FPU presence, architecture profile). The teacher has no
// equivalent of its own (it is GUI-first and configured through its own
// preferences system, not a CLI), so this package is grounded on the rest
// of the retrieved pack's system-tool configuration convention instead: a
// plain struct unmarshalled from YAML, with pflag-parsed command-line
// values overlaid on top of (never silently replacing) whatever the file
// set, the same "file provides defaults, flags override" shape used by
// doismellburning/samoyed and tinyrange/cc's own config loaders.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/jetsetilly/thumbiss/internal/arm/peripherals"
)

// Config is the full set of knobs cmd/armiss accepts, either from a YAML
// file (-config path) or from flags, flags taking precedence field by
// field.
type Config struct {
	// ImagePath is the raw binary image to load (spec.md §6.1). Flag-only;
	// not meaningful in a YAML file since it names the very thing the file
	// configures the execution of.
	ImagePath string `yaml:"-"`

	// CodeBase is the address the image is loaded at (spec.md §6.1: "at
	// address 0 (or at a configured base)").
	CodeBase uint32 `yaml:"code_base"`

	// SRAMBase/SRAMSize describe the writable main memory region (spec.md
	// §3.7).
	SRAMBase uint32 `yaml:"sram_base"`
	SRAMSize uint32 `yaml:"sram_size"`

	// VTOR is the initial Vector Table Offset Register value (spec.md §6.1:
	// "16+N entries at VTOR (initially 0)").
	VTOR uint32 `yaml:"vtor"`

	// NVICExternalInterrupts is the configured external-interrupt count.
	// peripherals.NVIC allocates a fixed-size array sized for the Cortex-M
	// maximum (peripherals.NumExternalInterrupts); a configured count above
	// that is rejected by Validate (spec.md's "N is implementation-defined,
	// typically 240" is satisfied by the fixed array). Nothing besides
	// Validate reads this field, so a smaller count is accepted but has no
	// effect: the NVIC keeps its full-size storage and register range.
	NVICExternalInterrupts int `yaml:"nvic_external_interrupts"`

	// HasFPU enables the VFP single/double-precision extension (spec.md
	// §1, "with optional single-precision and double-precision floating-
	// point extensions").
	HasFPU bool `yaml:"fpu"`

	// ARMv6M selects the reduced ARMv6-M profile (spec.md §7: "On ARMv6-M
	// configurations, all faults escalate to HardFault"). False means
	// ARMv7-M/ARMv7E-M.
	ARMv6M bool `yaml:"armv6m"`

	// DivideByZeroTraps seeds SCB.CCR.DIV_0_TRP at reset (spec.md §4.3,
	// "Divides").
	DivideByZeroTraps bool `yaml:"divide_by_zero_traps"`

	// MaxCycles bounds total execution (spec.md §7: "a CLI may cap total
	// instruction count"); 0 means unbounded.
	MaxCycles uint64 `yaml:"max_cycles"`

	// Batch disables the interactive raw-terminal monitor mode (spec.md §6.3
	// "interrupt" support via cmd/armiss's -batch flag).
	Batch bool `yaml:"-"`

	// Dashboard/DumpStateGraph select the optional ambient tooling
	// (SPEC_FULL.md §3): a live statsview dashboard and a memviz state
	// dump, respectively. Flag-only.
	Dashboard      bool   `yaml:"-"`
	DumpStateGraph string `yaml:"-"`
}

// Default returns the configuration cmd/armiss uses when no YAML file is
// given: code loaded at 0 (cmd/armiss sizes the code region to the image),
// a 256KB SRAM region at 0x20000000, VTOR at 0, and the full Cortex-M
// external interrupt count.
func Default() Config {
	return Config{
		CodeBase:               0,
		SRAMBase:               0x20000000,
		SRAMSize:               256 * 1024,
		VTOR:                   0,
		NVICExternalInterrupts: peripherals.NumExternalInterrupts,
		HasFPU:                 false,
		ARMv6M:                 false,
		DivideByZeroTraps:      false,
	}
}

// Load reads a YAML configuration file, starting from Default() so any
// field the file omits keeps its default rather than zeroing out.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// RegisterFlags binds cmd/armiss's command-line flags to cfg using pflag,
// the CLI flag library SPEC_FULL.md §2 names (seen in the pack's
// doismellburning/samoyed manifest). Flags are bound with their current
// value in cfg as the default, so a prior Load() call's values survive
// being overridden only by flags the user actually supplies.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.Uint32Var(&cfg.CodeBase, "code-base", cfg.CodeBase, "address the image is loaded at")
	fs.Uint32Var(&cfg.SRAMBase, "sram-base", cfg.SRAMBase, "base address of the writable SRAM region")
	fs.Uint32Var(&cfg.SRAMSize, "sram-size", cfg.SRAMSize, "size in bytes of the writable SRAM region")
	fs.Uint32Var(&cfg.VTOR, "vtor", cfg.VTOR, "initial Vector Table Offset Register value")
	fs.IntVar(&cfg.NVICExternalInterrupts, "nvic-irqs", cfg.NVICExternalInterrupts, "number of external interrupt lines")
	fs.BoolVar(&cfg.HasFPU, "fpu", cfg.HasFPU, "enable the VFP floating-point extension")
	fs.BoolVar(&cfg.ARMv6M, "armv6m", cfg.ARMv6M, "use the reduced ARMv6-M profile instead of ARMv7-M")
	fs.BoolVar(&cfg.DivideByZeroTraps, "div0-trap", cfg.DivideByZeroTraps, "trap integer division by zero instead of returning 0")
	fs.Uint64Var(&cfg.MaxCycles, "max-cycles", cfg.MaxCycles, "stop after this many instructions (0 = unbounded)")
	fs.BoolVar(&cfg.Batch, "batch", cfg.Batch, "disable the interactive raw-terminal monitor")
	fs.BoolVar(&cfg.Dashboard, "dashboard", cfg.Dashboard, "serve a live statsview dashboard of cycles/exceptions")
	fs.StringVar(&cfg.DumpStateGraph, "dump-state-graph", cfg.DumpStateGraph, "write a memviz graphviz dump of core state to this path on exit")
}

// Validate reports a descriptive error for any configuration combination
// core.NewCore's caller cannot act on.
func (c Config) Validate() error {
	if c.NVICExternalInterrupts < 0 || c.NVICExternalInterrupts > peripherals.NumExternalInterrupts {
		return fmt.Errorf("config: nvic_external_interrupts must be between 0 and %d", peripherals.NumExternalInterrupts)
	}
	if c.SRAMSize == 0 {
		return fmt.Errorf("config: sram_size must be nonzero")
	}
	if c.SRAMBase < c.CodeBase {
		return fmt.Errorf("config: sram_base must not overlap the code region")
	}
	return nil
}
