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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/jetsetilly/thumbiss/internal/arm/peripherals"
	"github.com/jetsetilly/thumbiss/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}
	if cfg.SRAMBase != 0x20000000 {
		t.Fatalf("SRAMBase = %#x, want 0x20000000", cfg.SRAMBase)
	}
	if cfg.NVICExternalInterrupts != peripherals.NumExternalInterrupts {
		t.Fatalf("NVICExternalInterrupts = %d, want %d", cfg.NVICExternalInterrupts, peripherals.NumExternalInterrupts)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "armiss.yaml")
	yaml := "sram_size: 4096\nfpu: true\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SRAMSize != 4096 {
		t.Fatalf("SRAMSize = %d, want 4096 (from file)", cfg.SRAMSize)
	}
	if !cfg.HasFPU {
		t.Fatalf("HasFPU = false, want true (from file)")
	}
	// a field the file did not mention keeps Default()'s value.
	if cfg.VTOR != config.Default().VTOR {
		t.Fatalf("VTOR = %#x, want default %#x (file did not set it)", cfg.VTOR, config.Default().VTOR)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load("/nonexistent/armiss.yaml"); err == nil {
		t.Fatalf("Load of a missing file returned no error")
	}
}

func TestRegisterFlagsOverridesFileValue(t *testing.T) {
	cfg := config.Default()
	cfg.SRAMSize = 4096 // simulate a prior Load() having set this

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs, &cfg)

	if err := fs.Parse([]string{"--sram-size=8192"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.SRAMSize != 8192 {
		t.Fatalf("SRAMSize = %d, want 8192 (flag should override file value)", cfg.SRAMSize)
	}
}

func TestRegisterFlagsKeepsUnsuppliedValue(t *testing.T) {
	cfg := config.Default()
	cfg.VTOR = 0x1000 // simulate a prior Load() having set this

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs, &cfg)

	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.VTOR != 0x1000 {
		t.Fatalf("VTOR = %#x, want 0x1000 (unsupplied flag must not reset the file's value)", cfg.VTOR)
	}
}

func TestValidateRejectsBadNVICCount(t *testing.T) {
	cfg := config.Default()
	cfg.NVICExternalInterrupts = peripherals.NumExternalInterrupts + 1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate accepted an out-of-range NVIC interrupt count")
	}
}

func TestValidateRejectsZeroSRAM(t *testing.T) {
	cfg := config.Default()
	cfg.SRAMSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate accepted a zero SRAM size")
	}
}

func TestValidateRejectsOverlappingSRAMBase(t *testing.T) {
	cfg := config.Default()
	cfg.CodeBase = cfg.SRAMBase + 1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate accepted sram_base below code_base")
	}
}
