// Command rp2350sim is the driver binary for the RP2350 core simulator
// (spec.md section 6): `run` loads an Intel-HEX image and executes it
// to completion or fault, `inspect` loads an image and prints its
// decoded instruction stream without executing it.
package main

import (
	"fmt"
	"os"

	"github.com/jmchacon/rp2350sim/cpu"
	"github.com/jmchacon/rp2350sim/decode"
	"github.com/jmchacon/rp2350sim/hexload"
	"github.com/jmchacon/rp2350sim/memory"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	var pc uint32
	var strict bool
	var maxSteps int
	var trace bool
	var inspectPC uint32
	var inspectMax int

	root := &cobra.Command{
		Use:   "rp2350sim",
		Short: "RP2350 (Cortex-M33, Armv8-M Baseline) instruction-set simulator",
	}

	runCmd := &cobra.Command{
		Use:   "run <hexfile>",
		Short: "Load an Intel-HEX image and execute it to completion or fault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(args[0], pc, strict, maxSteps, trace)
		},
	}
	runCmd.Flags().Uint32Var(&pc, "pc", 0, "override the initial program counter (0 = use the reset vector)")
	runCmd.Flags().BoolVar(&strict, "strict", false, "fail synchronously on an unsupported instruction instead of pending a HardFault")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 1_000_000, "stop after this many instructions even if the core hasn't faulted")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print a decoded trace of each executed instruction")

	inspectCmd := &cobra.Command{
		Use:   "inspect <hexfile>",
		Short: "Load an Intel-HEX image and print its decoded instruction stream without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectImage(args[0], inspectPC, inspectMax)
		},
	}
	inspectCmd.Flags().Uint32Var(&inspectPC, "pc", memory.FlashBase, "address to start disassembling from")
	inspectCmd.Flags().IntVar(&inspectMax, "max-steps", 256, "maximum number of instructions to print")

	root.AddCommand(runCmd, inspectCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps the error surfaced from a subcommand to spec.md
// section 6's exit-code contract: 1 for a load error, 2 for a runtime
// fault, 1 for any other (usage) error from cobra itself.
func exitCodeFor(err error) int {
	switch err.(type) {
	case hexload.LoaderError:
		return 1
	case cpu.UnsupportedInstruction, cpu.InvalidCPUState, cpu.Lockup:
		return 2
	default:
		return 1
	}
}

func runImage(path string, pc uint32, strict bool, maxSteps int, trace bool) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return hexload.LoaderError{Reason: err.Error()}
	}

	chip := cpu.New(cpu.Config{Memory: memory.Config{}, Strict: strict})
	if err := hexload.Load(chip.Bus, string(text)); err != nil {
		return err
	}

	if pc != 0 {
		chip.SetPC(pc)
	} else {
		vector, f := chip.Bus.ReadU32(memory.FlashBase + 4)
		if f != nil {
			return hexload.LoaderError{Reason: "image has no reset vector at flash+4"}
		}
		chip.SetPC(vector &^ 1)
	}

	traceColor := trace && term.IsTerminal(int(os.Stdout.Fd()))

	steps := 0
	err = chip.RunUntil(func(c *cpu.Chip) bool {
		if trace {
			printTrace(c, traceColor)
		}
		steps++
		return steps >= maxSteps || c.LockedUp()
	})
	if err != nil {
		return err
	}
	if chip.LockedUp() {
		return cpu.Lockup{Reason: "core reached Lockup"}
	}
	return nil
}

func inspectImage(path string, start uint32, maxInstrs int) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return hexload.LoaderError{Reason: err.Error()}
	}

	bus := memory.New(memory.Config{})
	if err := hexload.Load(bus, string(text)); err != nil {
		return err
	}

	addr := start
	for i := 0; i < maxInstrs; i++ {
		hw1, f := bus.ReadU16(addr)
		if f != nil {
			break
		}
		// hw1's top five bits alone mark a 32-bit encoding; only then is
		// the following halfword part of the instruction.
		width := 2
		var hw2 uint16
		if hw1&0xE000 == 0xE000 && hw1&0xF800 != 0xE000 {
			width = 4
			hw2, f = bus.ReadU16(addr + 2)
			if f != nil {
				break
			}
		}
		enc := decode.Classify(hw1, hw2)
		if width == 4 {
			fmt.Printf("%#08x: %04x %04x  %s\n", addr, hw1, hw2, enc)
		} else {
			fmt.Printf("%#08x: %04x       %s\n", addr, hw1, enc)
		}
		if enc == decode.Unsupported {
			break
		}
		addr += uint32(width)
	}
	return nil
}

func printTrace(c *cpu.Chip, color bool) {
	pc := c.InspectRegister(cpu.PC)
	if color {
		fmt.Printf("\x1b[36mPC=%#08x\x1b[0m N=%v Z=%v C=%v V=%v\n",
			pc, c.InspectFlag("N"), c.InspectFlag("Z"), c.InspectFlag("C"), c.InspectFlag("V"))
		return
	}
	fmt.Printf("PC=%#08x N=%v Z=%v C=%v V=%v\n",
		pc, c.InspectFlag("N"), c.InspectFlag("Z"), c.InspectFlag("C"), c.InspectFlag("V"))
}
