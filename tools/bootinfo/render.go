package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
	"unsafe"

	"github.com/spf13/cobra"

	"github.com/axiomos/axiomos/kernel/driver/tty"
	"github.com/axiomos/axiomos/kernel/driver/video/console"
	"github.com/axiomos/axiomos/kernel/hal/multiboot"
	"github.com/axiomos/axiomos/kernel/kfmt"
	"github.com/axiomos/axiomos/kernel/kmain"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <info.bin>",
		Short: "Print the boot report the kernel would display for a block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRenderConfig(cmd.Flags())
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read block: %w", err)
			}

			return renderBlock(cmd.OutOrStdout(), data, cfg)
		},
	}

	cmd.Flags().Int("width", int(console.EgaWidth), "console width in characters")
	cmd.Flags().Int("height", int(console.EgaHeight), "console height in characters")
	cmd.Flags().Bool("screen", false, "print the final console contents instead of the raw report")

	return cmd
}

// emulatedConsole runs a terminal over an in-memory character grid.
type emulatedConsole struct {
	fb   []uint16
	cons console.Ega
	term tty.Vt

	transcript strings.Builder
}

func newEmulatedConsole(width, height uint16) *emulatedConsole {
	ec := &emulatedConsole{fb: make([]uint16, int(width)*int(height))}
	ec.cons.Init(width, height, uintptr(unsafe.Pointer(&ec.fb[0])))
	ec.term.AttachTo(&ec.cons)
	ec.term.Clear()
	return ec
}

func (ec *emulatedConsole) Write(p []byte) (int, error) {
	ec.transcript.Write(p)
	return ec.term.Write(p)
}

// dumpScreen writes every console row with trailing blanks removed.
func (ec *emulatedConsole) dumpScreen(w io.Writer) error {
	width, height := ec.cons.Dimensions()
	row := make([]byte, width)

	for y := uint16(0); y < height; y++ {
		for x := uint16(0); x < width; x++ {
			row[x], _ = ec.cons.Read(x, y)
		}

		if _, err := fmt.Fprintf(w, "%s\n", strings.TrimRight(string(row), " ")); err != nil {
			return err
		}
	}

	return nil
}

// bootInfoHeaderSize is the size of the total_size and reserved fields.
const bootInfoHeaderSize = 8

// alignedCopy returns a copy of data starting at an 8-byte aligned address
// as required by multiboot.Load.
func alignedCopy(data []byte) []byte {
	backing := make([]uint64, len(data)/8+1)
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&backing[0])), len(backing)*8)
	return buf[:copy(buf, data)]
}

// renderBlock parses data with the kernel's boot information parser and runs
// the kernel boot report on an emulated console. Errors are shown with the
// kernel panic banner before being returned.
func renderBlock(w io.Writer, data []byte, cfg RenderConfig) error {
	if len(data) < bootInfoHeaderSize {
		return fmt.Errorf("truncated boot information block: header needs %d bytes; file has %d", bootInfoHeaderSize, len(data))
	}

	// The kernel trusts total_size because the boot loader sizes the block;
	// a file on disk gives no such guarantee.
	if totalSize := binary.LittleEndian.Uint32(data[0:4]); uint64(totalSize) > uint64(len(data)) {
		return fmt.Errorf("truncated boot information block: total_size is %d bytes; file has %d", totalSize, len(data))
	}

	block := alignedCopy(data)
	ec := newEmulatedConsole(cfg.Width, cfg.Height)

	info, kerr := multiboot.Load(uintptr(unsafe.Pointer(&block[0])))
	if kerr == nil {
		kerr = kmain.WriteBootReport(ec, &info)
	}

	if kerr != nil {
		kfmt.FprintPanic(ec, kerr)
	}

	var err error
	if cfg.Screen {
		err = ec.dumpScreen(w)
	} else {
		_, err = io.WriteString(w, ec.transcript.String())
	}

	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if kerr != nil {
		return fmt.Errorf("boot report: %w", kerr)
	}

	return nil
}
