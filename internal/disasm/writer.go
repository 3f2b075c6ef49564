package disasm

import (
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/vm"
)

// Write writes the listing as assembly source.
func (l *Listing) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "; CHIP-8 program disassembly\n"); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(w, "; CRC32 checksum: %08x\n", l.Checksum); err != nil {
		return fmt.Errorf("writing checksum: %w", err)
	}
	if _, err := fmt.Fprintf(w, "; Program starts at $%03X, %d bytes\n\n", vm.ProgramStart, l.Size); err != nil {
		return fmt.Errorf("writing program start comment: %w", err)
	}

	for i, line := range l.Lines {
		if err := writeLabel(w, i, line); err != nil {
			return err
		}
		if err := writeCode(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeLabel(w io.Writer, index int, line Line) error {
	if line.Label == "" {
		return nil
	}
	if index > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "%s:\n", line.Label); err != nil {
		return fmt.Errorf("writing label %s: %w", line.Label, err)
	}
	return nil
}

func writeCode(w io.Writer, line Line) error {
	code := "    " + line.Code

	if line.Comment == "" {
		if _, err := fmt.Fprintf(w, "%s\n", code); err != nil {
			return fmt.Errorf("writing code: %w", err)
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, "%-32s ; %s\n", code, line.Comment); err != nil {
		return fmt.Errorf("writing code with comment: %w", err)
	}
	return nil
}
