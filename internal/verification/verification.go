// Package verification verifies that a generated listing recreates the input.
package verification

import (
	"bytes"
	"context"
	"fmt"

	"github.com/retroenv/retrochip8/internal/asm"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

const maxLoggedMismatches = 10

// VerifyListing assembles the listing and compares the result to the
// program image it was generated from.
func VerifyListing(ctx context.Context, logger *log.Logger, listing *disasm.Listing, image []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("verifying listing: %w", err)
	}

	var buf bytes.Buffer
	if err := listing.Write(&buf); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}

	assembler := asm.New(logger)
	output, err := assembler.Assemble("verify.asm", buf.String())
	if err != nil {
		return fmt.Errorf("reassembling listing: %w", err)
	}

	if err := checkBufferEqual(logger, image, output); err != nil {
		return fmt.Errorf("program mismatch: %w", err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs <= maxLoggedMismatches {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
