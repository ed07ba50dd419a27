// Package hexload implements the Intel-HEX image loader (spec.md
// section 4.7): parsing a firmware image's text records and writing its
// payload bytes into a memory bus's flash window. Grounded on the
// teacher's convertprg (a binary-image loader with a load-address
// header), generalized here to the text-record, checksum-validated
// Intel-HEX format.
package hexload

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/jmchacon/rp2350sim/memory"
)

// Record types honored by this loader (spec.md section 6).
const (
	recData                  = 0x00
	recEndOfFile              = 0x01
	recExtendedLinearAddress = 0x04
)

// LoaderError is the structured error returned for any malformed line,
// following the teacher's typed-error-with-Reason convention
// (cpu.InvalidCPUState).
type LoaderError struct {
	Line   int
	Reason string
}

func (e LoaderError) Error() string {
	return fmt.Sprintf("hexload: line %d: %s", e.Line, e.Reason)
}

// Load parses text as an Intel-HEX image and writes every data record's
// payload into bus's flash window. Unknown record types other than
// 00/01/04 are skipped with a logged warning rather than failing the
// load (spec.md section 6); malformed lines (bad length, bad checksum,
// truncated) return a LoaderError naming the offending line. Data
// records that precede any type-04 record are placed relative to the
// base of flash; a type-04 record replaces that base with an absolute
// one.
func Load(bus *memory.Bus, text string) error {
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	addrBase := uint32(memory.FlashBase)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			return LoaderError{Line: lineNo, Reason: "record does not start with ':'"}
		}

		raw, err := hex.DecodeString(line[1:])
		if err != nil {
			return LoaderError{Line: lineNo, Reason: "invalid hex digits"}
		}
		if len(raw) < 5 {
			return LoaderError{Line: lineNo, Reason: "record too short"}
		}

		byteCount := int(raw[0])
		addr := uint16(raw[1])<<8 | uint16(raw[2])
		recType := raw[3]
		if len(raw) != byteCount+5 {
			return LoaderError{Line: lineNo, Reason: "byte count does not match record length"}
		}
		payload := raw[4 : 4+byteCount]
		checksum := raw[4+byteCount]

		var sum uint8
		for _, b := range raw[:len(raw)-1] {
			sum += b
		}
		if uint8(-sum) != checksum {
			return LoaderError{Line: lineNo, Reason: "checksum mismatch"}
		}

		switch recType {
		case recData:
			target := addrBase + uint32(addr)
			if target < memory.FlashBase || target+uint32(len(payload)) > memory.FlashBase+memory.FlashSize {
				return LoaderError{Line: lineNo, Reason: fmt.Sprintf("address %#08x out of flash range", target)}
			}
			if err := bus.WriteFlash(target, payload); err != nil {
				return LoaderError{Line: lineNo, Reason: err.Error()}
			}
		case recEndOfFile:
			return nil
		case recExtendedLinearAddress:
			if byteCount != 2 {
				return LoaderError{Line: lineNo, Reason: "extended linear address record must carry 2 payload bytes"}
			}
			addrBase = (uint32(payload[0])<<8 | uint32(payload[1])) << 16
		default:
			// Unknown record type: skipped per spec.md section 6, not
			// fatal.
			log.Printf("hexload: line %d: skipping unknown record type %#02x", lineNo, recType)
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return LoaderError{Line: lineNo, Reason: err.Error()}
	}
	return nil
}
