// Package archive implements the zstd-compressed NDJSON format used to ship
// ranking events to the offline training pipeline. One JSON object per line,
// whole stream zstd-framed; the format is append-friendly and line-parseable
// after decompression.
package archive

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"wayfarer/internal/types"
)

// maxLineBytes bounds a single NDJSON line. A ranking event carries the full
// candidate pool as id arrays, so lines can be large but never unbounded.
const maxLineBytes = 4 << 20

// WriteEvents encodes the ranking events as zstd-compressed NDJSON to w.
// Events are written in the order given; the archiver passes them ordered by
// day number so downstream consumers can stream sequentially.
func WriteEvents(w io.Writer, events []types.RankingEvent) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("archive: creating zstd writer: %w", err)
	}

	jsonEnc := json.NewEncoder(enc)
	for i, event := range events {
		// json.Encoder terminates each value with a newline, which is
		// exactly the NDJSON framing.
		if err := jsonEnc.Encode(event); err != nil {
			enc.Close()
			return fmt.Errorf("archive: encoding event %d: %w", i, err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("archive: flushing zstd stream: %w", err)
	}
	return nil
}

// ReadEvents decodes a zstd NDJSON stream back into ranking events. Blank
// lines are skipped; a malformed line aborts the read with its line number.
func ReadEvents(r io.Reader) ([]types.RankingEvent, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("archive: creating zstd reader: %w", err)
	}
	defer dec.Close()

	var events []types.RankingEvent

	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event types.RankingEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("archive: decoding line %d: %w", lineNo, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("archive: reading stream: %w", err)
	}

	return events, nil
}
