// Package codec provides compression and decompression for stored artifacts
// such as opening-database partitions and analyzed-game datasets.
package codec

import "io"

// Codec provides compression and decompression functionality.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst").
	// Returns empty string for no compression.
	Extension() string
}
