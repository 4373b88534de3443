package crypto

import "io"

// readerSource adapts an io.Reader to WordSource.
type readerSource struct{ r io.Reader }

func (s readerSource) RandomWords(n int) ([]uint32, error) {
	buf := make([]byte, 4*n)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(buf[4*i])<<24 | uint32(buf[4*i+1])<<16 | uint32(buf[4*i+2])<<8 | uint32(buf[4*i+3])
	}
	return out, nil
}

// ReaderSourceForTesting returns a WordSource that reads from r.
// This is intended for testing only: production padding must draw from the
// entropy-gated generator.
// Since this package is internal, this function cannot be accessed by external code.
func ReaderSourceForTesting(r io.Reader) WordSource {
	return readerSource{r: r}
}
