package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophmail/internal/common"
)

var (
	ErrFrameTooLarge = fmt.Errorf("%w: frame too large", common.ErrTransport)
	ErrMalformed     = fmt.Errorf("%w: malformed frame", common.ErrTransport)
)

// Decoder reads newline-terminated JSON frames of at most max bytes,
// excluding the "\n" or "\r\n" terminator.
type Decoder struct {
	r   *bufio.Reader
	max int
}

func NewDecoder(r io.Reader, max int) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, max+2), max: max}
}

// Decode reads the next frame into v. Blank lines are skipped. It returns
// io.EOF at a clean end of stream, ErrFrameTooLarge for an oversized frame
// and ErrMalformed when the frame is not a JSON object of v's shape.
func (d *Decoder) Decode(v any) error {
	for {
		line, err := d.r.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			return ErrFrameTooLarge
		}
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return err
		}

		line = bytes.TrimSuffix(line, []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(line) > d.max {
			return ErrFrameTooLarge
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err != nil {
				return io.EOF
			}
			continue
		}

		if jsonErr := json.Unmarshal(line, v); jsonErr != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, jsonErr)
		}
		return nil
	}
}

// Encoder writes one frame per call with a single Write.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if _, err := e.w.Write(b); err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransport, err)
	}
	return nil
}
