package chunked

import (
	"bytes"
	"errors"
)

var (
	ErrMalformed   = errors.New("malformed chunked encoding")
	ErrSizeTooLong = errors.New("http chunk length too large")
)

// maxLineLength bounds chunk size and trailer lines.
const maxLineLength = 4096

type state int

const (
	stateSize state = iota
	stateData
	stateDataEnd
	stateTrailer
	stateDone
)

// Decoder incrementally decodes a chunked message body held in a
// growing buffer. Trailer fields are consumed and dropped.
type Decoder struct {
	state state
	left  uint64
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode consumes as much of buf as it could, handing chunk data to
// emit. The slice passed to emit is only valid during the call. done is
// true once the last chunk and the trailer section are consumed.
func (d *Decoder) Decode(buf *bytes.Buffer, emit func([]byte)) (done bool, err error) {
	for {
		switch d.state {
		case stateSize:
			line, ok, err := readLine(buf)
			if err != nil || !ok {
				return false, err
			}
			size, err := parseChunkSize(line)
			if err != nil {
				return false, err
			}
			if size == 0 {
				d.state = stateTrailer
			} else {
				d.left, d.state = size, stateData
			}
		case stateData:
			if buf.Len() == 0 {
				return false, nil
			}
			n := uint64(buf.Len())
			if n > d.left {
				n = d.left
			}
			emit(buf.Next(int(n)))
			if d.left -= n; d.left > 0 {
				return false, nil
			}
			d.state = stateDataEnd
		case stateDataEnd:
			b := buf.Bytes()
			switch {
			case len(b) > 0 && b[0] == '\n':
				buf.Next(1)
			case len(b) < 2:
				return false, nil
			case b[0] == '\r' && b[1] == '\n':
				buf.Next(2)
			default:
				return false, ErrMalformed
			}
			d.state = stateSize
		case stateTrailer:
			line, ok, err := readLine(buf)
			if err != nil || !ok {
				return false, err
			}
			if len(line) == 0 {
				d.state = stateDone
			}
		case stateDone:
			return true, nil
		}
	}
}

// readLine takes a LF terminated line off buf, without the line ending.
func readLine(buf *bytes.Buffer) (line []byte, ok bool, err error) {
	i := bytes.IndexByte(buf.Bytes(), '\n')
	if i < 0 {
		if buf.Len() > maxLineLength {
			return nil, false, ErrMalformed
		}
		return nil, false, nil
	}
	line = buf.Next(i + 1)
	line = line[:len(line)-1]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line, true, nil
}

func parseChunkSize(line []byte) (size uint64, err error) {
	if i := bytes.IndexByte(line, ';'); i >= 0 {
		line = line[:i] // chunk extensions are ignored
	}
	line = bytes.TrimRight(line, " \t")
	if len(line) == 0 {
		return 0, ErrMalformed
	}
	if len(line) > 16 {
		return 0, ErrSizeTooLong
	}
	for _, b := range line {
		switch {
		case '0' <= b && b <= '9':
			b = b - '0'
		case 'a' <= b && b <= 'f':
			b = b - 'a' + 10
		case 'A' <= b && b <= 'F':
			b = b - 'A' + 10
		default:
			return 0, errors.New("invalid byte in chunk length")
		}
		size <<= 4
		size |= uint64(b)
	}
	if size > 1<<62 {
		return 0, ErrSizeTooLong
	}
	return size, nil
}
