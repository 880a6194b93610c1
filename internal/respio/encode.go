package respio

import "strconv"

const crlf = "\r\n"

// Encoder serializes Reply values into RESP bytes. It owns a reusable buffer
// so a session can encode one reply after another without allocating a fresh
// slice each time. It covers the full reply alphabet this server needs:
// simple string, error, integer, bulk string and its nil, array and its nil.
type Encoder struct {
	buf []byte
}

// Reset clears the buffer for reuse.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// Encode serializes r into the encoder's buffer, replacing whatever was there
// before, and returns it. The returned slice is only valid until the next
// call to Encode or Reset.
func (e *Encoder) Encode(r Reply) []byte {
	e.buf = e.buf[:0]
	e.write(r)
	return e.buf
}

func (e *Encoder) write(r Reply) {
	switch v := r.(type) {
	case SimpleString:
		e.buf = append(e.buf, '+')
		e.buf = append(e.buf, v...)
		e.buf = append(e.buf, crlf...)
	case Err:
		e.buf = append(e.buf, '-')
		e.buf = append(e.buf, v...)
		e.buf = append(e.buf, crlf...)
	case Integer:
		e.buf = append(e.buf, ':')
		e.buf = strconv.AppendInt(e.buf, int64(v), 10)
		e.buf = append(e.buf, crlf...)
	case BulkString:
		e.buf = append(e.buf, '$')
		e.buf = strconv.AppendInt(e.buf, int64(len(v)), 10)
		e.buf = append(e.buf, crlf...)
		e.buf = append(e.buf, v...)
		e.buf = append(e.buf, crlf...)
	case NilBulk:
		e.buf = append(e.buf, "$-1\r\n"...)
	case NilArray:
		e.buf = append(e.buf, "*-1\r\n"...)
	case Array:
		e.buf = append(e.buf, '*')
		e.buf = strconv.AppendInt(e.buf, int64(len(v)), 10)
		e.buf = append(e.buf, crlf...)
		for _, elem := range v {
			e.write(elem)
		}
	default:
		panic("respio: unknown reply type")
	}
}
