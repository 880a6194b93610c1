// Package respio implements the RESP (REdis Serialization Protocol) wire
// format: a streaming decoder that frames inbound commands as arrays of bulk
// strings, and an encoder for the full reply alphabet.
package respio

import "fmt"

// Reply is the closed set of values the encoder knows how to serialize. It is
// a tagged union in the sense of DESIGN.md: dispatch on the concrete type is
// the only way a caller distinguishes one reply from another.
type Reply interface {
	isReply()
}

// SimpleString encodes as "+<s>\r\n".
type SimpleString string

// Err encodes as "-<msg>\r\n". The message conventionally starts with a short
// upper-case token such as ERR or WRONGTYPE.
type Err string

// Integer encodes as ":<n>\r\n".
type Integer int64

// BulkString encodes as "$<len>\r\n<bytes>\r\n". It is binary safe.
type BulkString []byte

// NilBulk encodes as "$-1\r\n".
type NilBulk struct{}

// Array encodes as "*<n>\r\n" followed by each element in order.
type Array []Reply

// NilArray encodes as "*-1\r\n".
type NilArray struct{}

func (SimpleString) isReply() {}
func (Err) isReply()          {}
func (Integer) isReply()      {}
func (BulkString) isReply()   {}
func (NilBulk) isReply()      {}
func (Array) isReply()        {}
func (NilArray) isReply()     {}

// Nil is the BulkString nil reply, used pervasively enough to warrant a name.
var Nil = NilBulk{}

// OK is the standard "+OK\r\n" reply SET and friends return.
var OK = SimpleString("OK")

// Errf builds an Err reply the way the command layer reports semantic and
// syntax failures: a token, a space, a message.
func Errf(token, format string, args ...any) Err {
	msg := token
	if format != "" {
		msg = token + " " + fmt.Sprintf(format, args...)
	}
	return Err(msg)
}
