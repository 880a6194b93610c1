package respio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeSimpleString(t *testing.T) {
	var e Encoder
	assert.Equal(t, []byte("+OK\r\n"), e.Encode(SimpleString("OK")))
}

func TestEncodeErr(t *testing.T) {
	var e Encoder
	assert.Equal(t, []byte("-ERR bad\r\n"), e.Encode(Err("ERR bad")))
}

func TestEncodeInteger(t *testing.T) {
	var e Encoder
	assert.Equal(t, []byte(":-7\r\n"), e.Encode(Integer(-7)))
}

func TestEncodeBulkString(t *testing.T) {
	var e Encoder
	assert.Equal(t, []byte("$5\r\nhello\r\n"), e.Encode(BulkString("hello")))
}

func TestEncodeEmptyBulkString(t *testing.T) {
	var e Encoder
	assert.Equal(t, []byte("$0\r\n\r\n"), e.Encode(BulkString{}))
}

func TestEncodeNilBulk(t *testing.T) {
	var e Encoder
	assert.Equal(t, []byte("$-1\r\n"), e.Encode(NilBulk{}))
}

func TestEncodeNilArray(t *testing.T) {
	var e Encoder
	assert.Equal(t, []byte("*-1\r\n"), e.Encode(NilArray{}))
}

func TestEncodeArray(t *testing.T) {
	var e Encoder
	got := e.Encode(Array{BulkString("a"), Integer(1), NilBulk{}})
	assert.Equal(t, []byte("*3\r\n$1\r\na\r\n:1\r\n$-1\r\n"), got)
}

func TestEncodeNestedArray(t *testing.T) {
	var e Encoder
	got := e.Encode(Array{Array{BulkString("x"), BulkString("y")}})
	assert.Equal(t, []byte("*1\r\n*2\r\n$1\r\nx\r\n$1\r\ny\r\n"), got)
}

func TestEncodeReusesBuffer(t *testing.T) {
	var e Encoder
	first := e.Encode(SimpleString("PONG"))
	assert.Equal(t, []byte("+PONG\r\n"), first)
	second := e.Encode(Integer(42))
	assert.Equal(t, []byte(":42\r\n"), second)
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	r := frame("*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n")
	parts, err := DecodeCommand(r)
	assert.NoError(t, err)

	var e Encoder
	arr := make(Array, len(parts))
	for i, p := range parts {
		arr[i] = BulkString(p)
	}
	assert.Equal(t, []byte("*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n"), e.Encode(arr))
}
