package respio

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(s string) *bufio.Reader {
	return bufio.NewReader(bytes.NewBufferString(s))
}

func TestDecodeCommandSimple(t *testing.T) {
	r := frame("*2\r\n$4\r\nECHO\r\n$2\r\nhi\r\n")
	got, err := DecodeCommand(r)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("ECHO"), []byte("hi")}, got)
}

func TestDecodeCommandEmptyBulk(t *testing.T) {
	r := frame("*1\r\n$0\r\n\r\n")
	got, err := DecodeCommand(r)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []byte{}, got[0])
}

func TestDecodeCommandBinarySafe(t *testing.T) {
	r := frame("*1\r\n$3\r\na\rb\r\n")
	got, err := DecodeCommand(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', '\r', 'b'}, got[0])
}

func TestDecodeCommandPipelined(t *testing.T) {
	r := frame("*1\r\n$4\r\nPING\r\n*1\r\n$4\r\nPING\r\n")
	for i := 0; i < 2; i++ {
		got, err := DecodeCommand(r)
		require.NoError(t, err)
		assert.Equal(t, [][]byte{[]byte("PING")}, got)
	}
}

func TestDecodeCommandIncompleteThenEOF(t *testing.T) {
	r := frame("*2\r\n$4\r\nECHO\r\n")
	_, err := DecodeCommand(r)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeCommandNotAnArray(t *testing.T) {
	r := frame("$4\r\nPING\r\n")
	_, err := DecodeCommand(r)
	assert.True(t, errors.Is(err, ErrProtocol))
}

func TestDecodeCommandBadArrayLength(t *testing.T) {
	r := frame("*x\r\n")
	_, err := DecodeCommand(r)
	assert.True(t, errors.Is(err, ErrProtocol))
}

func TestDecodeCommandBadBulkHeader(t *testing.T) {
	r := frame("*1\r\n:4\r\n")
	_, err := DecodeCommand(r)
	assert.True(t, errors.Is(err, ErrProtocol))
}

func TestDecodeCommandMissingTerminator(t *testing.T) {
	r := frame("*1\r\n$2\r\nhiXX")
	_, err := DecodeCommand(r)
	assert.True(t, errors.Is(err, ErrProtocol) || errors.Is(err, io.EOF))
}

func TestDecodeCommandZeroArity(t *testing.T) {
	r := frame("*0\r\n")
	got, err := DecodeCommand(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}
