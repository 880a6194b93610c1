// Package command turns a decoded RESP frame into a typed command value
// (C3). Parsing here is pure: it never touches storage, and a malformed
// frame yields a SyntaxError without side effects.
package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Command is the sum type every recognized frame parses into. Handlers
// switch on the concrete type (see internal/handler).
type Command interface {
	isCommand()
}

// SyntaxError is a parse-time failure: bad arity, an unknown option, or an
// argument that doesn't parse as the type it's declared to be. Its Error()
// is already shaped as a RESP error message body (token plus text).
type SyntaxError struct {
	msg string
}

func (e *SyntaxError) Error() string { return e.msg }

func syntaxErrf(format string, args ...any) *SyntaxError {
	return &SyntaxError{msg: fmt.Sprintf(format, args...)}
}

type Ping struct{}

type Echo struct{ Msg []byte }

type Set struct {
	Key    string
	Value  []byte
	Expiry time.Time // zero value means no expiry
}

type Get struct{ Key string }

type RPush struct {
	Key    string
	Values [][]byte
}

type LPush struct {
	Key    string
	Values [][]byte
}

type LRange struct {
	Key         string
	Start, Stop int
}

type LLen struct{ Key string }

type LPop struct {
	Key      string
	HasCount bool
	Count    int
}

type BLPop struct {
	Key     string
	Timeout time.Duration // zero means block indefinitely
}

// Field is one (name, value) pair of an XADD call, kept in argument order.
type Field struct {
	Name  []byte
	Value []byte
}

type XAdd struct {
	Key    string
	IDSpec string
	Fields []Field
}

type XRange struct {
	Key, Start, End string
}

// XReadQuery is one (key, after-id) pair from an XREAD STREAMS clause.
type XReadQuery struct {
	Key, After string
}

type XRead struct {
	Queries []XReadQuery
}

type Type struct{ Key string }

// Keys and ConfigGet are not part of the core spec; they're kept around
// because a real client (redis-cli included) probes them on connect.
type Keys struct{}

type ConfigGet struct{ Param string }

func (Ping) isCommand()       {}
func (Echo) isCommand()       {}
func (Set) isCommand()        {}
func (Get) isCommand()        {}
func (RPush) isCommand()      {}
func (LPush) isCommand()      {}
func (LRange) isCommand()     {}
func (LLen) isCommand()       {}
func (LPop) isCommand()       {}
func (BLPop) isCommand()      {}
func (XAdd) isCommand()       {}
func (XRange) isCommand()     {}
func (XRead) isCommand()      {}
func (Type) isCommand()       {}
func (Keys) isCommand()       {}
func (ConfigGet) isCommand()  {}

// Parse turns a decoded frame (first element the command name) into a typed
// Command. frame must be non-empty; the caller (the session loop) never
// hands Parse an empty array.
func Parse(frame [][]byte) (Command, error) {
	name := strings.ToLower(string(frame[0]))
	switch name {
	case "ping":
		return parsePing(frame)
	case "echo":
		return parseEcho(frame)
	case "set":
		return parseSet(frame)
	case "get":
		return parseGet(frame)
	case "rpush":
		return parsePush(frame, func(key string, vals [][]byte) Command { return RPush{Key: key, Values: vals} })
	case "lpush":
		return parsePush(frame, func(key string, vals [][]byte) Command { return LPush{Key: key, Values: vals} })
	case "lrange":
		return parseLRange(frame)
	case "llen":
		return parseLLen(frame)
	case "lpop":
		return parseLPop(frame)
	case "blpop":
		return parseBLPop(frame)
	case "xadd":
		return parseXAdd(frame)
	case "xrange":
		return parseXRange(frame)
	case "xread":
		return parseXRead(frame)
	case "type":
		return parseType(frame)
	case "keys":
		return parseKeys(frame)
	case "config":
		return parseConfig(frame)
	default:
		return nil, syntaxErrf("ERR unknown command '%s'", string(frame[0]))
	}
}

func arity(frame [][]byte, name string, n int) error {
	if len(frame) != n {
		return syntaxErrf("ERR wrong number of arguments for '%s' command", name)
	}
	return nil
}

func parsePing(frame [][]byte) (Command, error) {
	if err := arity(frame, "ping", 1); err != nil {
		return nil, err
	}
	return Ping{}, nil
}

func parseEcho(frame [][]byte) (Command, error) {
	if err := arity(frame, "echo", 2); err != nil {
		return nil, err
	}
	return Echo{Msg: frame[1]}, nil
}

func parseSet(frame [][]byte) (Command, error) {
	if len(frame) != 3 && len(frame) != 5 {
		return nil, syntaxErrf("ERR wrong number of arguments for 'set' command")
	}
	cmd := Set{Key: string(frame[1]), Value: frame[2]}
	if len(frame) == 5 {
		opt := strings.ToLower(string(frame[3]))
		n, err := strconv.Atoi(string(frame[4]))
		if err != nil || n < 0 {
			return nil, syntaxErrf("ERR value is not an integer or out of range")
		}
		switch opt {
		case "ex":
			cmd.Expiry = time.Now().Add(time.Duration(n) * time.Second)
		case "px":
			cmd.Expiry = time.Now().Add(time.Duration(n) * time.Millisecond)
		default:
			return nil, syntaxErrf("ERR syntax error")
		}
	}
	return cmd, nil
}

func parseGet(frame [][]byte) (Command, error) {
	if err := arity(frame, "get", 2); err != nil {
		return nil, err
	}
	return Get{Key: string(frame[1])}, nil
}

func parsePush(frame [][]byte, build func(string, [][]byte) Command) (Command, error) {
	if len(frame) < 3 {
		return nil, syntaxErrf("ERR wrong number of arguments for '%s' command", strings.ToLower(string(frame[0])))
	}
	return build(string(frame[1]), frame[2:]), nil
}

func parseLRange(frame [][]byte) (Command, error) {
	if err := arity(frame, "lrange", 4); err != nil {
		return nil, err
	}
	start, err := strconv.Atoi(string(frame[2]))
	if err != nil {
		return nil, syntaxErrf("ERR value is not an integer or out of range")
	}
	stop, err := strconv.Atoi(string(frame[3]))
	if err != nil {
		return nil, syntaxErrf("ERR value is not an integer or out of range")
	}
	return LRange{Key: string(frame[1]), Start: start, Stop: stop}, nil
}

func parseLLen(frame [][]byte) (Command, error) {
	if err := arity(frame, "llen", 2); err != nil {
		return nil, err
	}
	return LLen{Key: string(frame[1])}, nil
}

func parseLPop(frame [][]byte) (Command, error) {
	if len(frame) != 2 && len(frame) != 3 {
		return nil, syntaxErrf("ERR wrong number of arguments for 'lpop' command")
	}
	cmd := LPop{Key: string(frame[1])}
	if len(frame) == 3 {
		n, err := strconv.Atoi(string(frame[2]))
		if err != nil {
			return nil, syntaxErrf("ERR value is not an integer or out of range")
		}
		cmd.HasCount = true
		cmd.Count = n
	}
	return cmd, nil
}

func parseBLPop(frame [][]byte) (Command, error) {
	if err := arity(frame, "blpop", 3); err != nil {
		return nil, err
	}
	seconds, err := strconv.ParseFloat(string(frame[2]), 64)
	if err != nil || seconds < 0 {
		return nil, syntaxErrf("ERR timeout is not a float or out of range")
	}
	return BLPop{Key: string(frame[1]), Timeout: time.Duration(seconds * float64(time.Second))}, nil
}

func parseXAdd(frame [][]byte) (Command, error) {
	if len(frame) < 5 || len(frame)%2 == 0 {
		return nil, syntaxErrf("ERR wrong number of arguments for 'xadd' command")
	}
	pairs := frame[3:]
	fields := make([]Field, len(pairs)/2)
	for i := range fields {
		fields[i] = Field{Name: pairs[2*i], Value: pairs[2*i+1]}
	}
	return XAdd{Key: string(frame[1]), IDSpec: string(frame[2]), Fields: fields}, nil
}

func parseXRange(frame [][]byte) (Command, error) {
	if err := arity(frame, "xrange", 4); err != nil {
		return nil, err
	}
	return XRange{Key: string(frame[1]), Start: string(frame[2]), End: string(frame[3])}, nil
}

func parseXRead(frame [][]byte) (Command, error) {
	if len(frame) < 4 || !strings.EqualFold(string(frame[1]), "streams") {
		return nil, syntaxErrf("ERR syntax error")
	}
	rest := frame[2:]
	if len(rest)%2 != 0 {
		return nil, syntaxErrf("ERR Unbalanced XREAD list of streams: for each stream key an ID or '$' must be specified.")
	}
	n := len(rest) / 2
	queries := make([]XReadQuery, n)
	for i := 0; i < n; i++ {
		queries[i] = XReadQuery{Key: string(rest[i]), After: string(rest[n+i])}
	}
	return XRead{Queries: queries}, nil
}

func parseType(frame [][]byte) (Command, error) {
	if err := arity(frame, "type", 2); err != nil {
		return nil, err
	}
	return Type{Key: string(frame[1])}, nil
}

func parseKeys(frame [][]byte) (Command, error) {
	if err := arity(frame, "keys", 2); err != nil {
		return nil, err
	}
	return Keys{}, nil
}

func parseConfig(frame [][]byte) (Command, error) {
	if len(frame) != 3 || !strings.EqualFold(string(frame[1]), "get") {
		return nil, syntaxErrf("ERR syntax error")
	}
	return ConfigGet{Param: string(frame[2])}, nil
}
