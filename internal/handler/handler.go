// Package handler implements C6: it executes a typed command against the
// shared store and produces exactly one reply. No handler retries, and a
// storage error never leaves a partial mutation visible.
package handler

import (
	"context"

	"github.com/flonle/rediskv/internal/command"
	"github.com/flonle/rediskv/internal/respio"
	"github.com/flonle/rediskv/internal/store"
)

type Handler struct {
	store *store.Store
}

func New(s *store.Store) *Handler {
	return &Handler{store: s}
}

// Execute dispatches cmd and returns its reply. ctx is only consulted by
// BLPOP: it is cancelled when the owning session's connection closes, so an
// outstanding wait is abandoned and Execute returns a nil array, which the
// session then has no open connection to write to.
func (h *Handler) Execute(ctx context.Context, cmd command.Command) respio.Reply {
	switch c := cmd.(type) {
	case command.Ping:
		return respio.SimpleString("PONG")

	case command.Echo:
		return respio.BulkString(c.Msg)

	case command.Set:
		h.store.Set(c.Key, c.Value, c.Expiry)
		return respio.OK

	case command.Get:
		val, ok, err := h.store.Get(c.Key)
		if err != nil {
			return wrongType(err)
		}
		if !ok {
			return respio.Nil
		}
		return respio.BulkString(val)

	case command.RPush:
		n, err := h.store.RPush(c.Key, c.Values...)
		if err != nil {
			return wrongType(err)
		}
		return respio.Integer(n)

	case command.LPush:
		n, err := h.store.LPush(c.Key, c.Values...)
		if err != nil {
			return wrongType(err)
		}
		return respio.Integer(n)

	case command.LRange:
		vals, err := h.store.LRange(c.Key, c.Start, c.Stop)
		if err != nil {
			return wrongType(err)
		}
		return bulkArray(vals)

	case command.LLen:
		n, err := h.store.LLen(c.Key)
		if err != nil {
			return wrongType(err)
		}
		return respio.Integer(n)

	case command.LPop:
		single, multi, found, err := h.store.LPop(c.Key, c.HasCount, c.Count)
		if err != nil {
			return wrongType(err)
		}
		if c.HasCount {
			return bulkArray(multi)
		}
		if !found {
			return respio.Nil
		}
		return respio.BulkString(single)

	case command.BLPop:
		val, ok, err := h.store.BLPop(ctx, c.Key, c.Timeout)
		if err != nil {
			return wrongType(err)
		}
		if !ok {
			return respio.NilArray{}
		}
		return respio.Array{respio.BulkString(c.Key), respio.BulkString(val)}

	case command.XAdd:
		id, err := h.store.XAdd(c.Key, c.IDSpec, toStoreFields(c.Fields))
		if err != nil {
			return semanticError(err)
		}
		return respio.BulkString(id)

	case command.XRange:
		entries, err := h.store.XRange(c.Key, c.Start, c.End)
		if err != nil {
			return semanticError(err)
		}
		return streamEntriesReply(entries)

	case command.XRead:
		results, err := h.store.XRead(toStoreQueries(c.Queries))
		if err != nil {
			return semanticError(err)
		}
		if results == nil {
			return respio.NilArray{}
		}
		return xreadReply(results)

	case command.Type:
		return respio.SimpleString(h.store.Type(c.Key))

	case command.Keys:
		keys := h.store.Keys()
		vals := make([][]byte, len(keys))
		for i, k := range keys {
			vals[i] = []byte(k)
		}
		return bulkArray(vals)

	case command.ConfigGet:
		// Neither RDB directory nor filename is backed by real configuration
		// in this server; reply with an empty array the way a fresh Redis
		// instance would for an unknown parameter.
		return respio.Array{}

	default:
		return respio.Errf("ERR", "unhandled command type")
	}
}

// wrongType and semanticError share an implementation: every error the
// store layer returns already carries its own token (WRONGTYPE or ERR), so
// there's nothing left to decide here beyond wrapping it as a reply.
func wrongType(err error) respio.Reply     { return respio.Err(err.Error()) }
func semanticError(err error) respio.Reply { return respio.Err(err.Error()) }

func bulkArray(vals [][]byte) respio.Array {
	arr := make(respio.Array, len(vals))
	for i, v := range vals {
		arr[i] = respio.BulkString(v)
	}
	return arr
}

func toStoreFields(fields []command.Field) []store.Field {
	out := make([]store.Field, len(fields))
	for i, f := range fields {
		out[i] = store.Field{Name: f.Name, Value: f.Value}
	}
	return out
}

func toStoreQueries(queries []command.XReadQuery) []store.XReadQuery {
	out := make([]store.XReadQuery, len(queries))
	for i, q := range queries {
		out[i] = store.XReadQuery{Key: q.Key, After: q.After}
	}
	return out
}

func streamEntryReply(e store.StreamEntry) respio.Array {
	fieldVals := make(respio.Array, 0, len(e.Fields)*2)
	for _, fv := range e.Fields {
		fieldVals = append(fieldVals, respio.BulkString(fv.Name), respio.BulkString(fv.Value))
	}
	return respio.Array{respio.BulkString(e.ID), fieldVals}
}

func streamEntriesReply(entries []store.StreamEntry) respio.Array {
	out := make(respio.Array, len(entries))
	for i, e := range entries {
		out[i] = streamEntryReply(e)
	}
	return out
}

func xreadReply(results []store.XReadResult) respio.Array {
	out := make(respio.Array, len(results))
	for i, r := range results {
		out[i] = respio.Array{respio.BulkString(r.Key), streamEntriesReply(r.Entries)}
	}
	return out
}
