package store

// RPush implements RPUSH: append values in argument order, create the list
// if absent, then wake any BLPOP waiters before returning the new length.
func (s *Store) RPush(key string, values ...[]byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, found := s.lookup(key)
	if !found {
		r = &record{kind: kindList}
		s.keys[key] = r
	} else if r.kind != kindList {
		return 0, ErrWrongType
	}

	r.list = append(r.list, values...)
	length := len(r.list)
	s.wakeWaiters(key, r)
	return length, nil
}

// LPush implements LPUSH: each value is prepended in turn, so the final
// order of the pushed run is the reverse of the arguments given.
func (s *Store) LPush(key string, values ...[]byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, found := s.lookup(key)
	if !found {
		r = &record{kind: kindList}
		s.keys[key] = r
	} else if r.kind != kindList {
		return 0, ErrWrongType
	}

	prepended := make([][]byte, len(values))
	for i, v := range values {
		prepended[len(values)-1-i] = v
	}
	r.list = append(prepended, r.list...)
	length := len(r.list)
	s.wakeWaiters(key, r)
	return length, nil
}

// LRange implements LRANGE: both bounds inclusive, negative indices counted
// from the end, clamped rather than erroring out of range.
func (s *Store) LRange(key string, start, stop int) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, found := s.lookup(key)
	if !found {
		return [][]byte{}, nil
	}
	if r.kind != kindList {
		return nil, ErrWrongType
	}

	length := len(r.list)
	start = normalizeIndex(start, length)
	stop = normalizeIndex(stop, length)
	if start < 0 {
		start = 0
	}
	if stop > length-1 {
		stop = length - 1
	}
	if start > stop {
		return [][]byte{}, nil
	}
	out := make([][]byte, stop-start+1)
	copy(out, r.list[start:stop+1])
	return out, nil
}

func normalizeIndex(idx, length int) int {
	if idx < 0 {
		return length + idx
	}
	return idx
}

// LLen implements LLEN: 0 for an absent key.
func (s *Store) LLen(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, found := s.lookup(key)
	if !found {
		return 0, nil
	}
	if r.kind != kindList {
		return 0, ErrWrongType
	}
	return len(r.list), nil
}

// LPop implements LPOP. hasCount distinguishes "LPOP key" (single element,
// found reports presence) from "LPOP key n" (always a slice, possibly
// shorter than n or empty).
func (s *Store) LPop(key string, hasCount bool, count int) (single []byte, multi [][]byte, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.lookup(key)
	if !ok || r.kind != kindList {
		if ok {
			return nil, nil, false, ErrWrongType
		}
		if hasCount {
			return nil, [][]byte{}, false, nil
		}
		return nil, nil, false, nil
	}

	if !hasCount {
		single = r.list[0]
		r.list = r.list[1:]
		if len(r.list) == 0 {
			delete(s.keys, key)
		}
		return single, nil, true, nil
	}

	if count < 0 {
		count = 0
	}
	if count > len(r.list) {
		count = len(r.list)
	}
	multi = make([][]byte, count)
	copy(multi, r.list[:count])
	r.list = r.list[count:]
	if len(r.list) == 0 {
		delete(s.keys, key)
	}
	return nil, multi, true, nil
}
