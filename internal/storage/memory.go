package storage

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryClient is an in-process RedisClient. It backs local development
// when no redis server is reachable and stands in for redis in tests.
type MemoryClient struct {
	mu      sync.Mutex
	now     func() time.Time
	strings map[string]string
	zsets   map[string]map[string]float64
	sets    map[string]map[string]struct{}
	expiry  map[string]time.Time
}

var _ RedisClient = (*MemoryClient)(nil)

func NewMemoryClient() *MemoryClient {
	return NewMemoryClientWithClock(time.Now)
}

// NewMemoryClientWithClock lets tests drive key expiry.
func NewMemoryClientWithClock(now func() time.Time) *MemoryClient {
	return &MemoryClient{
		now:     now,
		strings: make(map[string]string),
		zsets:   make(map[string]map[string]float64),
		sets:    make(map[string]map[string]struct{}),
		expiry:  make(map[string]time.Time),
	}
}

// expire drops key if its TTL has passed. Callers hold mu.
func (m *MemoryClient) expire(key string) {
	at, ok := m.expiry[key]
	if !ok || m.now().Before(at) {
		return
	}
	m.remove(key)
}

func (m *MemoryClient) remove(key string) {
	delete(m.strings, key)
	delete(m.zsets, key)
	delete(m.sets, key)
	delete(m.expiry, key)
}

func (m *MemoryClient) exists(key string) bool {
	m.expire(key)
	if _, ok := m.strings[key]; ok {
		return true
	}
	if _, ok := m.zsets[key]; ok {
		return true
	}
	_, ok := m.sets[key]
	return ok
}

func (m *MemoryClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remove(key)
	switch v := value.(type) {
	case string:
		m.strings[key] = v
	case []byte:
		m.strings[key] = string(v)
	default:
		m.strings[key] = fmt.Sprint(v)
	}
	if expiration > 0 {
		m.expiry[key] = m.now().Add(expiration)
	}
	return nil
}

func (m *MemoryClient) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expire(key)
	v, ok := m.strings[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *MemoryClient) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		m.remove(k)
	}
	return nil
}

func (m *MemoryClient) Exists(ctx context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, k := range keys {
		if m.exists(k) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryClient) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expire(key)
	var n int64
	if v, ok := m.strings[key]; ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("ERR value is not an integer or out of range")
		}
		n = parsed
	}
	n++
	m.strings[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (m *MemoryClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.exists(key) {
		return nil
	}
	if expiration <= 0 {
		m.remove(key)
		return nil
	}
	m.expiry[key] = m.now().Add(expiration)
	return nil
}

func (m *MemoryClient) ZAdd(ctx context.Context, key string, members ...*redis.Z) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expire(key)
	set, ok := m.zsets[key]
	if !ok {
		set = make(map[string]float64)
		m.zsets[key] = set
	}
	for _, z := range members {
		set[fmt.Sprint(z.Member)] = z.Score
	}
	return nil
}

func (m *MemoryClient) ZRemRangeByScore(ctx context.Context, key, min, max string) error {
	lo, loExcl, err := parseScoreBound(min)
	if err != nil {
		return err
	}
	hi, hiExcl, err := parseScoreBound(max)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.expire(key)
	set := m.zsets[key]
	for member, score := range set {
		aboveLo := score > lo || (!loExcl && score == lo)
		belowHi := score < hi || (!hiExcl && score == hi)
		if aboveLo && belowHi {
			delete(set, member)
		}
	}
	if set != nil && len(set) == 0 {
		m.remove(key)
	}
	return nil
}

// parseScoreBound reads a ZRANGEBYSCORE bound: "-inf", "+inf", "1.5" or
// the exclusive form "(1.5".
func parseScoreBound(s string) (float64, bool, error) {
	exclusive := strings.HasPrefix(s, "(")
	s = strings.TrimPrefix(s, "(")
	switch s {
	case "-inf":
		return math.Inf(-1), exclusive, nil
	case "+inf", "inf":
		return math.Inf(1), exclusive, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("ERR min or max is not a float")
	}
	return v, exclusive, nil
}

func (m *MemoryClient) ZCard(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expire(key)
	return int64(len(m.zsets[key])), nil
}

func (m *MemoryClient) SAdd(ctx context.Context, key string, members ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expire(key)
	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	for _, v := range members {
		set[fmt.Sprint(v)] = struct{}{}
	}
	return nil
}

func (m *MemoryClient) SMembers(ctx context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expire(key)
	out := make([]string, 0, len(m.sets[key]))
	for v := range m.sets[key] {
		out = append(out, v)
	}
	return out, nil
}

func (m *MemoryClient) SRem(ctx context.Context, key string, members ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expire(key)
	set := m.sets[key]
	for _, v := range members {
		delete(set, fmt.Sprint(v))
	}
	if set != nil && len(set) == 0 {
		m.remove(key)
	}
	return nil
}

func (m *MemoryClient) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryClient) Close() error {
	return nil
}
