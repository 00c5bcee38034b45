package backtype

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the YYYY/MM/DD form the API expects for date parameters such as start and end.
const DateLayout = "2006/01/02"

// Params is an ordered set of optional query parameters. The zero value is ready to use
// and a nil *Params is treated as empty by every read method.
type Params struct {
	pairs []param
}

type param struct {
	key   string
	value string
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{}
}

// Set assigns value to key, replacing an existing entry in place so insertion order is kept.
// Dates are formatted with DateLayout and booleans as 1/0.
func (p *Params) Set(key string, value any) *Params {
	v := formatValue(value)
	for i := range p.pairs {
		if p.pairs[i].key == key {
			p.pairs[i].value = v
			return p
		}
	}
	p.pairs = append(p.pairs, param{key: key, value: v})
	return p
}

// Del removes key if present.
func (p *Params) Del(key string) *Params {
	if p == nil {
		return p
	}
	for i := range p.pairs {
		if p.pairs[i].key == key {
			p.pairs = append(p.pairs[:i], p.pairs[i+1:]...)
			break
		}
	}
	return p
}

// Get returns the formatted value stored for key.
func (p *Params) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, kv := range p.pairs {
		if kv.key == key {
			return kv.value, true
		}
	}
	return "", false
}

// Len reports the number of parameters.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.pairs)
}

// Keys returns parameter names in insertion order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.pairs))
	for i, kv := range p.pairs {
		keys[i] = kv.key
	}
	return keys
}

// Map returns a copy of the parameters keyed by name.
func (p *Params) Map() map[string]string {
	out := make(map[string]string, p.Len())
	if p == nil {
		return out
	}
	for _, kv := range p.pairs {
		out[kv.key] = kv.value
	}
	return out
}

// Clone returns an independent copy.
func (p *Params) Clone() *Params {
	out := NewParams()
	if p == nil {
		return out
	}
	out.pairs = append(out.pairs, p.pairs...)
	return out
}

// Encode renders the parameters as &-joined, percent-encoded name=value pairs in insertion
// order. An empty set encodes to "".
func (p *Params) Encode() string {
	if p.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.value))
	}
	return b.String()
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(DateLayout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(DateLayout)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
