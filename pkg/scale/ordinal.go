package scale

// Ordinal maps category names to values from a fixed range.
//
// Keys not in the domain are appended to it on first use, so the mapping is
// stable for the lifetime of the scale. Range values are reused cyclically
// when there are more keys than values.
type Ordinal struct {
	domain []string
	index  map[string]int
	rng    []string
}

// NewOrdinal returns an ordinal scale over domain with the given range.
func NewOrdinal(domain, rng []string) *Ordinal {
	o := &Ordinal{index: make(map[string]int, len(domain)), rng: rng}
	for _, k := range domain {
		o.add(k)
	}
	return o
}

func (o *Ordinal) add(k string) int {
	if i, ok := o.index[k]; ok {
		return i
	}
	i := len(o.domain)
	o.domain = append(o.domain, k)
	o.index[k] = i
	return i
}

// Color returns the range value for key.
func (o *Ordinal) Color(key string) string {
	if len(o.rng) == 0 {
		return ""
	}
	return o.rng[o.add(key)%len(o.rng)]
}

// Domain returns the known keys in first-seen order.
func (o *Ordinal) Domain() []string {
	return append([]string(nil), o.domain...)
}

// Range returns the configured values.
func (o *Ordinal) Range() []string {
	return append([]string(nil), o.rng...)
}
