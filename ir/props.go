package ir

import "iter"

// Props is an insertion-ordered property map with last-wins assignment:
// re-setting a key replaces its value in place, keeping the position of
// the first occurrence. The zero Props is empty and ready to use.
type Props struct {
	keys []string
	m    map[string]Value
}

func (p *Props) Len() int {
	return len(p.keys)
}

func (p *Props) Set(key string, v Value) {
	if p.m == nil {
		p.m = make(map[string]Value)
	}
	if _, ok := p.m[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.m[key] = v
}

func (p *Props) Get(key string) (Value, bool) {
	v, ok := p.m[key]
	return v, ok
}

func (p *Props) Delete(key string) bool {
	if _, ok := p.m[key]; !ok {
		return false
	}
	delete(p.m, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the property names in iteration order. The slice is shared;
// callers must not modify it.
func (p *Props) Keys() []string {
	return p.keys
}

// All iterates key/value pairs in insertion order.
func (p *Props) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range p.keys {
			if !yield(k, p.m[k]) {
				return
			}
		}
	}
}
