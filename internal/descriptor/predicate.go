package descriptor

// Predicate filters descriptors.
type Predicate func(*Descriptor) bool

// NotHidden is the default filter of a registry's default set.
func NotHidden(d *Descriptor) bool { return !d.Hidden() }

// IsReadable selects readable descriptors.
func IsReadable(d *Descriptor) bool { return d.Readable() }

// IsWritable selects writable descriptors.
func IsWritable(d *Descriptor) bool { return d.Writable() }

// And combines predicates; nil operands are ignored.
func And(preds ...Predicate) Predicate {
	active := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return func(d *Descriptor) bool {
		for _, p := range active {
			if !p(d) {
				return false
			}
		}
		return true
	}
}

// Not negates p.
func Not(p Predicate) Predicate {
	return func(d *Descriptor) bool { return !p(d) }
}

// Filter returns the descriptors matching p, keeping their order. A nil
// predicate matches everything.
func Filter(ds []*Descriptor, p Predicate) []*Descriptor {
	out := make([]*Descriptor, 0, len(ds))
	for _, d := range ds {
		if p == nil || p(d) {
			out = append(out, d)
		}
	}
	return out
}

// Names returns the names of ds in order.
func Names(ds []*Descriptor) []string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name()
	}
	return names
}
