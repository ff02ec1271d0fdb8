package tree

import "slices"

// linearize computes the C3 linearization of t over bases: t first, then
// every ancestor such that each type precedes its own bases and the
// declared base order is kept.
func linearize(t *Type, bases []*Type) ([]*Type, error) {
	seqs := make([][]*Type, 0, len(bases)+1)
	for _, b := range bases {
		seqs = append(seqs, slices.Clone(b.mro))
	}

	seqs = append(seqs, slices.Clone(bases))

	out := []*Type{t}

	for {
		seqs = slices.DeleteFunc(seqs, func(s []*Type) bool { return len(s) == 0 })
		if len(seqs) == 0 {
			return out, nil
		}

		head := pickHead(seqs)
		if head == nil {
			return nil, &ConfigurationError{
				Type:   t.name,
				Reason: "bases have no consistent linearization",
			}
		}

		out = append(out, head)

		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}

// pickHead returns the first sequence head absent from every tail.
func pickHead(seqs [][]*Type) *Type {
	for _, s := range seqs {
		candidate := s[0]
		inTail := false

		for _, other := range seqs {
			if slices.Contains(other[1:], candidate) {
				inTail = true
				break
			}
		}

		if !inTail {
			return candidate
		}
	}

	return nil
}
