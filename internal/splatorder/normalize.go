package splatorder

import "github.com/chris-regnier/whensort/internal/rubyast"

// NormalizeConditions stably partitions conds into the non-splat conditions
// followed by the splat conditions. Relative order inside each group is
// preserved; literal and dynamic splats are not ordered against each other.
// changed is false when the input already has that shape.
func NormalizeConditions(conds []rubyast.Condition) (out []rubyast.Condition, changed bool) {
	plain := make([]rubyast.Condition, 0, len(conds))
	var splats []rubyast.Condition
	for _, c := range conds {
		if c.Splat {
			splats = append(splats, c)
		} else {
			plain = append(plain, c)
		}
	}

	out = append(plain, splats...)
	for i := range out {
		if out[i] != conds[i] {
			return out, true
		}
	}
	return out, false
}
