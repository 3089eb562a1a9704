package plan

// Result is either a single plan or an ordered sequence of plans, one per locale.
type Result struct {
	plans []Plan
	many  bool
}

func Single(p Plan) Result {
	return Result{plans: []Plan{p}}
}

func Many(plans []Plan) Result {
	return Result{plans: plans, many: true}
}

// IsMany reports whether the result is a locale sequence.
func (r Result) IsMany() bool {
	return r.many
}

// Plans returns every plan in order, wrapping a single plan in a slice.
func (r Result) Plans() []Plan {
	return r.plans
}

// Plan returns the plan of a single result.
func (r Result) Plan() (Plan, bool) {
	if r.many || len(r.plans) != 1 {
		return Plan{}, false
	}
	return r.plans[0], true
}

// Value returns a bare Plan for a single result and a []Plan otherwise, which is
// the shape callers of the configuration function expect.
func (r Result) Value() any {
	if p, ok := r.Plan(); ok {
		return p
	}
	return r.plans
}
