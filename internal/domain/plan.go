package domain

import "time"

// Plan describes a timer subtree to create: a name, a budget, and nested
// child plans. Plans are read from YAML files where budgets use Go
// duration syntax ("2h", "1h30m").
type Plan struct {
	Name     string
	Total    time.Duration
	Children []Plan
}

// Validate checks that every entry has a name and a non-negative budget.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Total < 0 {
		return ErrNegativeBudget
	}
	for i := range p.Children {
		if err := p.Children[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CountNodes returns the number of timers the plan creates.
func (p *Plan) CountNodes() int {
	n := 1
	for i := range p.Children {
		n += p.Children[i].CountNodes()
	}
	return n
}
