// Package planfile reads and writes timer plans as YAML documents.
//
// A plan document mirrors the timer tree:
//
//	name: Deep Work
//	total: 2h
//	children:
//	  - name: Email
//	    total: 30m
package planfile

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/ticktree/internal/domain"
)

type planDoc struct {
	Name     string    `yaml:"name"`
	Total    string    `yaml:"total,omitempty"`
	Children []planDoc `yaml:"children,omitempty"`
}

// Codec converts plans to and from YAML.
type Codec struct{}

var _ domain.PlanCodec = Codec{}

// Decode parses a YAML plan document.
func (Codec) Decode(data []byte) (domain.Plan, error) {
	var doc planDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Plan{}, fmt.Errorf("decode plan: %w", err)
	}
	return fromDoc(doc)
}

// Encode renders a plan as a YAML document.
func (Codec) Encode(plan domain.Plan) ([]byte, error) {
	data, err := yaml.Marshal(toDoc(plan))
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	return data, nil
}

func fromDoc(doc planDoc) (domain.Plan, error) {
	plan := domain.Plan{Name: doc.Name}

	if doc.Total != "" {
		total, err := time.ParseDuration(doc.Total)
		if err != nil {
			return domain.Plan{}, fmt.Errorf("parse total for %q: %w", doc.Name, err)
		}
		plan.Total = total
	}

	for _, child := range doc.Children {
		sub, err := fromDoc(child)
		if err != nil {
			return domain.Plan{}, err
		}
		plan.Children = append(plan.Children, sub)
	}

	return plan, nil
}

func toDoc(plan domain.Plan) planDoc {
	doc := planDoc{Name: plan.Name}
	if plan.Total != 0 {
		doc.Total = plan.Total.String()
	}
	for _, child := range plan.Children {
		doc.Children = append(doc.Children, toDoc(child))
	}
	return doc
}
