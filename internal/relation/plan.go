package relation

import (
	"context"
	"fmt"
)

// Reader is the minimal data-source capability a Plan needs: produce one
// named relation fully materialized. internal/source implementations satisfy
// it.
type Reader interface {
	ReadRelation(ctx context.Context, name string) (*Relation, error)
}

// Plan is a lazily defined query over a data source: a base relation, the
// column operations to apply to it, and any left joins against other plans.
// Nothing touches the source until Materialize runs; this gives the pipeline
// the query-then-collect shape where renames, drops, and joins are all
// declared before the single materialization point.
type Plan struct {
	name    string
	renames [][2]string
	drops   []dropOp
	joins   []joinOp
}

type dropOp struct {
	prefix string
	keep   []string
}

type joinOp struct {
	right *Plan
	key   string
}

// From starts a plan over the named base relation.
func From(name string) *Plan {
	return &Plan{name: name}
}

// Name returns the base relation name.
func (p *Plan) Name() string { return p.name }

// Rename records a column rename on the base relation. Renames apply before
// drops, so a renamed column is not caught by a later DropPrefix of its old
// name.
func (p *Plan) Rename(old, new string) *Plan {
	p.renames = append(p.renames, [2]string{old, new})
	return p
}

// DropPrefix records a prefix drop on the base relation.
func (p *Plan) DropPrefix(prefix string, keep ...string) *Plan {
	p.drops = append(p.drops, dropOp{prefix: prefix, keep: keep})
	return p
}

// LeftJoin records a left join against another plan on the given key column.
func (p *Plan) LeftJoin(right *Plan, key string) *Plan {
	p.joins = append(p.joins, joinOp{right: right, key: key})
	return p
}

// Materialize executes the plan against the source: each base relation is
// read exactly once, column operations are applied, then the joins run in
// declaration order. The result is a single wide relation.
func (p *Plan) Materialize(ctx context.Context, src Reader) (*Relation, error) {
	rel, err := src.ReadRelation(ctx, p.name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.name, err)
	}
	for _, rn := range p.renames {
		rel, err = rel.Rename(rn[0], rn[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
	}
	for _, d := range p.drops {
		rel = rel.DropPrefix(d.prefix, d.keep...)
	}
	for _, j := range p.joins {
		right, err := j.right.Materialize(ctx, src)
		if err != nil {
			return nil, err
		}
		rel, err = rel.LeftJoin(right, j.key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
	}
	return rel, nil
}
