package prov

import (
	"cmp"
	"slices"

	"github.com/vinisalazar/bioprov/pkg/errors"
)

// NodeKind discriminates the three PROV node types.
type NodeKind string

const (
	KindEntity   NodeKind = "entity"
	KindActivity NodeKind = "activity"
	KindAgent    NodeKind = "agent"
)

// RelationKind names a typed relation between two nodes.
type RelationKind string

const (
	RelationUsed            RelationKind = "used"
	RelationGeneratedBy     RelationKind = "wasGeneratedBy"
	RelationAssociatedWith  RelationKind = "wasAssociatedWith"
	RelationActedOnBehalfOf RelationKind = "actedOnBehalfOf"
	RelationDerivedFrom     RelationKind = "wasDerivedFrom"
)

// Node is a single PROV node. The ID is the object's qualified identifier
// and is unique across the whole graph, not just within its bundle.
type Node struct {
	ID    string
	Label string
	Kind  NodeKind
	Attrs map[string]string
}

// Relation links two nodes by ID. Subject and object follow PROV-N argument
// order, so used(activity, entity) has the activity as subject while
// wasGeneratedBy(entity, activity) has the entity as subject.
type Relation struct {
	Kind    RelationKind
	Subject string
	Object  string
}

// Bundle groups the nodes describing one entity or agent, plus the
// relations whose subject lives in it.
type Bundle struct {
	Name      string
	nodes     map[string]*Node
	relations []Relation
	relSeen   map[Relation]struct{}
}

// Nodes returns the bundle's nodes sorted by identifier.
func (b *Bundle) Nodes() []*Node {
	out := make([]*Node, 0, len(b.nodes))
	for _, n := range b.nodes {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, c *Node) int { return cmp.Compare(a.ID, c.ID) })
	return out
}

// Relations returns the bundle's relations sorted by kind, subject, object.
func (b *Bundle) Relations() []Relation {
	out := slices.Clone(b.relations)
	slices.SortFunc(out, func(a, c Relation) int {
		if v := cmp.Compare(a.Kind, c.Kind); v != 0 {
			return v
		}
		if v := cmp.Compare(a.Subject, c.Subject); v != 0 {
			return v
		}
		return cmp.Compare(a.Object, c.Object)
	})
	return out
}

// Graph is a PROV document under construction. Bundles keep creation order,
// node identifiers are unique across bundles, and duplicate relations
// collapse to one.
type Graph struct {
	bundles  []*Bundle
	byName   map[string]*Bundle
	location map[string]*Bundle
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		byName:   make(map[string]*Bundle),
		location: make(map[string]*Bundle),
	}
}

// Bundle returns the named bundle, creating it on first use.
func (g *Graph) Bundle(name string) *Bundle {
	if b, ok := g.byName[name]; ok {
		return b
	}
	b := &Bundle{
		Name:    name,
		nodes:   make(map[string]*Node),
		relSeen: make(map[Relation]struct{}),
	}
	g.bundles = append(g.bundles, b)
	g.byName[name] = b
	return b
}

// Bundles returns all bundles in creation order.
func (g *Graph) Bundles() []*Bundle { return g.bundles }

// Node looks up a node anywhere in the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	b, ok := g.location[id]
	if !ok {
		return nil, false
	}
	return b.nodes[id], true
}

// BundleOf reports which bundle holds the given node.
func (g *Graph) BundleOf(id string) (*Bundle, bool) {
	b, ok := g.location[id]
	return b, ok
}

// AddNode places a node in a bundle. Adding the same identifier to the same
// bundle again is a no-op that keeps the first node; placing it in a second
// bundle is an error.
func (g *Graph) AddNode(bundle *Bundle, n *Node) error {
	if prev, ok := g.location[n.ID]; ok {
		if prev != bundle {
			return errors.New(errors.ErrCodeDuplicateName,
				"node %q already in bundle %q", n.ID, prev.Name)
		}
		return nil
	}
	bundle.nodes[n.ID] = n
	g.location[n.ID] = bundle
	return nil
}

// AddRelation records a relation between two existing nodes. The relation is
// stored on the subject's bundle. Duplicates collapse to one.
func (g *Graph) AddRelation(kind RelationKind, subject, object string) error {
	b, ok := g.location[subject]
	if !ok {
		return errors.New(errors.ErrCodeDanglingReference,
			"%s subject %q not in graph", kind, subject)
	}
	if _, ok := g.location[object]; !ok {
		return errors.New(errors.ErrCodeDanglingReference,
			"%s object %q not in graph", kind, object)
	}
	rel := Relation{Kind: kind, Subject: subject, Object: object}
	if _, ok := b.relSeen[rel]; ok {
		return nil
	}
	b.relSeen[rel] = struct{}{}
	b.relations = append(b.relations, rel)
	return nil
}

// Relations returns every relation in the graph, bundle by bundle in
// creation order, sorted within each bundle.
func (g *Graph) Relations() []Relation {
	var out []Relation
	for _, b := range g.bundles {
		out = append(out, b.Relations()...)
	}
	return out
}
