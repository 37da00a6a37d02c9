package prov

// NodeDesc is one node of the flat graph description handed to rendering
// backends.
type NodeDesc struct {
	ID     string
	Label  string
	Kind   NodeKind
	Bundle string
}

// EdgeDesc is one directed edge of the flat graph description.
type EdgeDesc struct {
	Source string
	Target string
	Kind   RelationKind
}

// Description is the node/edge view of a PROV graph, the sole interface to
// rendering backends.
type Description struct {
	Nodes []NodeDesc
	Edges []EdgeDesc
}

// Describe flattens the graph into node and edge lists. The order is
// deterministic: bundles in creation order, nodes sorted by identifier
// within each bundle, edges sorted within each bundle by kind, subject and
// object. Describing the same graph twice yields identical output.
func Describe(g *Graph) Description {
	var d Description
	for _, b := range g.Bundles() {
		for _, n := range b.Nodes() {
			d.Nodes = append(d.Nodes, NodeDesc{
				ID:     n.ID,
				Label:  n.Label,
				Kind:   n.Kind,
				Bundle: b.Name,
			})
		}
		for _, rel := range b.Relations() {
			d.Edges = append(d.Edges, EdgeDesc{
				Source: rel.Subject,
				Target: rel.Object,
				Kind:   rel.Kind,
			})
		}
	}
	return d
}
