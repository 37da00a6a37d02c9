package prov

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
)

// WriteProvN renders the graph as PROV-N text. The output is a pure
// function of the graph: bundles appear in creation order, nodes sorted by
// identifier within each bundle, relations sorted by kind, subject and
// object. Rendering the same graph twice yields byte-identical output.
func WriteProvN(w io.Writer, g *Graph) error {
	if _, err := io.WriteString(w, "document\n"); err != nil {
		return err
	}
	for _, b := range g.Bundles() {
		if _, err := fmt.Fprintf(w, "  bundle %s\n", b.Name); err != nil {
			return err
		}
		for _, n := range b.Nodes() {
			if err := writeNode(w, n); err != nil {
				return err
			}
		}
		for _, rel := range b.Relations() {
			if _, err := fmt.Fprintf(w, "    %s(%s, %s)\n", rel.Kind, rel.Subject, rel.Object); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "  endBundle\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "endDocument\n")
	return err
}

// MarshalProvN renders the graph as PROV-N text in memory.
func MarshalProvN(g *Graph) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = WriteProvN(&buf, g)
	return buf.Bytes()
}

func writeNode(w io.Writer, n *Node) error {
	attrs := make([]string, 0, len(n.Attrs)+1)
	if n.Label != "" {
		attrs = append(attrs, "label="+strconv.Quote(n.Label))
	}
	for _, k := range slices.Sorted(maps.Keys(n.Attrs)) {
		attrs = append(attrs, k+"="+strconv.Quote(n.Attrs[k]))
	}
	if len(attrs) == 0 {
		_, err := fmt.Fprintf(w, "    %s(%s)\n", n.Kind, n.ID)
		return err
	}
	_, err := fmt.Fprintf(w, "    %s(%s, [", n.Kind, n.ID)
	if err != nil {
		return err
	}
	for i, a := range attrs {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, a); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "])\n")
	return err
}
