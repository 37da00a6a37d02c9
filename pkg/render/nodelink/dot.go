package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/vinisalazar/bioprov/pkg/prov"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Clusters draws one subgraph cluster per bundle. When false all
	// nodes share the top-level graph.
	Clusters bool

	// Labels uses display labels on nodes instead of full identifiers.
	Labels bool
}

var nodeStyle = map[prov.NodeKind]string{
	prov.KindEntity:   `shape=ellipse, style=filled, fillcolor="#FFFC87"`,
	prov.KindActivity: `shape=box, style=filled, fillcolor="#9FB1FC"`,
	prov.KindAgent:    `shape=house, style=filled, fillcolor="#FED37F"`,
}

var edgeStyle = map[prov.RelationKind]string{
	prov.RelationUsed:            "black",
	prov.RelationGeneratedBy:     "darkgreen",
	prov.RelationAssociatedWith:  "blue",
	prov.RelationActedOnBehalfOf: "blue",
	prov.RelationDerivedFrom:     "red",
}

// ToDOT converts a graph description to Graphviz DOT format. The output is
// deterministic for a given description, so it can be diffed and re-rendered.
func ToDOT(d prov.Description, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph provenance {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	if opts.Clusters {
		writeClusters(&buf, d, opts)
	} else {
		for _, n := range d.Nodes {
			writeNode(&buf, "  ", n, opts)
		}
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		color := edgeStyle[e.Kind]
		if color == "" {
			color = "black"
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, color=%q, fontsize=10];\n",
			e.Source, e.Target, string(e.Kind), color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeClusters(buf *bytes.Buffer, d prov.Description, opts Options) {
	// Nodes arrive grouped by bundle in creation order.
	var open string
	for _, n := range d.Nodes {
		if n.Bundle != open {
			if open != "" {
				buf.WriteString("  }\n")
			}
			fmt.Fprintf(buf, "  subgraph %s {\n", "cluster_"+sanitizeID(n.Bundle))
			fmt.Fprintf(buf, "    label=%q;\n", n.Bundle)
			buf.WriteString("    style=dashed;\n")
			open = n.Bundle
		}
		writeNode(buf, "    ", n, opts)
	}
	if open != "" {
		buf.WriteString("  }\n")
	}
}

func writeNode(buf *bytes.Buffer, indent string, n prov.NodeDesc, opts Options) {
	label := n.ID
	if opts.Labels && n.Label != "" {
		label = n.Label
	}
	style, ok := nodeStyle[n.Kind]
	if !ok {
		style = "shape=ellipse"
	}
	fmt.Fprintf(buf, "%s%q [label=%q, %s];\n", indent, n.ID, label, style)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so width/height match the
// viewBox, which keeps the output stable across Graphviz versions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// sanitizeID keeps cluster names acceptable to DOT tooling that is strict
// about identifier characters.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
