// Package nodelink renders a provenance graph as a node-link diagram.
//
// The input is the flat node/edge description produced by prov.Describe.
// ToDOT emits Graphviz DOT with one cluster per bundle, and RenderSVG
// rasterizes the DOT through Graphviz. Node shapes and colors follow the
// conventional PROV styling: yellow ellipses for entities, blue boxes for
// activities, orange houses for agents.
package nodelink
