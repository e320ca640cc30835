// Package render converts feature-activation graphs to Graphviz DOT and
// renders them to SVG or PNG.
//
// Node styling follows the metadata set by [resolver.Graph]: the package
// node is bold, features are rounded boxes, dependencies are plain boxes,
// optional dependencies are dashed, and activated nodes are filled.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cargoplan/pkg/dag"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes metadata (optional flag, activation state) in node
	// labels. When false, only the display name is shown.
	Detailed bool
}

// ToDOT converts a feature graph to Graphviz DOT format.
// The resulting DOT string can be rendered with [SVG] or [PNG].
func ToDOT(g *dag.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph features {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(*n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n dag.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, opts))}

	style := []string{}
	switch n.Meta["kind"] {
	case "package":
		attrs = append(attrs, "shape=component", "fontname=\"bold\"")
	case "feature":
		style = append(style, "rounded")
	}
	if n.Meta["optional"] == true {
		style = append(style, "dashed")
	}
	if n.Meta["activated"] == true {
		style = append(style, "filled")
		attrs = append(attrs, "fillcolor=lightblue")
	}
	if len(style) > 0 {
		attrs = append(attrs, fmt.Sprintf("style=%q", strings.Join(style, ",")))
	}
	return attrs
}

func nodeLabel(n dag.Node, opts Options) string {
	label := n.ID
	if l, ok := n.Meta["label"].(string); ok && l != "" {
		label = l
	}
	if !opts.Detailed {
		return label
	}

	var parts []string
	if kind, ok := n.Meta["kind"].(string); ok {
		parts = append(parts, kind)
	}
	if n.Meta["optional"] == true {
		parts = append(parts, "optional")
	}
	if n.Meta["activated"] == true {
		parts = append(parts, "activated")
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, ", ")
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// PNG renders a DOT graph to PNG using Graphviz.
func PNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
