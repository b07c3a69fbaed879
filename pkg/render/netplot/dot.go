package netplot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/evisynth/nmakit/pkg/nma"
)

// Options configures network plot generation.
type Options struct {
	// Detailed includes study and participant counts in node and edge
	// labels. When false, nodes show only the treatment name.
	Detailed bool
}

// ToDOT converts a geometry assessment to Graphviz DOT format.
// The comparison network is undirected; edge penwidth scales with the
// number of studies backing the comparison, and sparse edges (a single
// study) are drawn dashed. The hub of a star-shaped network is filled.
func ToDOT(a *nma.NetworkGeometryAssessment, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph nma {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=18, margin=\"0.15,0.08\"];\n")
	buf.WriteString("\n")

	hub := ""
	if a.Characteristics.IsStarShaped {
		hub = a.Characteristics.CentralTreatment
	}

	for _, n := range a.Nodes {
		attrs := nodeAttrs(n, n.Treatment == hub, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Treatment, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range a.Edges {
		attrs := edgeAttrs(e, opts.Detailed)
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.TreatmentA, e.TreatmentB, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n nma.TreatmentNode, isHub, detailed bool) []string {
	label := n.Treatment
	if detailed {
		label = fmt.Sprintf("%s\n%d studies, %d participants", n.Treatment, n.NStudies, n.TotalParticipants)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if isHub {
		attrs = append(attrs, "fillcolor=lightgoldenrod", "penwidth=2")
	}
	return attrs
}

func edgeAttrs(e nma.NetworkEdge, detailed bool) []string {
	// Penwidth 1..6, one step per additional study.
	width := min(e.NStudies, 6)
	attrs := []string{fmt.Sprintf("penwidth=%d", width)}
	if e.NStudies < 2 {
		attrs = append(attrs, "style=dashed")
	}
	if detailed {
		attrs = append(attrs, fmt.Sprintf("label=%q", fmt.Sprintf("%d", e.NStudies)))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
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
	return buf.Bytes(), nil
}
