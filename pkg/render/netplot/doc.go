// Package netplot renders comparison networks as node-link diagrams.
//
// # Overview
//
// This package produces the standard NMA "network plot": treatments as
// nodes, direct comparisons as undirected edges, edge thickness scaled
// by the number of contributing studies and node size hinted by the
// number of studies touching the treatment. When the network is
// star-shaped the hub is highlighted.
//
// # Usage
//
// Convert a geometry assessment to DOT format, then render to SVG:
//
//	dot := netplot.ToDOT(assessment, netplot.Options{})
//	svg, err := netplot.RenderSVG(dot)
//
// For PNG output use [RenderPNG] with a pixel scale.
//
// The generated DOT source can also be saved and processed with
// external Graphviz tools before rendering.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no external graphviz installation is required.
package netplot
