// Package nodelink exports star maps as Graphviz graphs.
//
// # Overview
//
// [ToDOT] writes a rendered scene as an undirected DOT graph: one circle per
// star, pinned at its decluttered canvas position, and one edge per drawn
// connection with the tier's pen width. [RenderSVG] lays the graph out with
// the neato engine, which keeps pinned positions, and returns SVG.
//
//	dot := nodelink.ToDOT(scene, nodelink.Options{Spectral: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and post-processed with external
// Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
