// Package sink encodes rendered star maps into output formats.
//
// # Overview
//
// A "sink" turns a [render.Map] into bytes. This package provides:
//
//   - PNG: lossless raster output (the default)
//   - JPEG: lossy raster output with configurable quality
//   - JSON: a manifest of marker positions and drawn connections
//
// Raster sinks accept a thumbnail option that downsamples the map so its
// longest side fits a bound, preserving aspect ratio:
//
//	png, err := sink.RenderPNG(m, sink.WithThumbnail(1024))
//	jpg, err := sink.RenderJPEG(m, sink.WithQuality(85))
//
// Encoding and resampling use [github.com/disintegration/imaging]. For
// Graphviz output (DOT and SVG) see the nodelink package.
package sink
