// Package render draws star maps onto a raster canvas.
//
// # Overview
//
// [Render] takes a [Scene] (selected stars, their final canvas positions,
// their pairwise 3D distances and the reference index) and a [Theme], and
// paints, in order:
//
//  1. Connection lines for pairs closer than the close threshold, weighted by
//     distance tier
//  2. Star markers sized by the cube root of luminosity, with a halo under
//     the reference star
//  3. Name and spectral-type labels, larger and coloured for the reference
//  4. A title and summary line in the top-left corner
//
// Connections depend on true 3D distance only. They are independent of how
// the declutter stage moved markers.
//
// # Styles
//
// A [Style] chooses marker fill colours. [Classic] paints every star white;
// [Spectral] colours stars by their spectral class.
//
// # Output
//
// The returned [Map] holds an in-memory image. Encoding it to PNG or JPEG is
// the job of the [sink] subpackage; the [nodelink] subpackage exports the
// same connection graph through Graphviz.
//
// [sink]: github.com/matzehuels/stellarmap/pkg/render/sink
// [nodelink]: github.com/matzehuels/stellarmap/pkg/render/nodelink
package render
