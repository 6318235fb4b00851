// Package pkg provides the libraries behind stellarmap, a tool that draws 2D
// maps of the stars around a reference star.
//
// # Overview
//
// A map is made in five steps. Each step is its own package so it can be used
// and tested alone:
//
//	Catalog (CSV, JSON, YAML, SQLite, MongoDB, Neo4j)
//	         ↓
//	    [region] select the reference star and its neighbours
//	         ↓
//	    [projection] flatten 3D positions onto the canvas
//	         ↓
//	    [declutter] push overlapping markers apart
//	         ↓
//	    [render] draw connections, markers and labels
//	         ↓
//	    PNG/JPEG/SVG/DOT/JSON output
//
// [pipeline] runs all steps with shared defaults and is what the CLI uses.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/stellarmap/pkg/catalog"
//	    "github.com/matzehuels/stellarmap/pkg/pipeline"
//	)
//
//	reader, _ := catalog.Open(ctx, "astro.db", catalog.Options{})
//	runner := pipeline.NewRunner(reader, nil, nil)
//	defer runner.Close()
//
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Reference: "Amateru",
//	    Formats:   []string{"png", "svg"},
//	})
//	os.WriteFile("amateru.png", result.Artifacts["png"], 0o644)
//
// # Main Packages
//
// ## Domain
//
// [star] - Catalog record type, 3D distance and spectral classes.
//
// [region] - Radius selection around a reference star, with exact then
// case-insensitive name lookup.
//
// [projection] - Orthographic projection of the selection onto the canvas.
//
// [declutter] - Bounded pairwise repulsion of overlapping markers.
//
// [links] - Pairwise 3D distances and the connection line tiers.
//
// ## Rendering
//
// [render] - Raster map drawing (fogleman/gg) with themes and marker styles.
//
// [render/sink] - PNG, JPEG, thumbnail and JSON encoders.
//
// [render/nodelink] - Graphviz DOT and SVG export of the connection graph.
//
// [fonts] - Label fonts: a system Arial-like font or the embedded Go font.
//
// ## Infrastructure
//
// [catalog] - Catalog providers and the cached reader.
//
// [cache] - Snapshot cache backends (file, Redis, null) and key derivation.
//
// [config] - TOML config file and .env loading.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for pipeline, catalog and cache events.
//
// # Testing
//
//	go test ./...                          # All tests
//	go test ./pkg/declutter/...            # Specific package
//	STELLARMAP_TEST_MONGO_URI=mongodb://localhost:27017 go test ./pkg/catalog/
package pkg
