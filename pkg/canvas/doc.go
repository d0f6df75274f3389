// Package canvas holds the raster operations used by the art pipelines:
// loading image sets, colour multiply, outline and glow filters, wrap-around
// compositing for tiling backgrounds, and quick grid visualisations.
//
// All functions return new images and leave their inputs untouched, except
// [WrappedComposite], which draws into the canvas it is given.
//
// Decoding, encoding and most filters go through
// github.com/disintegration/imaging; resampling and Porter-Duff compositing
// use golang.org/x/image/draw; vector dots use github.com/fogleman/gg.
package canvas
