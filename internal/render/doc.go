// Package render rasterizes card sides with the gogpu/gg software renderer.
//
// Renderer is a pure function of a side: it paints the background, the
// optional grid and every visible shape in z-index order into a new
// image. Each shape kind is matched exhaustively in paintShape.
//
// Adapter wraps a Renderer for interactive use. It starts in a not-ready
// state while fonts load on a background goroutine; sides submitted before
// it is ready are queued (latest frame per side wins) and rendered once
// initialization completes. The document model never waits on the adapter.
package render
