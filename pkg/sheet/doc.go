// Package sheet lays out magnet crops on print-ready page canvases.
//
// A sheet is the raster the print shop cuts magnets from. Every magnet is a
// 6.5 cm square printed at 300 DPI on an A4-sized page, three to a row, with
// a dashed rounded-rectangle guide marking where to cut.
//
// # Pipeline
//
// Rendering an order goes through four steps:
//
//  1. Expand: every [order.Source] becomes Quantity consecutive [Instance]
//     values, in source order.
//  2. Plan: instance i is assigned page i/PerPage and a row-major cell
//     within it. The assignment depends only on i, never on which other
//     instances render successfully.
//  3. Draw: each page gets a white background, a header line, a separator
//     rule, the scaled crops and their cut guides.
//  4. Compose: pages are returned one by one or stacked into a single tall
//     image, then encoded as PNG.
//
// # Failures
//
// A crop that is missing or fails to decode leaves its cell blank and is
// reported as a [Diagnostic]; the render carries on. Only failing to
// allocate a canvas (RENDER_SURFACE_UNAVAILABLE) or to encode the result
// (ENCODE_FAILED) aborts it.
//
// # Usage
//
//	eng := sheet.New(sheet.WithLogger(logger))
//	s, err := eng.Render(ctx, info, sources)
//	if err != nil {
//	    return err
//	}
//	files, err := s.Encode(sheet.ModePages)
//
// An [Engine] holds no per-render state and may be shared by goroutines.
package sheet
