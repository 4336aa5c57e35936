// Package pkg provides the libraries behind magnetsheet, the print sheet
// engine for photo magnet orders.
//
// # Overview
//
// A customer uploads photos, crops each one to a square and picks how many
// magnets of it they want. Magnetsheet lays every magnet out on A4 pages in
// a 3×4 grid at 300 DPI, draws a header and cutting guides, and hands the
// finished PNGs to the print shop. The pkg directory is organized into:
//
//  1. [sheet] - Domain logic (geometry, pagination, drawing, composition)
//  2. [order] - Order data, validation, order files and file names
//  3. [pipeline] - Orchestration (render → deliver → notify)
//  4. Infrastructure: [cache], [artifact], [notify], [httputil], [config]
//  5. Entry points: [server] (HTTP intake); the CLI lives in internal/cli
//
// # Architecture
//
// The typical data flow through magnetsheet:
//
//	Order form / order file
//	         ↓
//	    [order] package (validate info and quantities)
//	         ↓
//	    [sheet] package (expand copies, paginate, draw pages)
//	         ↓
//	    [pipeline] package (encode PNGs, cache, cut list)
//	         ↓
//	    [artifact] store + [notify] mail to the print shop
//
// # Quick Start
//
// Render an order to PNG:
//
//	info, sources, _ := order.Load("order.toml")
//	s, _ := sheet.New().Render(ctx, info, sources)
//	files, _ := s.Encode(sheet.ModeStacked)
//
// # Main Packages
//
// [sheet] - The layout engine. [sheet.A4] fixes every measure; [sheet.NewPlan]
// assigns each magnet a page, row and column; [sheet.Engine.Render] decodes
// crops in parallel and draws the pages. Crops that cannot be decoded leave
// a blank cell and a [sheet.Diagnostic], never a failed render.
//
// [cutlist] - Excel placement report for the cutting table.
//
// [fonts] - Embedded header font.
//
// [observability] - Hooks for metrics and tracing of renders, cache and HTTP.
//
// [errors] - Coded errors shared by every package and mapped to HTTP
// statuses by the server.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/sheet/...              # Specific package
//
// Redis and MongoDB tests run only when MAGNETSHEET_TEST_REDIS_URL and
// MAGNETSHEET_TEST_MONGO_URI are set.
package pkg
