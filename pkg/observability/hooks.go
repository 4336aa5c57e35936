// Package observability lets an application watch a magnet order move
// through rendering, caching and delivery without the libraries depending
// on a metrics or tracing backend.
//
// Each event family is an interface with a no-op default. The application
// registers its own implementation once at startup; libraries fetch the
// current one each time they emit an event:
//
//	func main() {
//	    observability.SetSheetHooks(&mySheetHooks{})
//	    observability.SetDeliveryHooks(&myDeliveryHooks{})
//	    // ... run application
//	}
//
//	observability.Sheet().OnRenderStart(ctx, orderNumber, instances)
//	// ... render pages ...
//	observability.Sheet().OnRenderComplete(ctx, orderNumber, pages, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// SheetHooks receives events from the sheet layout engine.
type SheetHooks interface {
	// OnRenderStart is called before any page is allocated.
	OnRenderStart(ctx context.Context, orderNumber string, instances int)

	// OnRenderComplete is called once per render, successful or not.
	OnRenderComplete(ctx context.Context, orderNumber string, pages int, duration time.Duration, err error)

	// OnInstanceSkipped is called for every magnet left blank because its
	// crop was missing or could not be decoded.
	OnInstanceSkipped(ctx context.Context, orderNumber string, index int, err error)
}

// CacheHooks receives sheet and upload cache lookups. key is the full
// cache key, so its prefix tells sheets from uploads.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	OnCacheSet(ctx context.Context, key string, size int)
}

// DeliveryHooks receives the delivery stages of a submitted order.
type DeliveryHooks interface {
	// OnUpload is called after each file is put in the artifact store.
	// Files found in the upload cache are not reported.
	OnUpload(ctx context.Context, store, name string, size int64, duration time.Duration, err error)

	// OnNotify is called after the print shop notification is sent.
	OnNotify(ctx context.Context, transport, orderNumber string, duration time.Duration, err error)
}

// HTTPHooks receives the calls made to upload and mail providers.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError reports a request that got no response at all.
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopSheetHooks ignores every sheet event.
type NoopSheetHooks struct{}

func (NoopSheetHooks) OnRenderStart(context.Context, string, int)                          {}
func (NoopSheetHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}
func (NoopSheetHooks) OnInstanceSkipped(context.Context, string, int, error)               {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopDeliveryHooks ignores every delivery event.
type NoopDeliveryHooks struct{}

func (NoopDeliveryHooks) OnUpload(context.Context, string, string, int64, time.Duration, error) {}
func (NoopDeliveryHooks) OnNotify(context.Context, string, string, time.Duration, error)        {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

type registry struct {
	sheet    SheetHooks
	cache    CacheHooks
	delivery DeliveryHooks
	http     HTTPHooks
}

func defaults() registry {
	return registry{
		sheet:    NoopSheetHooks{},
		cache:    NoopCacheHooks{},
		delivery: NoopDeliveryHooks{},
		http:     NoopHTTPHooks{},
	}
}

var (
	mu    sync.RWMutex
	hooks = defaults()
)

// set installs h in the slot picked by field. A nil h is ignored.
func set[T comparable](h T, field func(*registry) *T) {
	var zero T
	if h == zero {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	*field(&hooks) = h
}

func get[T any](field func(*registry) *T) T {
	mu.RLock()
	defer mu.RUnlock()
	return *field(&hooks)
}

// SetSheetHooks registers sheet hooks. Call it before the first render.
func SetSheetHooks(h SheetHooks) { set(h, func(r *registry) *SheetHooks { return &r.sheet }) }

// SetCacheHooks registers cache hooks.
func SetCacheHooks(h CacheHooks) { set(h, func(r *registry) *CacheHooks { return &r.cache }) }

// SetDeliveryHooks registers delivery hooks.
func SetDeliveryHooks(h DeliveryHooks) {
	set(h, func(r *registry) *DeliveryHooks { return &r.delivery })
}

// SetHTTPHooks registers HTTP hooks.
func SetHTTPHooks(h HTTPHooks) { set(h, func(r *registry) *HTTPHooks { return &r.http }) }

// Sheet returns the registered sheet hooks.
func Sheet() SheetHooks { return get(func(r *registry) *SheetHooks { return &r.sheet }) }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return get(func(r *registry) *CacheHooks { return &r.cache }) }

// Delivery returns the registered delivery hooks.
func Delivery() DeliveryHooks {
	return get(func(r *registry) *DeliveryHooks { return &r.delivery })
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return get(func(r *registry) *HTTPHooks { return &r.http }) }

// Reset restores the no-op hooks. Tests use it to undo registrations.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	hooks = defaults()
}
