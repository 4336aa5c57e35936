package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/magnetsheet/pkg/artifact"
	"github.com/matzehuels/magnetsheet/pkg/cache"
	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/notify"
	"github.com/matzehuels/magnetsheet/pkg/observability"
	"github.com/matzehuels/magnetsheet/pkg/order"
)

// Submit validates the order, renders it, delivers the files and notifies
// the print shop.
//
// Files are uploaded through the Store and linked from the notification,
// or attached to it when opts.Attach is set. When notifying fails the
// returned Result still lists the uploaded files alongside the error.
func (r *Runner) Submit(ctx context.Context, info order.Info, sources []order.Source, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	info = info.Normalize()
	if err := order.Validate(info, sources); err != nil {
		return nil, err
	}
	if r.Notifier == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no notifier configured")
	}
	if !opts.Attach && r.Store == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no artifact store configured (use attach mode to mail files instead)")
	}

	opts.report(StageRender)
	res, _, err := r.RenderWithCacheInfo(ctx, info, sources, opts)
	if err != nil {
		return nil, err
	}

	var attachments []notify.Attachment
	if opts.Attach {
		for _, f := range res.Files {
			attachments = append(attachments, notify.Attachment{Name: f.Name, ContentType: f.ContentType, Data: f.Data})
		}
	} else {
		opts.report(StageUpload)
		start := time.Now()
		for i := range res.Files {
			if err := r.upload(ctx, &res.Files[i], opts); err != nil {
				return nil, err
			}
		}
		res.Stats.UploadTime = time.Since(start)
		opts.Logger.Info("uploaded files",
			"order", info.OrderNumber,
			"store", r.Store.Kind(),
			"files", len(res.Files),
			"duration", res.Stats.UploadTime)
	}

	res.Payload = order.NewPayload(info, res.orderFiles())

	opts.report(StageNotify)
	start := time.Now()
	err = r.Notifier.Notify(ctx, res.Payload, attachments...)
	res.Stats.NotifyTime = time.Since(start)
	observability.Delivery().OnNotify(ctx, r.Notifier.Transport.Name(), info.OrderNumber, res.Stats.NotifyTime, err)
	return res, err
}

// upload puts f in the store and sets its URL. A file already uploaded
// under the same name and content is not sent again.
func (r *Runner) upload(ctx context.Context, f *File, opts Options) error {
	key := r.Keyer.UploadKey(r.Store.Kind(), cache.Hash([]byte(f.Name+":"+cache.Hash(f.Data))))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var obj artifact.Object
			if err := json.Unmarshal(data, &obj); err == nil && obj.URL != "" {
				observability.Cache().OnCacheHit(ctx, key)
				f.URL = obj.URL
				opts.Logger.Debug("upload cache hit", "file", f.Name, "url", obj.URL)
				return nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, key)
	}

	start := time.Now()
	obj, err := r.Store.Put(ctx, f.Name, f.ContentType, f.Data)
	observability.Delivery().OnUpload(ctx, r.Store.Kind(), f.Name, int64(len(f.Data)), time.Since(start), err)
	if err != nil {
		if errors.GetCode(err) == errors.ErrCodeUploadFailed {
			return err
		}
		return errors.Wrap(errors.ErrCodeUploadFailed, err, "upload %s", f.Name)
	}
	f.URL = obj.URL

	if data, err := json.Marshal(obj); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLUpload); err == nil {
			observability.Cache().OnCacheSet(ctx, key, len(data))
		}
	}
	return nil
}
