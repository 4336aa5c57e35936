package cache

// Keyer builds cache keys.
type Keyer interface {
	// SheetKey addresses the encoded files of one rendered order.
	SheetKey(orderHash string, opts SheetKeyOpts) string

	// UploadKey addresses the store record of one uploaded file.
	UploadKey(store, fileHash string) string
}

// SheetKeyOpts holds the render settings that change the output bytes.
type SheetKeyOpts struct {
	Mode    string `json:"mode"`
	DPI     int    `json:"dpi"`
	CutList bool   `json:"cutlist,omitempty"`
}

// DefaultKeyer is the Keyer used when none is configured.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SheetKey returns "sheet:<hash>" over the order hash and options.
func (DefaultKeyer) SheetKey(orderHash string, opts SheetKeyOpts) string {
	return hashKey("sheet", orderHash, opts)
}

// UploadKey returns "upload:<store>:<fileHash>".
func (DefaultKeyer) UploadKey(store, fileHash string) string {
	return "upload:" + store + ":" + fileHash
}

var _ Keyer = DefaultKeyer{}
