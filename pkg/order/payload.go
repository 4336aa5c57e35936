package order

// File describes one delivered artifact.
// URL is empty when the file travels as an attachment instead of a link.
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url,omitempty"`
}

// Payload is everything a notifier needs to write the order summary.
type Payload struct {
	OrderNumber  string `json:"orderNumber"`
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	FileCount    int    `json:"fileCount"`
	Files        []File `json:"files"`
	TotalMagnets int    `json:"totalMagnets"`
}

// NewPayload builds the notification payload for an order and its files.
func NewPayload(info Info, files []File) Payload {
	return Payload{
		OrderNumber:  info.OrderNumber,
		CustomerName: info.CustomerName,
		Phone:        info.Phone,
		FileCount:    len(files),
		Files:        files,
		TotalMagnets: info.TotalMagnets,
	}
}

// HasLinks reports whether every file carries a download URL.
func (p Payload) HasLinks() bool {
	if len(p.Files) == 0 {
		return false
	}
	for _, f := range p.Files {
		if f.URL == "" {
			return false
		}
	}
	return true
}

// TotalSize returns the combined size of all files in bytes.
func (p Payload) TotalSize() int64 {
	var n int64
	for _, f := range p.Files {
		n += f.Size
	}
	return n
}
