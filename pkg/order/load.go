package order

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/magnetsheet/pkg/errors"
)

// orderFile is the on-disk shape of an order file.
//
//	order_number  = "1042"
//	customer_name = "Ana Pérez"
//	phone         = "+598 99 123 456"
//	total_magnets = 12
//
//	[[photo]]
//	path     = "crops/beach.png"
//	quantity = 3
type orderFile struct {
	OrderNumber  string       `toml:"order_number" yaml:"order_number" json:"orderNumber"`
	CustomerName string       `toml:"customer_name" yaml:"customer_name" json:"customerName"`
	Phone        string       `toml:"phone" yaml:"phone" json:"phone"`
	TotalMagnets int          `toml:"total_magnets" yaml:"total_magnets" json:"totalMagnets"`
	Photos       []photoEntry `toml:"photo" yaml:"photos" json:"photos"`
}

type photoEntry struct {
	ID       string `toml:"id" yaml:"id" json:"id"`
	Path     string `toml:"path" yaml:"path" json:"path"`
	Quantity int    `toml:"quantity" yaml:"quantity" json:"quantity"`
}

// Load reads an order file and the crops it references.
//
// The format is chosen by extension: .toml, .yaml/.yml or .json. Photo
// paths are resolved relative to the order file. A photo with an empty path
// is kept as a source with no data, which the engine renders as a blank
// cell. Sources without an ID get a random one.
func Load(path string) (Info, []Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "order file %s", path)
		}
		return Info{}, nil, err
	}

	f, err := decodeOrderFile(data, filepath.Ext(path))
	if err != nil {
		return Info{}, nil, err
	}

	info := Info{
		OrderNumber:  f.OrderNumber,
		CustomerName: f.CustomerName,
		Phone:        f.Phone,
		TotalMagnets: f.TotalMagnets,
	}.Normalize()

	dir := filepath.Dir(path)
	sources := make([]Source, 0, len(f.Photos))
	for _, p := range f.Photos {
		src := Source{ID: p.ID, Quantity: p.Quantity}
		if p.Path != "" {
			full := p.Path
			if !filepath.IsAbs(full) {
				full = filepath.Join(dir, full)
			}
			if src.Data, err = os.ReadFile(full); err != nil {
				return Info{}, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "photo %s", p.Path)
			}
			if src.ID == "" {
				src.ID = strings.TrimSuffix(filepath.Base(p.Path), filepath.Ext(p.Path))
			}
		}
		sources = append(sources, src)
	}
	AssignIDs(sources)

	return info, sources, nil
}

func decodeOrderFile(data []byte, ext string) (orderFile, error) {
	var f orderFile
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		return f, errors.New(errors.ErrCodeInvalidOrderFile, "unsupported order file extension %q (want .toml, .yaml or .json)", ext)
	}
	if err != nil {
		return f, errors.Wrap(errors.ErrCodeInvalidOrderFile, err, "decode order file")
	}
	return f, nil
}
