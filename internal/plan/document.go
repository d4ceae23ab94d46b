package plan

import "github.com/tidwall/gjson"

// Document is a wellness plan exactly as the plan service produced it. The
// shape is not fixed: domain sections may sit at the top level or under any
// of several wrapper keys. A Document is never modified after construction.
type Document []byte

// FromBytes copies b into a new Document.
func FromBytes(b []byte) Document {
	if len(b) == 0 {
		return nil
	}
	d := make(Document, len(b))
	copy(d, b)
	return d
}

// Valid reports whether the document holds a JSON object.
func (d Document) Valid() bool {
	return d.root().IsObject()
}

// Empty reports whether the document carries no usable data.
func (d Document) Empty() bool {
	r := d.root()
	return !r.IsObject() || len(r.Map()) == 0
}

func (d Document) root() gjson.Result {
	if len(d) == 0 || !gjson.ValidBytes(d) {
		return gjson.Result{}
	}
	return gjson.ParseBytes(d)
}

// Get returns the raw value at a gjson path.
func (d Document) Get(path string) gjson.Result {
	return d.root().Get(path)
}

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 || !gjson.ValidBytes(d) {
		return []byte("null"), nil
	}
	return []byte(d), nil
}

func (d *Document) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = nil
		return nil
	}
	*d = FromBytes(b)
	return nil
}
