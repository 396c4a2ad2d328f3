// -----------------------------------------------------------------------------
// Generic Record
// -----------------------------------------------------------------------------
// Map'e hedef tip verilmediğinde hidrator Record üretir. Record, property
// adlarıyla adreslenebilen ve ekleme sırasını koruyan bir alan çantasıdır.
// Tekil ilişkiler *Record, çoğul ilişkiler []Entity olarak saklanır.
// -----------------------------------------------------------------------------

package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record, sıralı generic alan çantasıdır.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord, boş bir Record oluşturur.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

func (r *Record) put(property string, value any) {
	if _, ok := r.values[property]; !ok {
		r.keys = append(r.keys, property)
	}
	r.values[property] = value
}

// SetField implements Entity.
func (r *Record) SetField(property string, value any) error {
	r.put(property, value)
	return nil
}

// SetOne implements Entity.
func (r *Record) SetOne(property string, related Entity) error {
	r.put(property, related)
	return nil
}

// AddMany implements Entity.
func (r *Record) AddMany(property string, related Entity) error {
	existing, ok := r.values[property]
	if !ok {
		r.put(property, []Entity{related})
		return nil
	}
	list, ok := existing.([]Entity)
	if !ok {
		return fmt.Errorf("mapper: property %q already holds a %T, cannot append", property, existing)
	}
	r.values[property] = append(list, related)
	return nil
}

// Keys, property adlarını ekleme sırasıyla döndürür.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Has, property'nin atanmış olup olmadığını bildirir.
func (r *Record) Has(property string) bool {
	_, ok := r.values[property]
	return ok
}

// Get, property değerini döndürür.
func (r *Record) Get(property string) any {
	return r.values[property]
}

// String, property değerini string olarak döndürür.
func (r *Record) String(property string) string {
	return String(r.values[property])
}

// Int64, property değerini int64 olarak döndürür.
func (r *Record) Int64(property string) int64 {
	return Int64(r.values[property])
}

// One, tekil ilişkiyi döndürür. Atanmamışsa nil döner.
func (r *Record) One(property string) *Record {
	rec, _ := r.values[property].(*Record)
	return rec
}

// Many, çoğul ilişkinin Record elemanlarını döndürür.
func (r *Record) Many(property string) []*Record {
	list, _ := r.values[property].([]Entity)
	out := make([]*Record, 0, len(list))
	for _, e := range list {
		if rec, ok := e.(*Record); ok {
			out = append(out, rec)
		}
	}
	return out
}

// MarshalJSON, alanları ekleme sırasıyla JSON nesnesine yazar.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("mapper: marshal %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
