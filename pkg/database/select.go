package database

import "strings"

// SelectClause, SELECT kolon ifadelerini ekleme sırasıyla ve tekrarsız tutar.
type SelectClause struct {
	fields []string
	seen   map[string]struct{}
}

// NewSelectClause, boş bir SelectClause oluşturur.
func NewSelectClause() *SelectClause {
	return &SelectClause{seen: make(map[string]struct{})}
}

// Add, kolon ifadelerini ekler. Daha önce eklenmiş ifadeler yok sayılır.
func (s *SelectClause) Add(fields ...string) {
	for _, f := range fields {
		if _, ok := s.seen[f]; ok {
			continue
		}
		s.seen[f] = struct{}{}
		s.fields = append(s.fields, f)
	}
}

// Clear, tüm kolonları temizler.
func (s *SelectClause) Clear() {
	s.fields = nil
	s.seen = make(map[string]struct{})
}

// IsEmpty, hiç kolon seçilmediğini bildirir.
func (s *SelectClause) IsEmpty() bool { return len(s.fields) == 0 }

// Fields, seçili kolonların kopyasını döndürür.
func (s *SelectClause) Fields() []string {
	return append([]string(nil), s.fields...)
}

// ToSQL, "SELECT a, b" üretir. Boşsa yalnızca "SELECT" anahtar kelimesi döner.
func (s *SelectClause) ToSQL() string {
	if s.IsEmpty() {
		return "SELECT"
	}
	return "SELECT " + strings.Join(s.fields, ", ")
}
