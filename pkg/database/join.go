package database

// -----------------------------------------------------------------------------
// JOIN OPERATIONS
// -----------------------------------------------------------------------------
// JoinClause, JOIN girdilerini bildirim sırasıyla tutar ve her birini
// "<KIND> JOIN <tablo> ON <koşul>" satırı olarak render eder.
//
// Koşul iki şekilde verilebilir:
//   - Kolon çifti: ("o.customer_id", "c.customer_id") → o.customer_id = c.customer_id
//   - Condition: WHERE ile aynı operatör sözlüğünü destekleyen koşul ağacı
//
// Hedef tablo bir alt sorgu da olabilir; alt sorgunun parametreleri JOIN
// parametrelerine eklenir.
// -----------------------------------------------------------------------------

import (
	"fmt"
	"strings"
)

// TableRef, bir tablo adı ya da alt sorgu ve alias'ıdır.
type TableRef struct {
	Name  string
	Alias string
	Sub   *SelectBuilder
}

// ParseTable, "orders o" veya "orders AS o" biçimindeki ifadeyi ayrıştırır.
//
// Örnek:
//
//	ParseTable("orders o")     → {Name: "orders", Alias: "o"}
//	ParseTable("orders AS o")  → {Name: "orders", Alias: "o"}
//	ParseTable("orders")       → {Name: "orders"}
func ParseTable(table string) TableRef {
	fields := strings.Fields(table)
	switch {
	case len(fields) == 0:
		return TableRef{}
	case len(fields) == 3 && strings.EqualFold(fields[1], "AS"):
		return TableRef{Name: fields[0], Alias: fields[2]}
	case len(fields) == 2:
		return TableRef{Name: fields[0], Alias: fields[1]}
	default:
		return TableRef{Name: strings.TrimSpace(table)}
	}
}

// SubQuery, alias'lı bir alt sorgu referansı oluşturur.
func SubQuery(b *SelectBuilder, alias string) TableRef {
	return TableRef{Sub: b, Alias: alias}
}

// IsZero, referansın boş olup olmadığını bildirir.
func (t TableRef) IsZero() bool {
	return t.Name == "" && t.Sub == nil
}

// ToSQL, referansı "orders o" veya "(SELECT ...) o" olarak render eder.
func (t TableRef) ToSQL() (string, []any, error) {
	if t.Sub != nil {
		sql, params, err := t.Sub.ToSQL()
		if err != nil {
			return "", nil, fmt.Errorf("subquery %s: %w", t.Alias, err)
		}
		return "(" + sql + ") " + t.Alias, params, nil
	}
	if t.Alias == "" {
		return t.Name, nil, nil
	}
	return t.Name + " " + t.Alias, nil, nil
}

// JoinEntry, tek bir JOIN ifadesidir. On verilmişse Left/Right yok sayılır.
type JoinEntry struct {
	Type  JoinType
	Set   TableRef
	Left  string
	Right string
	On    *Condition
}

// JoinClause, JOIN girdilerinin sıralı listesidir.
type JoinClause struct {
	entries []JoinEntry
}

// Add, yeni bir JOIN girdisi ekler.
func (j *JoinClause) Add(entry JoinEntry) {
	j.entries = append(j.entries, entry)
}

// HasJoins, en az bir JOIN olup olmadığını bildirir.
func (j *JoinClause) HasJoins() bool { return len(j.entries) > 0 }

// Entries, girdilerin kopyasını döndürür.
func (j *JoinClause) Entries() []JoinEntry {
	return append([]JoinEntry(nil), j.entries...)
}

// ToSQL, her JOIN'i ayrı satırda render eder.
func (j *JoinClause) ToSQL() (string, []any, error) {
	if len(j.entries) == 0 {
		return "", nil, nil
	}
	lines := make([]string, 0, len(j.entries))
	var params []any
	for _, e := range j.entries {
		set, setParams, err := e.Set.ToSQL()
		if err != nil {
			return "", nil, err
		}
		params = append(params, setParams...)

		line := fmt.Sprintf("%s JOIN %s", e.Type, set)
		if e.Type != CrossJoin {
			on, onParams, err := e.predicate()
			if err != nil {
				return "", nil, fmt.Errorf("join %s: %w", set, err)
			}
			line += " ON " + on
			params = append(params, onParams...)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), params, nil
}

func (e JoinEntry) predicate() (string, []any, error) {
	if e.On != nil {
		on, params, err := e.On.Compile()
		if err != nil {
			return "", nil, err
		}
		if on == "" {
			return "", nil, fmt.Errorf("%w: empty join condition", ErrInvalidQuery)
		}
		return on, params, nil
	}
	if e.Left == "" || e.Right == "" {
		return "", nil, fmt.Errorf("%w: join requires a column pair or a condition", ErrInvalidQuery)
	}
	return e.Left + " = " + e.Right, nil, nil
}
