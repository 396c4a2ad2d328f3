package database

// -----------------------------------------------------------------------------
// CONDITIONAL CLAUSE (WHERE / HAVING / JOIN ON)
// -----------------------------------------------------------------------------
// Condition, koşul gruplarından oluşan bir ağaçtır:
//   - Where*   → mevcut üst seviye grubun AND listesine yaprak ekler
//   - OrWhere* → yeni bir üst seviye OR grubu açar (iç içe geçmez)
//   - WhereGroup → parantez içinde alt koşul ağacı ekler
//
// Render sırası: gruplar " OR ", yapraklar " AND " ile birleştirilir.
// Parametre sırası, placeholder'ların metindeki soldan sağa sırasıyla
// birebir aynıdır.
//
// Tüm değerler placeholder (?) ile bağlanır. WhereString ile verilen ham
// parçalar güvenilir girdi kabul edilir ve doğrulanmaz.
// -----------------------------------------------------------------------------

import (
	"fmt"
	"reflect"
	"strings"
)

// leaf, tek bir koşul yaprağıdır. Üç türden biridir: kolon/operatör/değer,
// ham parça (isRaw) veya alt grup.
type leaf struct {
	column string
	op     string
	value  any

	isRaw  bool
	raw    string
	params []any

	group *Condition
}

// Condition, WHERE/HAVING ve JOIN ON için paylaşılan koşul ağacıdır.
type Condition struct {
	groups [][]leaf
}

// NewCondition, boş bir Condition oluşturur.
//
// Örnek (JOIN ON için):
//
//	on := database.NewCondition().
//	    WhereString("o.customer_id = c.customer_id").
//	    WhereOp("o.status", "!=", "cancelled")
func NewCondition() *Condition {
	return &Condition{}
}

func (c *Condition) and(l leaf) *Condition {
	if len(c.groups) == 0 {
		c.groups = append(c.groups, nil)
	}
	last := len(c.groups) - 1
	c.groups[last] = append(c.groups[last], l)
	return c
}

func (c *Condition) or(l leaf) *Condition {
	if len(c.groups) == 0 || len(c.groups[len(c.groups)-1]) == 0 {
		return c.and(l)
	}
	c.groups = append(c.groups, []leaf{l})
	return c
}

// Where, eşitlik koşulu ekler: column = ?
// value nil ise "column IS NULL" üretilir.
func (c *Condition) Where(column string, value any) *Condition {
	return c.and(leaf{column: column, op: "=", value: value})
}

// WhereOp, açık operatörlü koşul ekler.
//
// Örnek:
//
//	c.WhereOp("p.product_id", "in", []int{1, 2, 3})  // p.product_id IN (?, ?, ?)
//	c.WhereOp("age", "between", []any{18, 65})       // age BETWEEN ? AND ?
func (c *Condition) WhereOp(column, operator string, value any) *Condition {
	return c.and(leaf{column: column, op: operator, value: value})
}

// WhereString, ham bir SQL parçası ve parametrelerini ekler.
// Parça doğrulanmaz; çağıran taraf güvenilir girdi vermekle sorumludur.
func (c *Condition) WhereString(fragment string, params ...any) *Condition {
	return c.and(leaf{isRaw: true, raw: fragment, params: params})
}

// WhereGroup, parantez içinde iç içe bir koşul grubu ekler.
//
// Örnek:
//
//	c.Where("status", "active").WhereGroup(func(g *database.Condition) {
//	    g.Where("role", "admin").OrWhere("role", "editor")
//	})
//	// status = ? AND (role = ? OR role = ?)
func (c *Condition) WhereGroup(fn func(*Condition)) *Condition {
	g := NewCondition()
	fn(g)
	return c.and(leaf{group: g})
}

// OrWhere, yeni bir OR grubu açarak eşitlik koşulu ekler.
func (c *Condition) OrWhere(column string, value any) *Condition {
	return c.or(leaf{column: column, op: "=", value: value})
}

// OrWhereOp, yeni bir OR grubu açarak açık operatörlü koşul ekler.
func (c *Condition) OrWhereOp(column, operator string, value any) *Condition {
	return c.or(leaf{column: column, op: operator, value: value})
}

// OrWhereString, yeni bir OR grubu açarak ham parça ekler.
func (c *Condition) OrWhereString(fragment string, params ...any) *Condition {
	return c.or(leaf{isRaw: true, raw: fragment, params: params})
}

// OrWhereGroup, yeni bir OR grubu açarak parantezli alt grup ekler.
func (c *Condition) OrWhereGroup(fn func(*Condition)) *Condition {
	g := NewCondition()
	fn(g)
	return c.or(leaf{group: g})
}

// IsEmpty, hiç yaprak olup olmadığını bildirir.
func (c *Condition) IsEmpty() bool {
	if c == nil {
		return true
	}
	for _, g := range c.groups {
		if len(g) > 0 {
			return false
		}
	}
	return true
}

// Columns, kolon yapraklarında geçen kolon adlarını render sırasıyla döndürür.
// Ham parçalar ve alt gruplar dahil edilmez.
func (c *Condition) Columns() []string {
	var cols []string
	for _, g := range c.groups {
		for _, l := range g {
			if l.column != "" {
				cols = append(cols, l.column)
			}
		}
	}
	return cols
}

// Compile, koşulu SQL parçasına ve parametrelerine dönüştürür.
func (c *Condition) Compile() (string, []any, error) {
	if c.IsEmpty() {
		return "", nil, nil
	}
	var (
		groups []string
		params []any
	)
	for _, g := range c.groups {
		if len(g) == 0 {
			continue
		}
		parts := make([]string, 0, len(g))
		for _, l := range g {
			sql, p, err := l.compile()
			if err != nil {
				return "", nil, err
			}
			if sql == "" {
				continue
			}
			parts = append(parts, sql)
			params = append(params, p...)
		}
		if len(parts) > 0 {
			groups = append(groups, strings.Join(parts, " AND "))
		}
	}
	return strings.Join(groups, " OR "), params, nil
}

func (l leaf) compile() (string, []any, error) {
	switch {
	case l.group != nil:
		sql, params, err := l.group.Compile()
		if err != nil || sql == "" {
			return "", nil, err
		}
		return "(" + sql + ")", params, nil
	case l.isRaw:
		return l.raw, append([]any(nil), l.params...), nil
	case strings.TrimSpace(l.column) == "":
		return "", nil, fmt.Errorf("%w: condition has no column", ErrInvalidQuery)
	}

	op := normalizeOperator(l.op)
	if !allowedOperators[op] {
		return "", nil, fmt.Errorf("%w: %q on column %s", ErrInvalidOperator, l.op, l.column)
	}

	switch op {
	case "IN", "NOT IN":
		values := flatten(l.value)
		if len(values) == 0 {
			// Boş liste: IN () geçersiz SQL olduğu için sabit koşul üretilir.
			if op == "IN" {
				return "1 = 0", nil, nil
			}
			return "1 = 1", nil, nil
		}
		placeholders := make([]string, len(values))
		for i := range values {
			placeholders[i] = "?"
		}
		return fmt.Sprintf("%s %s (%s)", l.column, op, strings.Join(placeholders, ", ")), values, nil

	case "BETWEEN", "NOT BETWEEN":
		values := flatten(l.value)
		if len(values) != 2 {
			return "", nil, fmt.Errorf("%w: %s requires exactly 2 values, got %d", ErrInvalidOperator, op, len(values))
		}
		return fmt.Sprintf("%s %s ? AND ?", l.column, op), values, nil
	}

	if l.value == nil {
		switch op {
		case "=", "IS":
			return l.column + " IS NULL", nil, nil
		case "!=", "<>", "IS NOT":
			return l.column + " IS NOT NULL", nil, nil
		}
	}
	return fmt.Sprintf("%s %s ?", l.column, op), []any{l.value}, nil
}

// flatten, slice/array değerlerini []any'ye açar. []byte tek değer sayılır.
func flatten(v any) []any {
	switch vv := v.(type) {
	case nil:
		return nil
	case []any:
		return append([]any(nil), vv...)
	case []byte:
		return []any{vv}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// ConditionalClause, WHERE veya HAVING anahtar kelimesiyle render edilen
// Condition'dır.
type ConditionalClause struct {
	*Condition
	keyword string
}

// NewConditionalClause, verilen anahtar kelimeyle ("WHERE", "HAVING") clause oluşturur.
func NewConditionalClause(keyword string) *ConditionalClause {
	return &ConditionalClause{Condition: NewCondition(), keyword: keyword}
}

// ToSQL, clause'u anahtar kelimesiyle birlikte render eder. Boşsa "" döner.
func (w *ConditionalClause) ToSQL() (string, []any, error) {
	sql, params, err := w.Compile()
	if err != nil || sql == "" {
		return "", nil, err
	}
	return w.keyword + " " + sql, params, nil
}
