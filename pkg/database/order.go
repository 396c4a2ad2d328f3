package database

import "strings"

// OrderClause, bir ORDER BY ifadesini temsil eder.
//
// Örnek:
//
//	OrderClause{Column: "created_at", Direction: OrderDesc}
//	→ SQL: created_at DESC
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

// OrderByClause, ORDER BY ifadelerini bildirim sırasıyla tutar.
type OrderByClause struct {
	orders []OrderClause
}

// Add, yeni bir sıralama ekler. Geçersiz yön ASC kabul edilir.
func (o *OrderByClause) Add(column string, direction OrderDirection) {
	dir := OrderDirection(strings.ToUpper(strings.TrimSpace(string(direction))))
	if dir != OrderDesc {
		dir = OrderAsc
	}
	o.orders = append(o.orders, OrderClause{Column: column, Direction: dir})
}

// ToSQL, "ORDER BY col1 ASC, col2 DESC" üretir. Boşsa "" döner.
func (o *OrderByClause) ToSQL() string {
	if len(o.orders) == 0 {
		return ""
	}
	parts := make([]string, len(o.orders))
	for i, ord := range o.orders {
		parts[i] = ord.Column + " " + string(ord.Direction)
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}
