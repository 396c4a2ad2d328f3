// -----------------------------------------------------------------------------
// Database Types - SQL Builder İçin Yardımcı Tipler
// -----------------------------------------------------------------------------
// Bu dosya, clause builder'ların kullandığı küçük enum-like tipleri içerir.
// OrderDirection ve JoinType sadece izin verilen değerleri taşır; operatörler
// ise derleme sırasında whitelist üzerinden normalize edilir.
// -----------------------------------------------------------------------------

package database

import "strings"

// OrderDirection, ORDER BY için izin verilen yönleri temsil eder.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// JoinType, JOIN tiplerini temsil eden enum-like yapıdır.
type JoinType string

const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
	CrossJoin JoinType = "CROSS"
)

// allowedOperators, WHERE/HAVING/ON koşullarında kabul edilen operatörlerdir.
var allowedOperators = map[string]bool{
	"=":           true,
	"!=":          true,
	"<>":          true,
	"<":           true,
	">":           true,
	"<=":          true,
	">=":          true,
	"LIKE":        true,
	"NOT LIKE":    true,
	"IN":          true,
	"NOT IN":      true,
	"BETWEEN":     true,
	"NOT BETWEEN": true,
	"IS":          true,
	"IS NOT":      true,
}

// normalizeOperator, operatörü büyük harfe çevirir ve boşlukları sadeleştirir.
// "not  in" → "NOT IN"
func normalizeOperator(op string) string {
	return strings.ToUpper(strings.Join(strings.Fields(op), " "))
}
