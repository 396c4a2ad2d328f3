package database

import "fmt"

// -----------------------------------------------------------------------------
// SQL Server Grammar
// -----------------------------------------------------------------------------
// SQL Server'da FETCH, OFFSET olmadan yazılamaz. Bu yüzden limit verilip
// offset verilmediğinde açıkça "OFFSET 0 ROWS" üretilir:
//
//	OFFSET 0 ROWS
//	FETCH NEXT 5 ROWS ONLY
// -----------------------------------------------------------------------------

type SQLServerGrammar struct{}

func NewSQLServerGrammar() *SQLServerGrammar {
	return &SQLServerGrammar{}
}

// Name implements Grammar.
func (g *SQLServerGrammar) Name() string { return DialectSQLServer }

// CompileOffset implements Grammar.
func (g *SQLServerGrammar) CompileOffset(offset, limit *int) string {
	if offset == nil && limit != nil {
		return "OFFSET 0 ROWS"
	}
	if offset != nil {
		return fmt.Sprintf("OFFSET %d ROWS", *offset)
	}
	return ""
}

// CompileLimit implements Grammar.
func (g *SQLServerGrammar) CompileLimit(limit *int) string {
	if limit == nil {
		return ""
	}
	return fmt.Sprintf("FETCH NEXT %d ROWS ONLY", *limit)
}
