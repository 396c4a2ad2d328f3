package database

import (
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Grammar Interface
// -----------------------------------------------------------------------------
// Grammar, SQL lehçesine özgü parçaların üretimini tanımlar. Bu katmanda
// lehçeye duyarlı olan tek şey sayfalama sözdizimidir; diğer tüm clause'lar
// her lehçede aynı render edilir.
//
// Lehçeler:
//   - StandardGrammar: MySQL, PostgreSQL, SQLite → LIMIT n / OFFSET n
//   - SQLServerGrammar: SQL Server → OFFSET n ROWS / FETCH NEXT n ROWS ONLY
// -----------------------------------------------------------------------------

// DialectSQLServer, OFFSET ... FETCH sözdizimini seçen lehçe adıdır.
const DialectSQLServer = "sqlsrv"

// Grammar, SQL lehçesine özgü sayfalama üretimini tanımlar.
type Grammar interface {
	// Name, lehçe adını döndürür ("standard", "sqlsrv").
	Name() string

	// CompileOffset, OFFSET parçasını üretir. Gerek yoksa "" döner.
	CompileOffset(offset, limit *int) string

	// CompileLimit, LIMIT/FETCH parçasını üretir. Gerek yoksa "" döner.
	CompileLimit(limit *int) string
}

// GrammarFor, lehçe adına göre Grammar döndürür.
// "sqlsrv" dışındaki tüm adlar (boş string dahil) standart lehçedir.
func GrammarFor(dialect string) Grammar {
	if strings.EqualFold(strings.TrimSpace(dialect), DialectSQLServer) {
		return NewSQLServerGrammar()
	}
	return NewStandardGrammar()
}

// StandardGrammar, LIMIT/OFFSET kullanan lehçelerin grammar'ıdır.
type StandardGrammar struct{}

// NewStandardGrammar, standart grammar oluşturur.
func NewStandardGrammar() *StandardGrammar {
	return &StandardGrammar{}
}

// Name implements Grammar.
func (g *StandardGrammar) Name() string { return "standard" }

// CompileOffset implements Grammar.
func (g *StandardGrammar) CompileOffset(offset, _ *int) string {
	if offset == nil {
		return ""
	}
	return fmt.Sprintf("OFFSET %d", *offset)
}

// CompileLimit implements Grammar.
func (g *StandardGrammar) CompileLimit(limit *int) string {
	if limit == nil {
		return ""
	}
	return fmt.Sprintf("LIMIT %d", *limit)
}
