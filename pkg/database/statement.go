package database

// Statement, render edilmiş ve artık değişmeyen bir SQL ifadesidir.
// Birden fazla goroutine tarafından güvenle okunabilir.
type Statement struct {
	sql    string
	params []any
}

func newStatement(sql string, params []any) *Statement {
	return &Statement{sql: sql, params: params}
}

// SQL, placeholder'lı SQL metnini döndürür.
func (s *Statement) SQL() string { return s.sql }

// Parameters, placeholder sırasıyla parametrelerin kopyasını döndürür.
func (s *Statement) Parameters() []any {
	return append([]any{}, s.params...)
}

// String, SQL metnini döndürür.
func (s *Statement) String() string { return s.sql }
