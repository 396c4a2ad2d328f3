package database

import (
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// SELECT BUILDER
// -----------------------------------------------------------------------------
// SelectBuilder, bir SELECT ifadesinin parçalarını (kolonlar, tablo, join'ler,
// koşullar, gruplama, sıralama, sayfalama) biriktirir ve Build ile değişmez
// bir Statement'a dönüştürür.
//
// Clause'lar hangi sırayla çağrılırsa çağrılsın render sırası sabittir:
//
//	SELECT → FROM → JOIN → WHERE → GROUP BY → HAVING → ORDER BY → OFFSET → LIMIT
//
// Boş parçalar atlanır, kalanlar "\n" ile birleştirilir.
//
// Builder tek bir goroutine'e aittir; Build'den dönen Statement ise
// paylaşılabilir.
// -----------------------------------------------------------------------------

type SelectBuilder struct {
	grammar Grammar
	from    TableRef
	sel     *SelectClause
	joins   JoinClause
	where   *ConditionalClause
	groupBy []string
	having  *ConditionalClause
	orderBy OrderByClause
	limit   *int
	offset  *int
}

// NewSelectBuilder, verilen grammar ile boş bir builder oluşturur.
// grammar nil ise standart lehçe kullanılır.
//
// Örnek:
//
//	stmt, err := database.NewSelectBuilder(nil).
//	    Select("id", "name").
//	    From("customers c").
//	    Where("c.country", "Germany").
//	    OrderByAsc("name").
//	    Limit(10).
//	    Build()
func NewSelectBuilder(grammar Grammar) *SelectBuilder {
	if grammar == nil {
		grammar = NewStandardGrammar()
	}
	return &SelectBuilder{
		grammar: grammar,
		sel:     NewSelectClause(),
		where:   NewConditionalClause("WHERE"),
		having:  NewConditionalClause("HAVING"),
	}
}

// Grammar, builder'ın lehçesini döndürür.
func (b *SelectBuilder) Grammar() Grammar { return b.grammar }

// --- FROM / SELECT ---

// From, ana tabloyu "customers" veya "customers c" biçiminde ayarlar.
func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.from = ParseTable(table)
	return b
}

// FromRef, ana tabloyu hazır bir TableRef ile ayarlar (alt sorgu dahil).
func (b *SelectBuilder) FromRef(ref TableRef) *SelectBuilder {
	b.from = ref
	return b
}

// Table, ayarlanmış ana tablo referansını döndürür.
func (b *SelectBuilder) Table() TableRef { return b.from }

// Select, seçilecek kolon ifadelerini ekler. Tekrarlar yok sayılır.
func (b *SelectBuilder) Select(fields ...string) *SelectBuilder {
	b.sel.Add(fields...)
	return b
}

// ClearSelect, seçili kolonları temizler.
func (b *SelectBuilder) ClearSelect() *SelectBuilder {
	b.sel.Clear()
	return b
}

// --- JOIN ---

// Join, bir JOIN girdisi ekler.
func (b *SelectBuilder) Join(entry JoinEntry) *SelectBuilder {
	b.joins.Add(entry)
	return b
}

// HasJoins, en az bir JOIN eklenip eklenmediğini bildirir.
func (b *SelectBuilder) HasJoins() bool { return b.joins.HasJoins() }

// --- WHERE ---

// Where, "column = ?" eşitlik koşulu ekler.
func (b *SelectBuilder) Where(column string, value any) *SelectBuilder {
	b.where.Where(column, value)
	return b
}

// WhereOp, açık operatörlü koşul ekler: WhereOp("p.product_id", "IN", ids).
func (b *SelectBuilder) WhereOp(column, operator string, value any) *SelectBuilder {
	b.where.WhereOp(column, operator, value)
	return b
}

// WhereString, ham bir SQL parçası ve parametrelerini ekler.
func (b *SelectBuilder) WhereString(fragment string, params ...any) *SelectBuilder {
	b.where.WhereString(fragment, params...)
	return b
}

// WhereGroup, parantez içinde bir alt koşul grubu ekler.
func (b *SelectBuilder) WhereGroup(fn func(*Condition)) *SelectBuilder {
	b.where.WhereGroup(fn)
	return b
}

func (b *SelectBuilder) OrWhere(column string, value any) *SelectBuilder {
	b.where.OrWhere(column, value)
	return b
}

func (b *SelectBuilder) OrWhereOp(column, operator string, value any) *SelectBuilder {
	b.where.OrWhereOp(column, operator, value)
	return b
}

func (b *SelectBuilder) OrWhereString(fragment string, params ...any) *SelectBuilder {
	b.where.OrWhereString(fragment, params...)
	return b
}

func (b *SelectBuilder) OrWhereGroup(fn func(*Condition)) *SelectBuilder {
	b.where.OrWhereGroup(fn)
	return b
}

// --- GROUP BY / HAVING ---

// GroupBy, gruplama alanlarını ayarlar. Her çağrı önceki listenin yerine geçer.
//
// Dikkat: alanlar virgülle değil yalnızca boşlukla birleştirilir. Virgül
// gerekiyorsa tek bir hazır string verilmelidir:
//
//	GroupBy("country, city")   → GROUP BY country, city
//	GroupBy("country", "city") → GROUP BY country city
func (b *SelectBuilder) GroupBy(fields ...string) *SelectBuilder {
	b.groupBy = append([]string(nil), fields...)
	return b
}

func (b *SelectBuilder) Having(column string, value any) *SelectBuilder {
	b.having.Where(column, value)
	return b
}

func (b *SelectBuilder) HavingOp(column, operator string, value any) *SelectBuilder {
	b.having.WhereOp(column, operator, value)
	return b
}

func (b *SelectBuilder) HavingString(fragment string, params ...any) *SelectBuilder {
	b.having.WhereString(fragment, params...)
	return b
}

func (b *SelectBuilder) HavingGroup(fn func(*Condition)) *SelectBuilder {
	b.having.WhereGroup(fn)
	return b
}

func (b *SelectBuilder) OrHaving(column string, value any) *SelectBuilder {
	b.having.OrWhere(column, value)
	return b
}

func (b *SelectBuilder) OrHavingOp(column, operator string, value any) *SelectBuilder {
	b.having.OrWhereOp(column, operator, value)
	return b
}

func (b *SelectBuilder) OrHavingString(fragment string, params ...any) *SelectBuilder {
	b.having.OrWhereString(fragment, params...)
	return b
}

func (b *SelectBuilder) OrHavingGroup(fn func(*Condition)) *SelectBuilder {
	b.having.OrWhereGroup(fn)
	return b
}

// --- ORDER BY / PAGINATION ---

// OrderBy, sıralama ekler. "DESC" dışındaki yönler ASC kabul edilir.
func (b *SelectBuilder) OrderBy(column string, direction OrderDirection) *SelectBuilder {
	b.orderBy.Add(column, direction)
	return b
}

func (b *SelectBuilder) OrderByAsc(column string) *SelectBuilder {
	return b.OrderBy(column, OrderAsc)
}

func (b *SelectBuilder) OrderByDesc(column string) *SelectBuilder {
	return b.OrderBy(column, OrderDesc)
}

// Limit, döndürülecek maksimum satır sayısını ayarlar.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = &n
	return b
}

// Offset, atlanacak satır sayısını ayarlar.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.offset = &n
	return b
}

// --- RENDER ---

// Build, builder'ın mevcut durumunu değişmez bir Statement'a dönüştürür.
//
// Döndürür:
//   - *Statement: SQL metni ve parametreleri
//   - error: tablo eksikse ErrTableRequired, geçersiz koşulda ErrInvalidQuery türevi
func (b *SelectBuilder) Build() (*Statement, error) {
	return b.build("")
}

// ToSQL, Build'in kısayoludur.
func (b *SelectBuilder) ToSQL() (string, []any, error) {
	stmt, err := b.Build()
	if err != nil {
		return "", nil, err
	}
	return stmt.SQL(), stmt.Parameters(), nil
}

// build, seçim boşsa fallback kolon ifadesini kullanarak render eder.
// fallback "" ise yalnızca SELECT anahtar kelimesi yazılır.
func (b *SelectBuilder) build(fallback string) (*Statement, error) {
	if b.from.IsZero() {
		return nil, ErrTableRequired
	}

	parts := make([]string, 0, 9)
	var params []any

	if b.sel.IsEmpty() && fallback != "" {
		parts = append(parts, "SELECT "+fallback)
	} else {
		parts = append(parts, b.sel.ToSQL())
	}

	from, fromParams, err := b.from.ToSQL()
	if err != nil {
		return nil, err
	}
	parts = append(parts, "FROM "+from)
	params = append(params, fromParams...)

	join, joinParams, err := b.joins.ToSQL()
	if err != nil {
		return nil, err
	}
	parts = append(parts, join)
	params = append(params, joinParams...)

	where, whereParams, err := b.where.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}
	parts = append(parts, where)
	params = append(params, whereParams...)

	parts = append(parts, b.compileGroupBy())

	having, havingParams, err := b.having.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("having: %w", err)
	}
	parts = append(parts, having)
	params = append(params, havingParams...)

	parts = append(parts,
		b.orderBy.ToSQL(),
		b.grammar.CompileOffset(b.offset, b.limit),
		b.grammar.CompileLimit(b.limit),
	)

	lines := parts[:0]
	for _, p := range parts {
		if p != "" {
			lines = append(lines, p)
		}
	}
	return newStatement(strings.Join(lines, "\n"), params), nil
}

func (b *SelectBuilder) compileGroupBy() string {
	if len(b.groupBy) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("GROUP BY")
	for _, f := range b.groupBy {
		sb.WriteString(" " + f)
	}
	return sb.String()
}
