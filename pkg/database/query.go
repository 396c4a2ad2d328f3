package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/biyonik/stormquery/pkg/events"
	"github.com/biyonik/stormquery/pkg/mapper"
)

// -----------------------------------------------------------------------------
// QUERY FACADE
// -----------------------------------------------------------------------------
// Queries, uygulama kodunun giriş noktasıdır. Her From çağrısı, bir
// SelectBuilder ile bir hidrasyon topolojisini birlikte yöneten yeni bir
// Query döndürür.
//
//	q := database.New(conn, database.WithDialect("mysql"))
//	customer, err := q.From("customers c", mapper.From(mapper.Cols(
//	        "customer_id", "id",
//	        "customer_name", "name",
//	    ))).
//	    LeftJoin("orders o", "o.customer_id", "c.customer_id", mapper.Many("orders", mapper.Cols(
//	        "order_id", "id",
//	        "order_date", "date",
//	    ))).
//	    Where("c.customer_id", 7).
//	    Find(ctx)
//
// Map kolonları, sürücünün döndürdüğü sonuç kolon adlarıdır. Select
// verilmezse eşlenmiş kolonlar kendi tablolarının alias'ıyla seçilir
// (c.customer_id, c.customer_name, o.order_id, ...); Map yoksa "SELECT *"
// kullanılır.
//
// Yapısal hatalar (alias veya Map eksikliği, bilinmeyen parent) bildirim
// anında kaydedilir; Find/FindAll bu hatayı SQL göndermeden döndürür.
// -----------------------------------------------------------------------------

// Queries, Query üreten ve Executor'ı taşıyan facade'dır.
type Queries struct {
	exec       Executor
	grammar    Grammar
	logger     *log.Logger
	dispatcher *events.Dispatcher
}

// Option, Queries yapılandırma fonksiyonudur.
type Option func(*Queries)

// WithGrammar, sayfalama lehçesini doğrudan ayarlar.
func WithGrammar(g Grammar) Option {
	return func(q *Queries) {
		if g != nil {
			q.grammar = g
		}
	}
}

// WithDialect, lehçeyi adıyla seçer ("sqlsrv" veya diğerleri).
func WithDialect(name string) Option {
	return func(q *Queries) { q.grammar = GrammarFor(name) }
}

// WithLogger, çalıştırılan sorguların loglanacağı logger'ı ayarlar.
// Logger verilmezse sorgular loglanmaz.
func WithLogger(l *log.Logger) Option {
	return func(q *Queries) { q.logger = l }
}

// WithDispatcher, her çalıştırmadan sonra query.executed veya query.failed
// event'i yayınlanacak dispatcher'ı ayarlar.
func WithDispatcher(d *events.Dispatcher) Option {
	return func(q *Queries) { q.dispatcher = d }
}

// New, verilen Executor ile yeni bir Queries oluşturur.
func New(exec Executor, opts ...Option) *Queries {
	q := &Queries{exec: exec, grammar: NewStandardGrammar()}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Dialect, aynı Executor ve logger'ı paylaşan, lehçesi değiştirilmiş bir
// kopya döndürür. Alıcı değişmez.
func (q *Queries) Dialect(name string) *Queries {
	cp := *q
	cp.grammar = GrammarFor(name)
	return &cp
}

// From, ana tabloyla yeni bir Query başlatır. En fazla bir kök Map verilebilir.
func (q *Queries) From(table string, maps ...*mapper.Map) *Query {
	return q.newQuery().From(table, maps...)
}

// Select, kolonlarla yeni bir Query başlatır; tablo From ile verilmelidir.
func (q *Queries) Select(fields ...string) *Query {
	return q.newQuery().Select(fields...)
}

func (q *Queries) newQuery() *Query {
	return &Query{
		queries:  q,
		builder:  NewSelectBuilder(q.grammar),
		topology: mapper.NewTopology("", nil),
	}
}

// Query, tek bir SELECT sorgusunu ve onun hidrasyon topolojisini temsil eder.
// Tek bir goroutine tarafından kurulur; Find/FindAll her çağrıda izole bir
// hidrasyon önbelleği kullanır.
type Query struct {
	queries  *Queries
	builder  *SelectBuilder
	topology *mapper.Topology
	err      error
}

func (q *Query) fail(err error) *Query {
	if q.err == nil {
		q.err = err
	}
	return q
}

// Err, bildirim sırasında kaydedilen ilk yapısal hatayı döndürür.
func (q *Query) Err() error { return q.err }

// Builder, alttaki SelectBuilder'ı döndürür.
func (q *Query) Builder() *SelectBuilder { return q.builder }

// Topology, hidrasyon topolojisini döndürür.
func (q *Query) Topology() *mapper.Topology { return q.topology }

// From, ana tabloyu ve (opsiyonel) kök Map'i ayarlar. Join eklendikten
// sonra kök değiştirilemez.
func (q *Query) From(table string, maps ...*mapper.Map) *Query {
	if q.err != nil {
		return q
	}
	if q.builder.HasJoins() {
		return q.fail(fmt.Errorf("%w: from cannot change the root after joins were added", ErrInvalidQuery))
	}
	ref := ParseTable(table)
	if ref.IsZero() {
		return q.fail(ErrTableRequired)
	}
	if len(maps) > 1 {
		return q.fail(fmt.Errorf("%w: from accepts a single root map", ErrInvalidQuery))
	}
	var root *mapper.Map
	if len(maps) == 1 && maps[0] != nil {
		root = maps[0]
		if err := root.Validate(); err != nil {
			return q.fail(fmt.Errorf("%w: %w", ErrInvalidQuery, err))
		}
		if root.Kind() != mapper.KindRoot {
			return q.fail(fmt.Errorf("%w: from requires a root map, got %s", ErrInvalidQuery, root.Kind()))
		}
	}
	q.builder.FromRef(ref)
	q.topology = mapper.NewTopology(ref.Alias, root)
	return q
}

// Select, seçilecek kolonları ekler.
func (q *Query) Select(fields ...string) *Query {
	q.builder.Select(fields...)
	return q
}

// --- JOIN ---

// LeftJoin, "LEFT JOIN table ON left = right" ekler.
func (q *Query) LeftJoin(table, left, right string, m *mapper.Map) *Query {
	return q.join(LeftJoin, ParseTable(table), left, right, nil, m)
}

// InnerJoin, "INNER JOIN table ON left = right" ekler.
func (q *Query) InnerJoin(table, left, right string, m *mapper.Map) *Query {
	return q.join(InnerJoin, ParseTable(table), left, right, nil, m)
}

// RightJoin, "RIGHT JOIN table ON left = right" ekler.
func (q *Query) RightJoin(table, left, right string, m *mapper.Map) *Query {
	return q.join(RightJoin, ParseTable(table), left, right, nil, m)
}

// JoinOn, koşul ağacıyla bir JOIN ekler. Parent alias, koşulda geçen ve
// join'in kendi alias'ına ait olmayan ilk kolon niteleyicisinden çıkarılır.
func (q *Query) JoinOn(kind JoinType, table string, on *Condition, m *mapper.Map) *Query {
	if on.IsEmpty() {
		return q.fail(fmt.Errorf("%w: empty join condition", ErrInvalidQuery))
	}
	return q.join(kind, ParseTable(table), "", "", on, m)
}

// JoinSub, bir alt sorguyu alias'la JOIN eder.
func (q *Query) JoinSub(kind JoinType, sub *SelectBuilder, alias, left, right string, m *mapper.Map) *Query {
	if sub == nil {
		return q.fail(fmt.Errorf("%w: nil subquery", ErrInvalidQuery))
	}
	return q.join(kind, SubQuery(sub, alias), left, right, nil, m)
}

func (q *Query) join(kind JoinType, ref TableRef, left, right string, on *Condition, m *mapper.Map) *Query {
	if q.err != nil {
		return q
	}
	if kind == CrossJoin {
		return q.fail(fmt.Errorf("%w: cross joins cannot be hydrated", ErrInvalidQuery))
	}
	if q.builder.Table().IsZero() {
		return q.fail(ErrTableRequired)
	}
	if q.topology.RootAlias() == "" {
		return q.fail(fmt.Errorf("%w: table %q needs an alias when joins are used", ErrAliasRequired, q.builder.Table().Name))
	}
	if ref.Alias == "" {
		return q.fail(fmt.Errorf("%w: joined table %q has no alias", ErrAliasRequired, ref.Name))
	}
	if q.topology.Root() == nil {
		return q.fail(fmt.Errorf("%w: table %q needs a map when joins are used", ErrMapRequired, q.builder.Table().Name))
	}
	if m == nil {
		return q.fail(fmt.Errorf("%w: joined table %q has no map", ErrMapRequired, ref.Alias))
	}

	var refs []string
	if on != nil {
		refs = on.qualifiers()
	} else {
		refs = []string{qualifier(left), qualifier(right)}
	}
	parent := parentAlias(ref.Alias, refs)
	if parent == "" || !q.topology.Has(parent) {
		return q.fail(fmt.Errorf("%w: cannot resolve the parent of %q", ErrParentUnknown, ref.Alias))
	}

	if err := q.topology.Add(ref.Alias, parent, m); err != nil {
		return q.fail(fmt.Errorf("%w: %w", ErrInvalidQuery, err))
	}
	q.builder.Join(JoinEntry{Type: kind, Set: ref, Left: left, Right: right, On: on})
	return q
}

// qualifier, "o.customer_id" → "o". Niteleyicisi olmayan kolon için "".
func qualifier(column string) string {
	i := strings.LastIndex(column, ".")
	if i <= 0 {
		return ""
	}
	return strings.TrimSpace(column[:i])
}

func parentAlias(own string, refs []string) string {
	for _, r := range refs {
		if r != "" && r != own {
			return r
		}
	}
	return ""
}

var qualifiedColumn = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\.[A-Za-z_*]`)

// qualifiers, koşuldaki kolon niteleyicilerini render sırasıyla toplar.
// Ham parçalar ve alt gruplar da taranır.
func (c *Condition) qualifiers() []string {
	var out []string
	for _, g := range c.groups {
		for _, l := range g {
			switch {
			case l.group != nil:
				out = append(out, l.group.qualifiers()...)
			case l.raw != "":
				for _, m := range qualifiedColumn.FindAllStringSubmatch(l.raw, -1) {
					out = append(out, m[1])
				}
			default:
				out = append(out, qualifier(l.column))
			}
		}
	}
	return out
}

// --- WHERE / HAVING / ORDER / PAGINATION ---

func (q *Query) Where(column string, value any) *Query {
	q.builder.Where(column, value)
	return q
}

func (q *Query) WhereOp(column, operator string, value any) *Query {
	q.builder.WhereOp(column, operator, value)
	return q
}

func (q *Query) WhereString(fragment string, params ...any) *Query {
	q.builder.WhereString(fragment, params...)
	return q
}

func (q *Query) WhereGroup(fn func(*Condition)) *Query {
	q.builder.WhereGroup(fn)
	return q
}

func (q *Query) OrWhere(column string, value any) *Query {
	q.builder.OrWhere(column, value)
	return q
}

func (q *Query) OrWhereOp(column, operator string, value any) *Query {
	q.builder.OrWhereOp(column, operator, value)
	return q
}

func (q *Query) OrWhereString(fragment string, params ...any) *Query {
	q.builder.OrWhereString(fragment, params...)
	return q
}

func (q *Query) OrWhereGroup(fn func(*Condition)) *Query {
	q.builder.OrWhereGroup(fn)
	return q
}

func (q *Query) GroupBy(fields ...string) *Query {
	q.builder.GroupBy(fields...)
	return q
}

func (q *Query) Having(column string, value any) *Query {
	q.builder.Having(column, value)
	return q
}

func (q *Query) HavingOp(column, operator string, value any) *Query {
	q.builder.HavingOp(column, operator, value)
	return q
}

func (q *Query) HavingString(fragment string, params ...any) *Query {
	q.builder.HavingString(fragment, params...)
	return q
}

func (q *Query) OrHaving(column string, value any) *Query {
	q.builder.OrHaving(column, value)
	return q
}

func (q *Query) OrHavingOp(column, operator string, value any) *Query {
	q.builder.OrHavingOp(column, operator, value)
	return q
}

func (q *Query) OrderBy(column string, direction OrderDirection) *Query {
	q.builder.OrderBy(column, direction)
	return q
}

func (q *Query) OrderByAsc(column string) *Query {
	q.builder.OrderByAsc(column)
	return q
}

func (q *Query) OrderByDesc(column string) *Query {
	q.builder.OrderByDesc(column)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.builder.Limit(n)
	return q
}

func (q *Query) Offset(n int) *Query {
	q.builder.Offset(n)
	return q
}

// --- RENDER / EXECUTE ---

// Statement, çalıştırılacak ifadeyi üretir. Kolon seçilmemişse eşlenmiş
// kolonlar, Map de yoksa "*" seçilir.
func (q *Query) Statement() (*Statement, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.builder.build(q.defaultColumns())
}

// defaultColumns, topolojideki tüm Map kolonlarını alias'larıyla niteleyip
// ilk görülme sırasıyla ve tekrarsız döndürür.
func (q *Query) defaultColumns() string {
	root := q.topology.Root()
	if root == nil {
		return "*"
	}
	sel := NewSelectClause()
	add := func(alias string, m *mapper.Map) {
		for _, c := range m.Columns() {
			if alias == "" || strings.Contains(c.Name, ".") {
				sel.Add(c.Name)
				continue
			}
			sel.Add(alias + "." + c.Name)
		}
	}
	add(q.topology.RootAlias(), root)
	for _, n := range q.topology.Nodes() {
		add(n.Alias, n.Map)
	}
	if sel.IsEmpty() {
		return "*"
	}
	return strings.Join(sel.Fields(), ", ")
}

// SQL, çalıştırılacak SQL metnini döndürür. Hata varsa "" döner.
func (q *Query) SQL() string {
	stmt, err := q.Statement()
	if err != nil {
		return ""
	}
	return stmt.SQL()
}

// Parameters, çalıştırılacak parametreleri döndürür. Hata varsa nil döner.
func (q *Query) Parameters() []any {
	stmt, err := q.Statement()
	if err != nil {
		return nil
	}
	return stmt.Parameters()
}

// Rows, sorguyu çalıştırır ve hidrasyon yapmadan düz satırları döndürür.
func (q *Query) Rows(ctx context.Context) ([]mapper.Row, error) {
	stmt, err := q.Statement()
	if err != nil {
		return nil, err
	}
	if q.queries.exec == nil {
		return nil, errors.New("database: no executor configured")
	}

	start := time.Now()
	rows, err := q.queries.exec.Execute(ctx, stmt.SQL(), stmt.Parameters())
	elapsed := time.Since(start)
	if l := q.queries.logger; l != nil {
		if err != nil {
			l.Printf("❌ Sorgu hatası (%s): %v\n%s", elapsed, err, stmt.SQL())
		} else {
			l.Printf("🔎 %d satır (%s)\n%s %v", len(rows), elapsed, stmt.SQL(), stmt.Parameters())
		}
	}
	if d := q.queries.dispatcher; d != nil {
		// listener hataları dispatcher tarafından loglanır
		_ = d.Dispatch(events.NewQueryEvent(stmt.SQL(), stmt.Parameters(), len(rows), elapsed, err))
	}
	return rows, err
}

// FindAll, tüm kök varlıkları ilk görülme sırasıyla döndürür.
// Satır yoksa boş dilim döner.
func (q *Query) FindAll(ctx context.Context) ([]mapper.Entity, error) {
	rows, err := q.Rows(ctx)
	if err != nil {
		return nil, err
	}
	roots, err := mapper.Hydrate(q.topology, rows)
	if err != nil {
		return nil, err
	}
	if roots == nil {
		roots = []mapper.Entity{}
	}
	return roots, nil
}

// Find, ilk kök varlığı döndürür. Satır yoksa ErrNotFound döner.
func (q *Query) Find(ctx context.Context) (mapper.Entity, error) {
	rows, err := q.Rows(ctx)
	if err != nil {
		return nil, err
	}
	root, err := mapper.HydrateOne(q.topology, rows)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrNotFound
	}
	return root, nil
}

// FindAs, Find sonucunu T tipine dönüştürür.
//
// Örnek:
//
//	c, err := database.FindAs[*Customer](ctx, query)
func FindAs[T mapper.Entity](ctx context.Context, q *Query) (T, error) {
	var zero T
	e, err := q.Find(ctx)
	if err != nil {
		return zero, err
	}
	t, ok := e.(T)
	if !ok {
		return zero, fmt.Errorf("%w: result is %T, not %T", ErrInvalidQuery, e, zero)
	}
	return t, nil
}

// FindAllAs, FindAll sonucunu []T olarak döndürür.
func FindAllAs[T mapper.Entity](ctx context.Context, q *Query) ([]T, error) {
	all, err := q.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, e := range all {
		t, ok := e.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("%w: result is %T, not %T", ErrInvalidQuery, e, zero)
		}
		out = append(out, t)
	}
	return out, nil
}
