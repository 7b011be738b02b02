package dbal

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/biyonik/go-dbal/internal/validation"
	"github.com/biyonik/go-dbal/platform"
)

//
// =====================================================================================
// 📚 GO-DBAL – SQL BUILDER BİRİMİ
// -------------------------------------------------------------------------------------
// Bu dosya, SELECT / INSERT / UPDATE / DELETE cümlelerini akıcı (fluent) bir API
// ile kurmayı sağlayan Builder'ı içerir. Her Builder tek bir cümlenin ömrünü taşır:
//
//   sql, err := conn.Builder().
//       Select("u.id", "u.name").
//       From("users", "u").
//       LeftJoin("u", "phones", "p", "p.user_id = u.id").
//       Where(expr.Eq("u.status", "?")).
//       OrderBy("u.name", "ASC").
//       SQL()
//
// Temel kurallar:
//   ✔ Cümle türü ilk kurucu çağrıyla sabitlenir; türle çelişen çağrılar
//     ErrInvalidQueryState üretir ve Err()/SQL() üzerinden raporlanır
//   ✔ Ardışık Where çağrıları örtük AND ile birleşir (Having için de geçerli)
//   ✔ Join'ler bilinen bir alias'a bağlanmak zorundadır; bilinmeyen veya
//     mükerrer alias render sırasında hataya dönüşür
//   ✔ Üretilen SQL durum bayrağıyla önbelleğe alınır; builder değişmedikçe
//     SQL() aynı metni yeniden derlemeden döndürür
//
// Zincir içinde oluşan ilk hata builder üzerinde biriktirilir; SQL() ve
// Execute() render etmeden önce bu hatayı döndürür.
//
// YAZAR BİLGİSİ
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// ----------------------------------------------------------------------------
// Statement Kind & State
// ----------------------------------------------------------------------------

// statementKind, builder'ın kurduğu cümle türüdür. İlk kurucu çağrıyla
// sabitlenir ve Reset dışında değişmez.
type statementKind int

const (
	kindNone statementKind = iota
	kindSelect
	kindInsert
	kindUpdate
	kindDelete
)

// String, türün okunur adını döndürür.
func (k statementKind) String() string {
	switch k {
	case kindSelect:
		return "select"
	case kindInsert:
		return "insert"
	case kindUpdate:
		return "update"
	case kindDelete:
		return "delete"
	default:
		return "none"
	}
}

// builderState, SQL önbelleğinin geçerliliğini izler.
type builderState int

const (
	stateDirty builderState = iota
	stateClean
)

// ----------------------------------------------------------------------------
// Clause Types
// ----------------------------------------------------------------------------

// fromClause, FROM listesindeki tek bir tablo referansıdır.
type fromClause struct {
	table string
	alias string
}

// aliasKey, clause'un join bağlama anahtarını döndürür: alias varsa alias,
// yoksa tablo adı.
func (f fromClause) aliasKey() string {
	if f.alias != "" {
		return f.alias
	}
	return f.table
}

// joinClause, bir alias'a asılmış JOIN ifadesidir.
type joinClause struct {
	fromAlias string
	kind      string
	table     string
	alias     string
	condition string
}

// setClause, SET/VALUES listelerindeki tek bir kolon atamasıdır.
// value ham SQL parçasıdır (yer tutucu veya literal).
type setClause struct {
	column string
	value  string
}

// ----------------------------------------------------------------------------
// Builder
// ----------------------------------------------------------------------------

// Builder, tek bir SQL cümlesini kuran akıcı oluşturucudur.
// Goroutine-güvenli değildir; her cümle için yeni bir Builder alınır.
type Builder struct {
	conn     *Connection
	platform platform.Platform
	expr     *ExpressionBuilder

	kind     statementKind
	distinct bool
	selects  []string
	froms    []fromClause
	joins    []joinClause
	table    string
	alias    string
	sets     []setClause
	values   []setClause
	where    Expr
	groupBy  []string
	having   Expr
	orderBy  []string

	firstResult *int
	maxResults  *int

	params       *ParameterBag
	paramCounter int

	state     builderState
	cachedSQL string
	err       error
}

// NewBuilder, bağlantısız (yalnızca SQL üreten) bir Builder oluşturur.
// Execute edilebilen builder'lar Connection.Builder() üzerinden alınır.
func NewBuilder(p platform.Platform) *Builder {
	return &Builder{
		platform: p,
		expr:     NewExpressionBuilder(p),
		params:   NewParameterBag(),
		state:    stateDirty,
	}
}

// Expr, builder'ın ifade kurucusunu döndürür.
func (b *Builder) Expr() *ExpressionBuilder {
	return b.expr
}

// Err, biriktirilmiş ilk builder hatasını döndürür.
func (b *Builder) Err() error {
	return b.err
}

// Params, builder'ın parametre torbasını döndürür.
func (b *Builder) Params() *ParameterBag {
	return b.params
}

// Kind, cümle türünün okunur adını döndürür.
func (b *Builder) Kind() string {
	return b.kind.String()
}

// fail, ilk hatayı kaydeder; sonraki hatalar yutulur. Dahili doğrulama
// hataları paket sentinellerine bağlanarak saklanır.
func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = mapValidationError(err)
	}
	return b
}

// dirty, SQL önbelleğini geçersiz kılar.
func (b *Builder) dirty() {
	b.state = stateDirty
}

// setKind, cümle türünü sabitler. Türle çelişen çağrı StateError üretir.
func (b *Builder) setKind(kind statementKind, method string) bool {
	if b.err != nil {
		return false
	}
	if b.kind != kindNone && b.kind != kind {
		b.fail(&StateError{
			Method: method,
			Kind:   b.kind.String(),
			Reason: "statement kind is fixed by the first builder call",
		})
		return false
	}
	b.kind = kind
	b.dirty()
	return true
}

// requireKind, clause metodunun yalnızca belirli türlerde çağrılmasını sağlar.
func (b *Builder) requireKind(method string, kinds ...statementKind) bool {
	if b.err != nil {
		return false
	}
	if b.kind == kindNone {
		b.fail(&StateError{
			Method: method,
			Kind:   b.kind.String(),
			Reason: "statement kind must be chosen first",
		})
		return false
	}
	for _, k := range kinds {
		if b.kind == k {
			return true
		}
	}
	b.fail(&StateError{
		Method: method,
		Kind:   b.kind.String(),
		Reason: "clause does not belong to this statement kind",
	})
	return false
}

// ----------------------------------------------------------------------------
// Kind Selectors
// ----------------------------------------------------------------------------

// Select, SELECT cümlesi başlatır ve seçim listesini verilenlerle değiştirir.
// Kolonlar ham SQL parçalarıdır; "COUNT(*)" gibi ifadeler de geçilebilir.
func (b *Builder) Select(columns ...string) *Builder {
	if !b.setKind(kindSelect, "Select") {
		return b
	}
	b.selects = append([]string(nil), columns...)
	return b
}

// AddSelect, seçim listesine kolon ekler.
func (b *Builder) AddSelect(columns ...string) *Builder {
	if !b.setKind(kindSelect, "AddSelect") {
		return b
	}
	b.selects = append(b.selects, columns...)
	return b
}

// Distinct, SELECT DISTINCT üretir.
func (b *Builder) Distinct() *Builder {
	if !b.requireKind("Distinct", kindSelect) {
		return b
	}
	b.distinct = true
	b.dirty()
	return b
}

// Insert, INSERT cümlesi başlatır.
func (b *Builder) Insert(table string) *Builder {
	if !b.setKind(kindInsert, "Insert") {
		return b
	}
	if err := validation.ValidateIdentifier(table); err != nil {
		return b.fail(err)
	}
	b.table = table
	return b
}

// Update, UPDATE cümlesi başlatır. Alias boş geçilebilir.
func (b *Builder) Update(table, alias string) *Builder {
	if !b.setKind(kindUpdate, "Update") {
		return b
	}
	if err := validation.ValidateIdentifier(table); err != nil {
		return b.fail(err)
	}
	if alias != "" {
		if err := validation.ValidateAlias(alias); err != nil {
			return b.fail(err)
		}
	}
	b.table = table
	b.alias = alias
	return b
}

// Delete, DELETE cümlesi başlatır. Alias boş geçilebilir.
func (b *Builder) Delete(table, alias string) *Builder {
	if !b.setKind(kindDelete, "Delete") {
		return b
	}
	if err := validation.ValidateIdentifier(table); err != nil {
		return b.fail(err)
	}
	if alias != "" {
		if err := validation.ValidateAlias(alias); err != nil {
			return b.fail(err)
		}
	}
	b.table = table
	b.alias = alias
	return b
}

// ----------------------------------------------------------------------------
// FROM & JOIN
// ----------------------------------------------------------------------------

// From, SELECT cümlesine tablo ekler. Alias boş geçilebilir; alias verilmezse
// join'ler tablo adına bağlanır.
func (b *Builder) From(table, alias string) *Builder {
	if !b.requireKind("From", kindSelect) {
		return b
	}
	if err := validation.ValidateIdentifier(table); err != nil {
		return b.fail(err)
	}
	if alias != "" {
		if err := validation.ValidateAlias(alias); err != nil {
			return b.fail(err)
		}
	}
	b.froms = append(b.froms, fromClause{table: table, alias: alias})
	b.dirty()
	return b
}

// InnerJoin, fromAlias'a INNER JOIN asar. condition ham SQL parçasıdır.
func (b *Builder) InnerJoin(fromAlias, table, alias, condition string) *Builder {
	return b.join("INNER", fromAlias, table, alias, condition)
}

// LeftJoin, fromAlias'a LEFT JOIN asar.
func (b *Builder) LeftJoin(fromAlias, table, alias, condition string) *Builder {
	return b.join("LEFT", fromAlias, table, alias, condition)
}

// RightJoin, fromAlias'a RIGHT JOIN asar.
func (b *Builder) RightJoin(fromAlias, table, alias, condition string) *Builder {
	return b.join("RIGHT", fromAlias, table, alias, condition)
}

func (b *Builder) join(kind, fromAlias, table, alias, condition string) *Builder {
	if !b.requireKind(kind+"Join", kindSelect) {
		return b
	}
	if err := validation.ValidateAlias(fromAlias); err != nil {
		return b.fail(err)
	}
	if err := validation.ValidateIdentifier(table); err != nil {
		return b.fail(err)
	}
	if err := validation.ValidateAlias(alias); err != nil {
		return b.fail(err)
	}
	b.joins = append(b.joins, joinClause{
		fromAlias: fromAlias,
		kind:      kind,
		table:     table,
		alias:     alias,
		condition: condition,
	})
	b.dirty()
	return b
}

// ----------------------------------------------------------------------------
// WHERE / HAVING
// ----------------------------------------------------------------------------

// toExpr, string veya Expr kabul eden predicate parametrelerini düğüme çevirir.
func (b *Builder) toExpr(method string, predicate any) (Expr, bool) {
	switch p := predicate.(type) {
	case Expr:
		return p, true
	case string:
		return rawExpr{sql: p}, true
	default:
		b.fail(&StateError{
			Method: method,
			Kind:   b.kind.String(),
			Reason: "predicate must be a string or an Expr",
		})
		return nil, false
	}
}

// combine, mevcut koşulu yeni parçayla verilen bağlaç altında birleştirir.
func combine(existing Expr, kind string, part Expr) Expr {
	if existing == nil {
		return part
	}
	return compositeExpr{kind: kind, parts: []Expr{existing, part}}
}

// Where, koşul ekler. Ardışık çağrılar örtük AND ile birleşir.
func (b *Builder) Where(predicate any) *Builder {
	return b.addWhere(TypeAnd, predicate)
}

// AndWhere, mevcut koşula AND ile yeni parça bağlar.
func (b *Builder) AndWhere(predicate any) *Builder {
	return b.addWhere(TypeAnd, predicate)
}

// OrWhere, mevcut koşula OR ile yeni parça bağlar.
func (b *Builder) OrWhere(predicate any) *Builder {
	return b.addWhere(TypeOr, predicate)
}

func (b *Builder) addWhere(kind string, predicate any) *Builder {
	if !b.requireKind("Where", kindSelect, kindUpdate, kindDelete) {
		return b
	}
	part, ok := b.toExpr("Where", predicate)
	if !ok {
		return b
	}
	b.where = combine(b.where, kind, part)
	b.dirty()
	return b
}

// Having, HAVING koşulu ekler. Ardışık çağrılar örtük AND ile birleşir.
func (b *Builder) Having(predicate any) *Builder {
	return b.addHaving(TypeAnd, predicate)
}

// AndHaving, mevcut HAVING koşuluna AND ile yeni parça bağlar.
func (b *Builder) AndHaving(predicate any) *Builder {
	return b.addHaving(TypeAnd, predicate)
}

// OrHaving, mevcut HAVING koşuluna OR ile yeni parça bağlar.
func (b *Builder) OrHaving(predicate any) *Builder {
	return b.addHaving(TypeOr, predicate)
}

func (b *Builder) addHaving(kind string, predicate any) *Builder {
	if !b.requireKind("Having", kindSelect) {
		return b
	}
	part, ok := b.toExpr("Having", predicate)
	if !ok {
		return b
	}
	b.having = combine(b.having, kind, part)
	b.dirty()
	return b
}

// ----------------------------------------------------------------------------
// GROUP BY / ORDER BY / LIMIT
// ----------------------------------------------------------------------------

// GroupBy, gruplama listesini verilenlerle değiştirir.
func (b *Builder) GroupBy(groups ...string) *Builder {
	if !b.requireKind("GroupBy", kindSelect) {
		return b
	}
	b.groupBy = append([]string(nil), groups...)
	b.dirty()
	return b
}

// AddGroupBy, gruplama listesine ekler.
func (b *Builder) AddGroupBy(groups ...string) *Builder {
	if !b.requireKind("AddGroupBy", kindSelect) {
		return b
	}
	b.groupBy = append(b.groupBy, groups...)
	b.dirty()
	return b
}

// OrderBy, sıralamayı verilenle değiştirir. direction "ASC" veya "DESC" olmalıdır;
// boş geçilirse ASC varsayılır.
func (b *Builder) OrderBy(sort, direction string) *Builder {
	if !b.requireKind("OrderBy", kindSelect) {
		return b
	}
	clause, ok := b.orderClause(sort, direction)
	if !ok {
		return b
	}
	b.orderBy = []string{clause}
	b.dirty()
	return b
}

// AddOrderBy, sıralama listesine ekler.
func (b *Builder) AddOrderBy(sort, direction string) *Builder {
	if !b.requireKind("AddOrderBy", kindSelect) {
		return b
	}
	clause, ok := b.orderClause(sort, direction)
	if !ok {
		return b
	}
	b.orderBy = append(b.orderBy, clause)
	b.dirty()
	return b
}

func (b *Builder) orderClause(sort, direction string) (string, bool) {
	direction = strings.ToUpper(strings.TrimSpace(direction))
	if direction == "" {
		direction = "ASC"
	}
	if direction != "ASC" && direction != "DESC" {
		b.fail(NewValidationError(direction, "order direction", "must be ASC or DESC"))
		return "", false
	}
	return sort + " " + direction, true
}

// SetFirstResult, OFFSET değerini ayarlar.
func (b *Builder) SetFirstResult(offset int) *Builder {
	if !b.requireKind("SetFirstResult", kindSelect) {
		return b
	}
	b.firstResult = &offset
	b.dirty()
	return b
}

// SetMaxResults, LIMIT değerini ayarlar.
func (b *Builder) SetMaxResults(limit int) *Builder {
	if !b.requireKind("SetMaxResults", kindSelect) {
		return b
	}
	b.maxResults = &limit
	b.dirty()
	return b
}

// FirstResult, ayarlanmış OFFSET değerini döndürür; ayarlanmamışsa nil.
func (b *Builder) FirstResult() *int {
	return b.firstResult
}

// MaxResults, ayarlanmış LIMIT değerini döndürür; ayarlanmamışsa nil.
func (b *Builder) MaxResults() *int {
	return b.maxResults
}

// Paginate, sayfa numarasından LIMIT/OFFSET ayarlar. Sayfalar 1'den başlar.
func (b *Builder) Paginate(page, perPage int) *Builder {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	return b.SetFirstResult((page - 1) * perPage).SetMaxResults(perPage)
}

// ----------------------------------------------------------------------------
// SET / VALUES
// ----------------------------------------------------------------------------

// Set, UPDATE cümlesine atama ekler. value ham SQL parçasıdır ("?" gibi).
func (b *Builder) Set(column, value string) *Builder {
	if !b.requireKind("Set", kindUpdate) {
		return b
	}
	if err := validation.ValidateIdentifier(column); err != nil {
		return b.fail(err)
	}
	b.sets = append(b.sets, setClause{column: column, value: value})
	b.dirty()
	return b
}

// SetValue, INSERT cümlesine kolon değeri ekler. value ham SQL parçasıdır.
func (b *Builder) SetValue(column, value string) *Builder {
	if !b.requireKind("SetValue", kindInsert) {
		return b
	}
	if err := validation.ValidateIdentifier(column); err != nil {
		return b.fail(err)
	}
	b.values = append(b.values, setClause{column: column, value: value})
	b.dirty()
	return b
}

// Values, INSERT kolon değerlerini topluca ayarlar. Deterministik çıktı için
// kolonlar alfabetik sıraya dizilir.
func (b *Builder) Values(values map[string]string) *Builder {
	if !b.requireKind("Values", kindInsert) {
		return b
	}
	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	b.values = b.values[:0]
	for _, column := range columns {
		if err := validation.ValidateIdentifier(column); err != nil {
			return b.fail(err)
		}
		b.values = append(b.values, setClause{column: column, value: values[column]})
	}
	b.dirty()
	return b
}

// ----------------------------------------------------------------------------
// Parameters
// ----------------------------------------------------------------------------

// SetParameter, torbaya değer bağlar. int anahtarlar konumsal, string
// anahtarlar isimli sayılır.
func (b *Builder) SetParameter(key, value any) *Builder {
	if err := b.params.Bind(key, value); err != nil {
		return b.fail(err)
	}
	return b
}

// SetParameters, konumsal değerleri sırayla bağlar.
func (b *Builder) SetParameters(values ...any) *Builder {
	for i, v := range values {
		b.params.BindPositional(i, v)
	}
	return b
}

// CreatePositionalParameter, değeri bir sonraki konumsal indekse bağlar ve
// cümleye gömülecek "?" yer tutucusunu döndürür.
func (b *Builder) CreatePositionalParameter(value any) string {
	index := len(b.params.positional)
	b.params.BindPositional(index, value)
	return "?"
}

// CreateNamedParameter, değeri üretilmiş bir isme bağlar ve cümleye gömülecek
// ":dbValueN" yer tutucusunu döndürür. Üretilen isimler builder başına tekildir.
func (b *Builder) CreateNamedParameter(value any) string {
	b.paramCounter++
	name := "dbValue" + strconv.Itoa(b.paramCounter)
	b.params.BindNamed(name, value)
	return ":" + name
}

// ----------------------------------------------------------------------------
// Conditional Building
// ----------------------------------------------------------------------------

// When, koşul doğruysa fn'i builder üzerinde çalıştırır. Opsiyonel filtreleri
// zincir bozmadan eklemek içindir.
func (b *Builder) When(condition bool, fn func(*Builder) *Builder) *Builder {
	if condition && fn != nil {
		return fn(b)
	}
	return b
}

// ----------------------------------------------------------------------------
// Rendering
// ----------------------------------------------------------------------------

// SQL, cümleyi derleyip döndürür. Builder değişmediği sürece sonuç önbellekten gelir.
func (b *Builder) SQL() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if b.state == stateClean {
		return b.cachedSQL, nil
	}

	var sql string
	var err error

	switch b.kind {
	case kindSelect:
		sql, err = b.renderSelect()
	case kindInsert:
		sql, err = b.renderInsert()
	case kindUpdate:
		sql, err = b.renderUpdate()
	case kindDelete:
		sql, err = b.renderDelete()
	default:
		err = &StateError{Method: "SQL", Kind: b.kind.String(), Reason: "no statement kind chosen"}
	}
	if err != nil {
		return "", err
	}

	b.cachedSQL = sql
	b.state = stateClean
	return sql, nil
}

// ResolvedSQL, cümleyi derler ve yer tutucuları bağlı parametrelerle çözer.
// Dönen SQL, hedef motorun yer tutucu stilindedir.
func (b *Builder) ResolvedSQL() (string, []any, error) {
	sql, err := b.SQL()
	if err != nil {
		return "", nil, err
	}
	return b.params.Resolve(sql, b.platform)
}

func (b *Builder) renderSelect() (string, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if b.distinct {
		sb.WriteString("DISTINCT ")
	}
	if len(b.selects) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(b.selects, ", "))
	}

	if len(b.froms) > 0 {
		froms, err := b.renderFroms()
		if err != nil {
			return "", err
		}
		sb.WriteString(" FROM ")
		sb.WriteString(froms)
	}

	if b.where != nil {
		where, err := RenderExpr(b.platform, b.where)
		if err != nil {
			return "", err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	if len(b.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(b.groupBy, ", "))
	}

	if b.having != nil {
		having, err := RenderExpr(b.platform, b.having)
		if err != nil {
			return "", err
		}
		sb.WriteString(" HAVING ")
		sb.WriteString(having)
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	if b.maxResults != nil || b.firstResult != nil {
		return b.platform.ModifyLimitSQL(sb.String(), b.maxResults, b.firstResult)
	}
	return sb.String(), nil
}

// renderFroms, FROM listesini join'leriyle birlikte derler. Join'ler bağlı
// oldukları alias'ın tablosunun hemen ardına yazılır; bir join alias'ına asılı
// join'ler zincirleme takip edilir.
func (b *Builder) renderFroms() (string, error) {
	known := make(map[string]bool, len(b.froms)+len(b.joins))
	used := make([]bool, len(b.joins))
	parts := make([]string, 0, len(b.froms))

	for _, f := range b.froms {
		key := f.aliasKey()
		if known[key] {
			return "", NewQueryError(ErrNonUniqueAlias, "", nil, "alias '"+key+"' is declared more than once")
		}
		known[key] = true

		quoted, err := b.platform.QuoteIdentifier(f.table)
		if err != nil {
			return "", err
		}
		part := quoted
		if f.alias != "" {
			part += " " + f.alias
		}

		joins, err := b.renderJoins(key, known, used)
		if err != nil {
			return "", err
		}
		parts = append(parts, part+joins)
	}

	for i, u := range used {
		if !u {
			return "", NewQueryError(ErrUnknownAlias, "", nil,
				"join references unknown alias '"+b.joins[i].fromAlias+"'")
		}
	}

	return strings.Join(parts, ", "), nil
}

func (b *Builder) renderJoins(fromAlias string, known map[string]bool, used []bool) (string, error) {
	var sb strings.Builder

	for i := range b.joins {
		j := b.joins[i]
		if used[i] || j.fromAlias != fromAlias {
			continue
		}
		used[i] = true

		if known[j.alias] {
			return "", NewQueryError(ErrNonUniqueAlias, "", nil, "alias '"+j.alias+"' is declared more than once")
		}
		known[j.alias] = true

		quoted, err := b.platform.QuoteIdentifier(j.table)
		if err != nil {
			return "", err
		}

		sb.WriteString(" " + j.kind + " JOIN " + quoted + " " + j.alias)
		if j.condition != "" {
			sb.WriteString(" ON " + j.condition)
		}

		nested, err := b.renderJoins(j.alias, known, used)
		if err != nil {
			return "", err
		}
		sb.WriteString(nested)
	}

	return sb.String(), nil
}

func (b *Builder) renderInsert() (string, error) {
	if b.table == "" {
		return "", ErrNoTable
	}
	if len(b.values) == 0 {
		return "", ErrNoValues
	}

	quoted, err := b.platform.QuoteIdentifier(b.table)
	if err != nil {
		return "", err
	}

	columns := make([]string, len(b.values))
	values := make([]string, len(b.values))
	for i, v := range b.values {
		qc, err := b.platform.QuoteIdentifier(v.column)
		if err != nil {
			return "", err
		}
		columns[i] = qc
		values[i] = v.value
	}

	return "INSERT INTO " + quoted +
		" (" + strings.Join(columns, ", ") + ")" +
		" VALUES (" + strings.Join(values, ", ") + ")", nil
}

func (b *Builder) renderUpdate() (string, error) {
	if b.table == "" {
		return "", ErrNoTable
	}
	if len(b.sets) == 0 {
		return "", ErrNoValues
	}

	quoted, err := b.platform.QuoteIdentifier(b.table)
	if err != nil {
		return "", err
	}

	assignments := make([]string, len(b.sets))
	for i, s := range b.sets {
		qc, err := b.platform.QuoteIdentifier(s.column)
		if err != nil {
			return "", err
		}
		assignments[i] = qc + " = " + s.value
	}

	var sb strings.Builder
	sb.WriteString("UPDATE " + quoted)
	if b.alias != "" {
		sb.WriteString(" " + b.alias)
	}
	sb.WriteString(" SET " + strings.Join(assignments, ", "))

	if b.where != nil {
		where, err := RenderExpr(b.platform, b.where)
		if err != nil {
			return "", err
		}
		sb.WriteString(" WHERE " + where)
	}
	return sb.String(), nil
}

func (b *Builder) renderDelete() (string, error) {
	if b.table == "" {
		return "", ErrNoTable
	}

	quoted, err := b.platform.QuoteIdentifier(b.table)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM " + quoted)
	if b.alias != "" {
		sb.WriteString(" " + b.alias)
	}

	if b.where != nil {
		where, err := RenderExpr(b.platform, b.where)
		if err != nil {
			return "", err
		}
		sb.WriteString(" WHERE " + where)
	}
	return sb.String(), nil
}

// ----------------------------------------------------------------------------
// Execution
// ----------------------------------------------------------------------------

// Query, SELECT cümlesini çalıştırır ve sonuç kümesi üzerinde gezinilebilen
// bir Statement döndürür. Builder bir bağlantıya bağlı olmak zorundadır.
func (b *Builder) Query(ctx context.Context) (*Statement, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.conn == nil {
		return nil, ErrConnectionClosed
	}
	if b.kind != kindSelect {
		return nil, &StateError{Method: "Query", Kind: b.kind.String(), Reason: "only select statements produce result sets"}
	}

	sql, args, err := b.ResolvedSQL()
	if err != nil {
		return nil, err
	}
	return b.conn.queryArgs(ctx, sql, args)
}

// Execute, yazma cümlelerini çalıştırır. INSERT için son eklenen kaydın
// kimliğini, UPDATE/DELETE için etkilenen satır sayısını döndürür.
func (b *Builder) Execute(ctx context.Context) (int64, error) {
	if b.err != nil {
		return 0, b.err
	}
	if b.conn == nil {
		return 0, ErrConnectionClosed
	}

	switch b.kind {
	case kindInsert, kindUpdate, kindDelete:
	default:
		return 0, &StateError{Method: "Execute", Kind: b.kind.String(), Reason: "use Query for select statements"}
	}

	sql, args, err := b.ResolvedSQL()
	if err != nil {
		return 0, err
	}

	result, err := b.conn.execArgs(ctx, sql, args)
	if err != nil {
		return 0, err
	}
	if b.kind == kindInsert {
		return result.LastInsertId()
	}
	return result.RowsAffected()
}

// ----------------------------------------------------------------------------
// Lifecycle
// ----------------------------------------------------------------------------

// Clone, builder'ın bağımsız bir kopyasını döndürür. Temel sorguyu kurup
// varyasyonlarını türetmek içindir.
func (b *Builder) Clone() *Builder {
	clone := &Builder{
		conn:         b.conn,
		platform:     b.platform,
		expr:         b.expr,
		kind:         b.kind,
		distinct:     b.distinct,
		selects:      append([]string(nil), b.selects...),
		froms:        append([]fromClause(nil), b.froms...),
		joins:        append([]joinClause(nil), b.joins...),
		table:        b.table,
		alias:        b.alias,
		sets:         append([]setClause(nil), b.sets...),
		values:       append([]setClause(nil), b.values...),
		where:        b.where,
		groupBy:      append([]string(nil), b.groupBy...),
		having:       b.having,
		orderBy:      append([]string(nil), b.orderBy...),
		params:       b.params.Clone(),
		paramCounter: b.paramCounter,
		state:        stateDirty,
		err:          b.err,
	}
	if b.firstResult != nil {
		v := *b.firstResult
		clone.firstResult = &v
	}
	if b.maxResults != nil {
		v := *b.maxResults
		clone.maxResults = &v
	}
	return clone
}

// Reset, builder'ı sıfırlar; cümle türü dahil her şey temizlenir.
func (b *Builder) Reset() *Builder {
	*b = Builder{
		conn:     b.conn,
		platform: b.platform,
		expr:     b.expr,
		params:   NewParameterBag(),
		state:    stateDirty,
	}
	return b
}
