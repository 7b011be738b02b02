package dbal

import (
	"strings"

	"github.com/biyonik/go-dbal/internal/validation"
	"github.com/biyonik/go-dbal/platform"
)

//
// =====================================================================================
// 📚 GO-DBAL – EXPRESSION BUILDER BİRİMİ
// -------------------------------------------------------------------------------------
// Bu dosya, WHERE ve HAVING cümlelerinde kullanılan koşul ifadelerini programatik
// olarak kurmayı sağlayan Expression Builder altyapısını içerir. İfadeler string
// birleştirme yerine küçük, değişmez (immutable) bir ağaç olarak temsil edilir:
//
//   expr.AndX(
//       expr.OrX(expr.Eq("a", "?"), expr.Eq("b", "?")),
//       expr.Eq("c", "?"),
//   )
//   → (a = ? OR b = ?) AND c = ?
//
// Ağaç render edilirken parantezler operatör önceliğine göre otomatik eklenir:
//   ✔ Tek çocuklu kompozitler parantezsiz yazılır
//   ✔ Farklı bağlaç altına giren çok çocuklu kompozitler parantezlenir
//   ✔ Aynı bağlaçla iç içe kompozitler düzleştirilir (A AND (B AND C) → A AND B AND C)
//   ✔ Ham SQL parçaları yalnızca zıt öncelikli çıplak bağlaç içeriyorsa parantezlenir
//
// Boş kompozitler nötr eleman olarak render edilir: AndX() → "1 = 1" (her zaman
// doğru), OrX() → "1 = 0" (her zaman yanlış). Bu sabitler üç motorda da geçerlidir.
//
// YAZAR BİLGİSİ
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// Kompozit bağlaç türleri.
const (
	TypeAnd = "AND"
	TypeOr  = "OR"
)

// Karşılaştırma operatörleri. ExpressionBuilder kısayolları bunları kullanır.
const (
	OpEq      = "="
	OpNeq     = "<>"
	OpLt      = "<"
	OpLte     = "<="
	OpGt      = ">"
	OpGte     = ">="
	OpLike    = "LIKE"
	OpNotLike = "NOT LIKE"
)

// Expr, bir koşul ağacı düğümüdür. render, düğümü içine yazılacağı bağlaç
// bağlamına göre SQL metnine çevirir; parent boş string ise düğüm en üsttedir.
type Expr interface {
	render(p platform.Platform, parent string) (string, error)
}

// ----------------------------------------------------------------------------
// Node Types
// ----------------------------------------------------------------------------

// comparisonExpr, "sol op sağ" biçimindeki ikili karşılaştırmadır.
// Sol ve sağ taraflar ham SQL parçalarıdır (kolon adı, yer tutucu, literal).
type comparisonExpr struct {
	left     string
	operator string
	right    string
	err      error
}

func (e comparisonExpr) render(_ platform.Platform, _ string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.left + " " + e.operator + " " + e.right, nil
}

// compositeExpr, AND veya OR ile bağlanmış alt ifadeler topluluğudur.
type compositeExpr struct {
	kind  string
	parts []Expr
}

func (e compositeExpr) render(p platform.Platform, parent string) (string, error) {
	parts := flattenComposite(e)

	if len(parts) == 0 {
		if e.kind == TypeOr {
			return "1 = 0", nil
		}
		return "1 = 1", nil
	}

	if len(parts) == 1 {
		return parts[0].render(p, parent)
	}

	rendered := make([]string, len(parts))
	for i, part := range parts {
		s, err := part.render(p, e.kind)
		if err != nil {
			return "", err
		}
		rendered[i] = s
	}

	sql := strings.Join(rendered, " "+e.kind+" ")
	if parent != "" && parent != e.kind {
		sql = "(" + sql + ")"
	}
	return sql, nil
}

// flattenComposite, aynı bağlaçla iç içe geçmiş kompozitleri tek seviyeye indirir.
func flattenComposite(e compositeExpr) []Expr {
	out := make([]Expr, 0, len(e.parts))
	for _, part := range e.parts {
		if child, ok := part.(compositeExpr); ok && child.kind == e.kind {
			out = append(out, flattenComposite(child)...)
			continue
		}
		out = append(out, part)
	}
	return out
}

// setExpr, IN / NOT IN üyelik testidir. Değerler ham SQL parçalarıdır.
type setExpr struct {
	subject string
	negated bool
	values  []string
}

func (e setExpr) render(_ platform.Platform, _ string) (string, error) {
	if len(e.values) == 0 {
		return "", ErrEmptyIn
	}
	op := " IN ("
	if e.negated {
		op = " NOT IN ("
	}
	return e.subject + op + strings.Join(e.values, ", ") + ")", nil
}

// nullExpr, IS NULL / IS NOT NULL testidir.
type nullExpr struct {
	subject string
	negated bool
}

func (e nullExpr) render(_ platform.Platform, _ string) (string, error) {
	if e.negated {
		return e.subject + " IS NOT NULL", nil
	}
	return e.subject + " IS NULL", nil
}

// literalExpr, platform kaçışlamasından geçirilerek gömülen sabit değerdir.
type literalExpr struct {
	value any
}

func (e literalExpr) render(p platform.Platform, _ string) (string, error) {
	return p.QuoteLiteral(e.value), nil
}

// rawExpr, olduğu gibi gömülen ham SQL parçasıdır. Kompozit içine yazılırken
// zıt öncelikli çıplak bağlaç içeriyorsa parantezlenir; aksi halde dokunulmaz.
type rawExpr struct {
	sql string
}

func (e rawExpr) render(_ platform.Platform, parent string) (string, error) {
	sql := strings.TrimSpace(e.sql)
	switch parent {
	case TypeAnd:
		if containsBareConnective(sql, TypeOr) {
			return "(" + sql + ")", nil
		}
	case TypeOr:
		if containsBareConnective(sql, TypeAnd) {
			return "(" + sql + ")", nil
		}
	}
	return sql, nil
}

// containsBareConnective, SQL parçasında tırnak ve parantez dışında kalan
// bölgelerde verilen bağlaç kelimesinin geçip geçmediğini tarar.
func containsBareConnective(sql, word string) bool {
	n := len(sql)
	w := len(word)
	depth := 0
	var quote byte

	for i := 0; i < n; i++ {
		c := sql[i]

		if quote != 0 {
			if c == quote {
				if i+1 < n && sql[i+1] == quote {
					i++ // ikilenmiş tırnak kaçışı
					continue
				}
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"', '`':
			quote = c
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && equalFoldAt(sql, i, word) {
				before := i == 0 || isWordBoundary(sql[i-1])
				after := i+w >= n || isWordBoundary(sql[i+w])
				if before && after {
					return true
				}
			}
		}
	}
	return false
}

func equalFoldAt(s string, i int, word string) bool {
	if i+len(word) > len(s) {
		return false
	}
	return strings.EqualFold(s[i:i+len(word)], word)
}

func isWordBoundary(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return false
	case c >= '0' && c <= '9', c == '_':
		return false
	}
	return true
}

// ----------------------------------------------------------------------------
// ExpressionBuilder
// ----------------------------------------------------------------------------

// ExpressionBuilder, koşul ağacı düğümleri için kurucu metotlar sunar.
// Durumsuzdur; bir bağlantı üzerindeki tüm builder'lar aynı örneği paylaşır.
type ExpressionBuilder struct {
	platform platform.Platform
}

// NewExpressionBuilder, verilen platforma bağlı bir ExpressionBuilder oluşturur.
func NewExpressionBuilder(p platform.Platform) *ExpressionBuilder {
	return &ExpressionBuilder{platform: p}
}

// AndX, parçaları AND ile bağlar. Parçasız çağrı "1 = 1" olarak render edilir.
func (x *ExpressionBuilder) AndX(parts ...Expr) Expr {
	return compositeExpr{kind: TypeAnd, parts: parts}
}

// OrX, parçaları OR ile bağlar. Parçasız çağrı "1 = 0" olarak render edilir.
func (x *ExpressionBuilder) OrX(parts ...Expr) Expr {
	return compositeExpr{kind: TypeOr, parts: parts}
}

// Comparison, serbest operatörlü karşılaştırma üretir. Operatör beyaz
// listeden geçer; geçersiz operatör render sırasında hataya dönüşür.
func (x *ExpressionBuilder) Comparison(left, operator, right string) Expr {
	normalized, err := validation.NormalizeOperator(operator)
	if err != nil {
		return comparisonExpr{err: err}
	}
	return comparisonExpr{left: left, operator: normalized, right: right}
}

// Eq, eşitlik karşılaştırması üretir: "a = b".
func (x *ExpressionBuilder) Eq(left, right string) Expr {
	return comparisonExpr{left: left, operator: OpEq, right: right}
}

// NEq, eşitsizlik karşılaştırması üretir: "a <> b".
func (x *ExpressionBuilder) NEq(left, right string) Expr {
	return comparisonExpr{left: left, operator: OpNeq, right: right}
}

// Lt, küçüktür karşılaştırması üretir.
func (x *ExpressionBuilder) Lt(left, right string) Expr {
	return comparisonExpr{left: left, operator: OpLt, right: right}
}

// Lte, küçük eşittir karşılaştırması üretir.
func (x *ExpressionBuilder) Lte(left, right string) Expr {
	return comparisonExpr{left: left, operator: OpLte, right: right}
}

// Gt, büyüktür karşılaştırması üretir.
func (x *ExpressionBuilder) Gt(left, right string) Expr {
	return comparisonExpr{left: left, operator: OpGt, right: right}
}

// Gte, büyük eşittir karşılaştırması üretir.
func (x *ExpressionBuilder) Gte(left, right string) Expr {
	return comparisonExpr{left: left, operator: OpGte, right: right}
}

// Like, desen eşleştirme karşılaştırması üretir.
func (x *ExpressionBuilder) Like(left, right string) Expr {
	return comparisonExpr{left: left, operator: OpLike, right: right}
}

// NotLike, negatif desen eşleştirme karşılaştırması üretir.
func (x *ExpressionBuilder) NotLike(left, right string) Expr {
	return comparisonExpr{left: left, operator: OpNotLike, right: right}
}

// IsNull, NULL testi üretir: "a IS NULL".
func (x *ExpressionBuilder) IsNull(subject string) Expr {
	return nullExpr{subject: subject}
}

// IsNotNull, negatif NULL testi üretir: "a IS NOT NULL".
func (x *ExpressionBuilder) IsNotNull(subject string) Expr {
	return nullExpr{subject: subject, negated: true}
}

// In, üyelik testi üretir: "a IN (v1, v2)". Değerler ham SQL parçalarıdır;
// bağlı parametre istenirse yer tutucular geçilir. Boş liste render hatasıdır.
func (x *ExpressionBuilder) In(subject string, values ...string) Expr {
	return setExpr{subject: subject, values: values}
}

// NotIn, negatif üyelik testi üretir: "a NOT IN (v1, v2)".
func (x *ExpressionBuilder) NotIn(subject string, values ...string) Expr {
	return setExpr{subject: subject, negated: true, values: values}
}

// Literal, Go değerini platform kaçışlamasından geçirip SQL literal metni
// olarak döndürür. Parametre bağlamanın kullanılamadığı yerler içindir.
func (x *ExpressionBuilder) Literal(value any) string {
	return x.platform.QuoteLiteral(value)
}

// LiteralExpr, Literal'in ağaç düğümü halidir; kompozitlere parça olarak girer.
func (x *ExpressionBuilder) LiteralExpr(value any) Expr {
	return literalExpr{value: value}
}

// Raw, ham SQL parçasını ağaç düğümüne çevirir. İçerik doğrulanmaz;
// kullanıcı girdisi asla doğrudan buraya verilmemelidir.
func (x *ExpressionBuilder) Raw(sql string) Expr {
	return rawExpr{sql: sql}
}

// RenderExpr, bir ifade ağacını üst seviye bağlamda SQL metnine çevirir.
// Aynı ağaç her çağrıda aynı metni üretir.
func RenderExpr(p platform.Platform, e Expr) (string, error) {
	if e == nil {
		return "", nil
	}
	return e.render(p, "")
}
