package dbal

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/biyonik/go-dbal/platform"
)

//
// =====================================================================================
// 📚 GO-DBAL – PARAMETER BAG BİRİMİ
// -------------------------------------------------------------------------------------
// Bu dosya, SQL cümlelerindeki yer tutucuların (? ve :isim) bağlı değerlerle
// çözümlenmesini sağlayan Parameter Bag altyapısını içerir. Çözümleme üç iş yapar:
//
//   1. SQL metni tırnak bilinçli bir tarayıcıyla taranır; string literal'ler,
//      yorumlar ve PostgreSQL tip dönüşümleri (::int) atlanır.
//   2. Her yer tutucu bağlı değeriyle eşleştirilir; stil karışımı ve eksik/fazla
//      bağlama hataları burada yakalanır.
//   3. Slice değerler yerinde N yer tutucuya genişletilir ve sonraki konumsal
//      indeksler kaydırılır; çıktı, hedef motorun yer tutucu stiliyle yazılır.
//
// Tarama regex yerine elle yazılmış bir byte tarayıcısıyla yapılır; tek geçişte
// hem tırnak durumu hem yorumlar takip edilir.
//
// YAZAR BİLGİSİ
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// ParameterBag, bir statement'a bağlanan değerleri konumsal (0 tabanlı indeks)
// ve isimli anahtarlar altında tutar. Sıfır değeri kullanıma hazırdır.
type ParameterBag struct {
	positional map[int]any
	named      map[string]any
}

// NewParameterBag, boş bir ParameterBag oluşturur.
func NewParameterBag() *ParameterBag {
	return &ParameterBag{
		positional: make(map[int]any),
		named:      make(map[string]any),
	}
}

// Bind, anahtar türüne göre konumsal veya isimli bağlama yapar.
// int anahtarlar konumsal, string anahtarlar isimli sayılır.
func (b *ParameterBag) Bind(key, value any) error {
	switch k := key.(type) {
	case int:
		b.BindPositional(k, value)
		return nil
	case string:
		b.BindNamed(k, value)
		return nil
	default:
		return &ParameterError{Reason: "parameter key must be int or string"}
	}
}

// BindPositional, 0 tabanlı konumsal indekse değer bağlar.
func (b *ParameterBag) BindPositional(index int, value any) {
	if b.positional == nil {
		b.positional = make(map[int]any)
	}
	b.positional[index] = value
}

// BindNamed, isme değer bağlar. İsim baştaki iki nokta olmadan verilir.
func (b *ParameterBag) BindNamed(name string, value any) {
	if b.named == nil {
		b.named = make(map[string]any)
	}
	b.named[strings.TrimPrefix(name, ":")] = value
}

// Positional, konumsal bağlamayı döndürür.
func (b *ParameterBag) Positional(index int) (any, bool) {
	v, ok := b.positional[index]
	return v, ok
}

// Named, isimli bağlamayı döndürür.
func (b *ParameterBag) Named(name string) (any, bool) {
	v, ok := b.named[strings.TrimPrefix(name, ":")]
	return v, ok
}

// Len, bağlı değer sayısını döndürür.
func (b *ParameterBag) Len() int {
	return len(b.positional) + len(b.named)
}

// Clear, tüm bağlamaları temizler.
func (b *ParameterBag) Clear() {
	b.positional = make(map[int]any)
	b.named = make(map[string]any)
}

// Clone, bağlamaların bağımsız bir kopyasını döndürür.
func (b *ParameterBag) Clone() *ParameterBag {
	clone := NewParameterBag()
	for k, v := range b.positional {
		clone.positional[k] = v
	}
	for k, v := range b.named {
		clone.named[k] = v
	}
	return clone
}

// ----------------------------------------------------------------------------
// Placeholder Scanning
// ----------------------------------------------------------------------------

// placeholderToken, SQL metninde bulunan tek bir yer tutucuyu temsil eder.
// name boşsa konumsal (?), doluysa isimli (:name) yer tutucudur.
type placeholderToken struct {
	start int
	end   int
	name  string
}

// scanPlaceholders, SQL metnini tek geçişte tarar ve yer tutucuları bulur.
// String literal'ler (', ", `), satır yorumları (--), blok yorumları (/* */)
// ve PostgreSQL tip dönüşümleri (::) atlanır.
func scanPlaceholders(sql string) []placeholderToken {
	var tokens []placeholderToken
	n := len(sql)

	for i := 0; i < n; i++ {
		c := sql[i]

		switch c {
		case '\'', '"', '`':
			// Tırnaklı bölge: kapanışa kadar atla, ikilenmiş tırnak kaçıştır.
			quote := c
			for i++; i < n; i++ {
				if sql[i] == '\\' && quote == '\'' {
					i++ // backslash kaçışı (MySQL)
					continue
				}
				if sql[i] == quote {
					if i+1 < n && sql[i+1] == quote {
						i++
						continue
					}
					break
				}
			}

		case '-':
			if i+1 < n && sql[i+1] == '-' {
				for i += 2; i < n && sql[i] != '\n'; i++ {
				}
			}

		case '/':
			if i+1 < n && sql[i+1] == '*' {
				for i += 2; i+1 < n; i++ {
					if sql[i] == '*' && sql[i+1] == '/' {
						i++
						break
					}
				}
			}

		case '?':
			tokens = append(tokens, placeholderToken{start: i, end: i + 1})

		case ':':
			if i+1 < n && sql[i+1] == ':' {
				i++ // tip dönüşümü, yer tutucu değil
				continue
			}
			j := i + 1
			for j < n && isIdentByte(sql[j]) {
				j++
			}
			if j > i+1 {
				tokens = append(tokens, placeholderToken{start: i, end: j, name: sql[i+1 : j]})
				i = j - 1
			}
		}
	}

	return tokens
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// ----------------------------------------------------------------------------
// Resolution
// ----------------------------------------------------------------------------

// Resolve, SQL metnindeki yer tutucuları bağlı değerlerle çözümler ve hedef
// motorun yer tutucu stiliyle yeniden yazılmış SQL ile sıralı argüman
// dilimini döndürür.
//
// Kurallar:
//   - Konumsal ve isimli stiller aynı cümlede karışamaz.
//   - Her yer tutucunun bir bağlaması olmak zorundadır; konumsal bağlamaların
//     tamamı kullanılmak zorundadır. Kullanılmayan isimli bağlamalara göz yumulur.
//   - Slice değerler N yer tutucuya genişler; boş slice hatadır.
func (b *ParameterBag) Resolve(sql string, p platform.Platform) (string, []any, error) {
	tokens := scanPlaceholders(sql)

	hasPositional, hasNamed := false, false
	for _, t := range tokens {
		if t.name == "" {
			hasPositional = true
		} else {
			hasNamed = true
		}
	}
	if hasPositional && hasNamed {
		return "", nil, ErrPlaceholderStyleConflict
	}

	var out strings.Builder
	out.Grow(len(sql))

	var args []any
	last := 0
	position := 0 // kaçıncı konumsal yer tutucuda olduğumuz (0 tabanlı)
	emitted := 0  // çıktıya yazılmış yer tutucu sayısı (1 tabanlı Placeholder için)

	for _, t := range tokens {
		out.WriteString(sql[last:t.start])
		last = t.end

		var value any
		var ok bool
		if t.name == "" {
			value, ok = b.positional[position]
			if !ok {
				return "", nil, &ParameterError{
					Err:         ErrParameterMismatch,
					Placeholder: "?" + strconv.Itoa(position),
					Reason:      "no value bound for positional parameter " + strconv.Itoa(position),
				}
			}
			position++
		} else {
			value, ok = b.named[t.name]
			if !ok {
				return "", nil, &ParameterError{
					Err:         ErrParameterMismatch,
					Placeholder: ":" + t.name,
					Reason:      "no value bound for named parameter '" + t.name + "'",
				}
			}
		}

		expanded, isList := expandListValue(value)
		if isList {
			if len(expanded) == 0 {
				return "", nil, &ParameterError{
					Err:    ErrEmptyIn,
					Reason: "cannot expand an empty list parameter",
				}
			}
			for i, elem := range expanded {
				if i > 0 {
					out.WriteString(", ")
				}
				emitted++
				out.WriteString(p.Placeholder(emitted))
				args = append(args, elem)
			}
			continue
		}

		emitted++
		out.WriteString(p.Placeholder(emitted))
		args = append(args, value)
	}
	out.WriteString(sql[last:])

	// Kullanılmayan konumsal bağlama, kaymış indeks demektir.
	for idx := range b.positional {
		if idx < 0 || idx >= position {
			return "", nil, &ParameterError{
				Err:         ErrParameterMismatch,
				Placeholder: "?" + strconv.Itoa(idx),
				Reason:      "positional parameter " + strconv.Itoa(idx) + " has no matching placeholder",
			}
		}
	}

	return out.String(), args, nil
}

// expandListValue, slice/array değerleri eleman dilimine açar.
// []byte blob sayılır ve genişletilmez.
func expandListValue(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	if _, isBlob := value.([]byte); isBlob {
		return nil, false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
