// Package platform, desteklenen veritabanı motorlarının (MySQL, PostgreSQL, SQLite)
// SQL lehçe farklarını tek bir arayüz arkasında toplar. Identifier tırnaklama,
// literal kaçışlama, parametre yer tutucu stili, LIMIT/OFFSET sözdizimi,
// savepoint komutları ve izolasyon seviyesi komutları motor bazında burada üretilir.
//
// Üst katmanlar (builder, transaction manager, schema manager) asla motor adına
// göre dallanmaz; ihtiyaç duydukları SQL parçasını her zaman Platform üzerinden ister.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package platform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/biyonik/go-dbal/internal/validation"
)

// ----------------------------------------------------------------------------
// Isolation Levels
// ----------------------------------------------------------------------------

// IsolationLevel, SQL standardındaki dört izolasyon seviyesini temsil eder.
type IsolationLevel int

const (
	IsolationReadUncommitted IsolationLevel = iota + 1
	IsolationReadCommitted
	IsolationRepeatableRead
	IsolationSerializable
)

// String, izolasyon seviyesinin SQL kelimelerini döndürür.
func (l IsolationLevel) String() string {
	switch l {
	case IsolationReadUncommitted:
		return "READ UNCOMMITTED"
	case IsolationReadCommitted:
		return "READ COMMITTED"
	case IsolationRepeatableRead:
		return "REPEATABLE READ"
	case IsolationSerializable:
		return "SERIALIZABLE"
	default:
		return "UNKNOWN"
	}
}

// IsValid, seviyenin tanımlı aralıkta olup olmadığını döndürür.
func (l IsolationLevel) IsValid() bool {
	return l >= IsolationReadUncommitted && l <= IsolationSerializable
}

// ----------------------------------------------------------------------------
// Platform Interface
// ----------------------------------------------------------------------------

// Platform, tek bir veritabanı motorunun lehçe kurallarını tanımlar.
// Her motor için ayrı bir implementasyon vardır; hepsi BasePlatform'u gömer
// ve yalnızca motorun saptığı davranışları ezer.
type Platform interface {
	// Name, motorun kimliğini döndürür ("mysql", "postgres", "sqlite").
	Name() string

	// QuoteIdentifier, noktayla nitelenmiş olabilen bir identifier'ı motor
	// tırnaklarıyla sarar. "users.name" -> "`users`.`name`" (MySQL).
	// Geçersiz karakter içeriyorsa hata döner.
	QuoteIdentifier(identifier string) (string, error)

	// QuoteSingleIdentifier, tek parçalı bir ismi doğrulamadan tırnaklar.
	// İç tırnak karakterleri ikilenerek kaçışlanır.
	QuoteSingleIdentifier(identifier string) string

	// QuoteLiteral, bir Go değerini SQL literal'i olarak kaçışlar.
	// Parametre bağlamanın mümkün olmadığı yerler (DDL, literal ifadeler) içindir.
	QuoteLiteral(value any) string

	// Placeholder, verilen 1 tabanlı indeks için parametre yer tutucusunu döndürür.
	// MySQL/SQLite: "?", PostgreSQL: "$1", "$2" vb.
	Placeholder(index int) string

	// ModifyLimitSQL, derlenmiş bir SELECT cümlesine motorun LIMIT/OFFSET
	// sözdizimini ekler. nil limit "sınırsız" demektir; yalnızca offset
	// verildiğinde motorların sınırsız-limit numaraları devreye girer.
	ModifyLimitSQL(sql string, limit, offset *int) (string, error)

	// BeginTransactionSQL, transaction açan komutu döndürür.
	BeginTransactionSQL() string

	// SupportsSavepoints, motorun savepoint desteğini bildirir.
	SupportsSavepoints() bool

	// SupportsReleaseSavepoints, RELEASE SAVEPOINT desteğini bildirir.
	SupportsReleaseSavepoints() bool

	// CreateSavepointSQL, savepoint oluşturan komutu üretir.
	CreateSavepointSQL(name string) (string, error)

	// ReleaseSavepointSQL, savepoint'i serbest bırakan komutu üretir.
	ReleaseSavepointSQL(name string) (string, error)

	// RollbackSavepointSQL, savepoint'e geri dönen komutu üretir.
	RollbackSavepointSQL(name string) (string, error)

	// SetTransactionIsolationSQL, oturum izolasyon seviyesini değiştiren komutu üretir.
	SetTransactionIsolationSQL(level IsolationLevel) (string, error)

	// DefaultTransactionIsolation, motorun varsayılan izolasyon seviyesini döndürür.
	DefaultTransactionIsolation() IsolationLevel

	// DatabasesSQL, erişilebilir veritabanlarını listeleyen sorguyu döndürür.
	DatabasesSQL() (string, error)

	// TablesSQL, aktif şemadaki tabloları listeleyen sorguyu döndürür.
	TablesSQL() (string, error)

	// ColumnsSQL, verilen tablonun kolonlarını listeleyen sorguyu döndürür.
	ColumnsSQL(table string) (string, error)

	// IndexesSQL, verilen tablonun indekslerini listeleyen sorguyu döndürür.
	IndexesSQL(table string) (string, error)

	// DateFormat, time.Time değerlerinin literal formatını döndürür.
	DateFormat() string
}

// ----------------------------------------------------------------------------
// Base Platform (ortak davranışlar)
// ----------------------------------------------------------------------------

// BasePlatform, implementasyonların paylaştığı varsayılan davranışları taşır.
type BasePlatform struct {
	name       string
	dateFormat string
}

// Name, platformun adını döndürür.
func (p *BasePlatform) Name() string {
	return p.name
}

// DateFormat, tarih literal formatını döndürür.
// Belirtilmemişse "2006-01-02 15:04:05" kullanılır.
func (p *BasePlatform) DateFormat() string {
	if p.dateFormat == "" {
		return "2006-01-02 15:04:05"
	}
	return p.dateFormat
}

// Placeholder, varsayılan soru işareti yer tutucusunu döndürür.
func (p *BasePlatform) Placeholder(_ int) string {
	return "?"
}

// BeginTransactionSQL, standart BEGIN komutunu döndürür.
func (p *BasePlatform) BeginTransactionSQL() string {
	return "BEGIN"
}

// SupportsSavepoints, varsayılan olarak true döner.
func (p *BasePlatform) SupportsSavepoints() bool {
	return true
}

// SupportsReleaseSavepoints, varsayılan olarak true döner.
func (p *BasePlatform) SupportsReleaseSavepoints() bool {
	return true
}

// CreateSavepointSQL, standart SAVEPOINT komutunu üretir.
func (p *BasePlatform) CreateSavepointSQL(name string) (string, error) {
	if err := validation.ValidateSavepointName(name); err != nil {
		return "", err
	}
	return "SAVEPOINT " + name, nil
}

// ReleaseSavepointSQL, standart RELEASE SAVEPOINT komutunu üretir.
func (p *BasePlatform) ReleaseSavepointSQL(name string) (string, error) {
	if err := validation.ValidateSavepointName(name); err != nil {
		return "", err
	}
	return "RELEASE SAVEPOINT " + name, nil
}

// RollbackSavepointSQL, standart ROLLBACK TO SAVEPOINT komutunu üretir.
func (p *BasePlatform) RollbackSavepointSQL(name string) (string, error) {
	if err := validation.ValidateSavepointName(name); err != nil {
		return "", err
	}
	return "ROLLBACK TO SAVEPOINT " + name, nil
}

// DefaultTransactionIsolation, SQL standardının yaygın varsayılanını döndürür.
func (p *BasePlatform) DefaultTransactionIsolation() IsolationLevel {
	return IsolationReadCommitted
}

// ModifyLimitSQL, standart LIMIT/OFFSET ekini üretir. Yalnızca offset verilen
// durum ANSI dışıdır; onu destekleyen motorlar bu metodu ezer.
func (p *BasePlatform) ModifyLimitSQL(sql string, limit, offset *int) (string, error) {
	if limit != nil && *limit < 0 {
		return "", ErrNegativeLimit
	}
	if offset != nil && *offset < 0 {
		return "", ErrNegativeOffset
	}

	if limit != nil {
		sql += " LIMIT " + strconv.Itoa(*limit)
	}
	if offset != nil && *offset > 0 {
		sql += " OFFSET " + strconv.Itoa(*offset)
	}
	return sql, nil
}

// DatabasesSQL, varsayılan olarak desteklenmediğini bildirir.
func (p *BasePlatform) DatabasesSQL() (string, error) {
	return "", ErrIntrospectionNotSupported
}

// TablesSQL, varsayılan olarak desteklenmediğini bildirir.
func (p *BasePlatform) TablesSQL() (string, error) {
	return "", ErrIntrospectionNotSupported
}

// ColumnsSQL, varsayılan olarak desteklenmediğini bildirir.
func (p *BasePlatform) ColumnsSQL(_ string) (string, error) {
	return "", ErrIntrospectionNotSupported
}

// IndexesSQL, varsayılan olarak desteklenmediğini bildirir.
func (p *BasePlatform) IndexesSQL(_ string) (string, error) {
	return "", ErrIntrospectionNotSupported
}

// ----------------------------------------------------------------------------
// Literal Formatting (ortak yardımcı)
// ----------------------------------------------------------------------------

// formatLiteral, string olmayan Go değerlerini SQL literal metnine çevirir.
// String kaçışlama motor bazlı olduğu için escape fonksiyonu dışarıdan gelir.
func formatLiteral(value any, dateFormat string, boolTrue, boolFalse string, escape func(string) string) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return boolTrue
		}
		return boolFalse
	case int:
		return strconv.Itoa(v)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return escape(v.Format(dateFormat))
	case []byte:
		return escape(string(v))
	case string:
		return escape(v)
	case fmt.Stringer:
		return escape(v.String())
	default:
		return escape(fmt.Sprintf("%v", v))
	}
}

// quoteWith, tek parçalı bir ismi verilen tırnak karakteriyle sarar.
// İçerideki tırnaklar ikilenir.
func quoteWith(identifier, quote string) string {
	return quote + strings.ReplaceAll(identifier, quote, quote+quote) + quote
}

// quoteQualified, noktayla nitelenmiş bir identifier'ı parça parça tırnaklar.
// "*" joker karakteri olduğu gibi bırakılır.
func quoteQualified(identifier string, single func(string) string) (string, error) {
	if identifier == "*" {
		return "*", nil
	}

	parts, err := validation.SplitQualified(identifier)
	if err != nil {
		return "", err
	}

	quoted := make([]string, len(parts))
	for i, part := range parts {
		quoted[i] = single(part)
	}
	return strings.Join(quoted, "."), nil
}

// ----------------------------------------------------------------------------
// Factory
// ----------------------------------------------------------------------------

// ByName, motor adından Platform örneği üretir.
func ByName(name string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql", "mariadb":
		return MySQL(), nil
	case "postgres", "postgresql", "pgsql":
		return Postgres(), nil
	case "sqlite", "sqlite3":
		return SQLite(), nil
	default:
		return nil, &Error{Message: "unknown platform '" + name + "'"}
	}
}

// ----------------------------------------------------------------------------
// Sentinel Errors
// ----------------------------------------------------------------------------

// Platform implementasyonları için ortak hatalar. Ana paket ile import
// döngüsünü önlemek için burada tanımlanmıştır.
var (
	ErrNegativeLimit             = &Error{Message: "LIMIT cannot be negative"}
	ErrNegativeOffset            = &Error{Message: "OFFSET cannot be negative"}
	ErrUnknownIsolationLevel     = &Error{Message: "unknown transaction isolation level"}
	ErrIsolationNotSupported     = &Error{Message: "isolation level is not supported by this platform"}
	ErrIntrospectionNotSupported = &Error{Message: "schema introspection is not supported by this platform"}
)

// Error, platforma özgü hataları temsil eder.
type Error struct {
	Message string
}

// Error, hatayı string olarak döndürür.
func (e *Error) Error() string {
	return "platform: " + e.Message
}
