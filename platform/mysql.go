package platform

import (
	"strconv"
	"strings"
)

/*
 * ----------------------------------------------------------------------------
 * MYSQL PLATFORM IMPLEMENTATION
 * ----------------------------------------------------------------------------
 *
 * MySQL/MariaDB lehçesi: backtick tırnaklama, backslash tabanlı string
 * kaçışlama, "START TRANSACTION" ile açılış ve limitsiz OFFSET için devasa
 * LIMIT sabiti numarası. MySQL, OFFSET'i tek başına kabul etmediği için
 * dokümantasyonun önerdiği 18446744073709551615 değeri kullanılır.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * @linkedin linkedin.com/in/biyonik
 * @email ahmet.altun60@gmail.com
 * ----------------------------------------------------------------------------
 */

// MySQLPlatform, Platform arayüzünü MySQL ve MariaDB için implemente eder.
type MySQLPlatform struct {
	BasePlatform
}

// MySQL, yeni bir MySQL platform örneği oluşturur.
func MySQL() *MySQLPlatform {
	return &MySQLPlatform{
		BasePlatform: BasePlatform{
			name:       "mysql",
			dateFormat: "2006-01-02 15:04:05",
		},
	}
}

// QuoteSingleIdentifier, ismi backtick ile sarar; içerideki backtick'ler ikilenir.
func (p *MySQLPlatform) QuoteSingleIdentifier(identifier string) string {
	return quoteWith(identifier, "`")
}

// QuoteIdentifier, nitelenmiş identifier'ları parça parça backtick'ler.
// Örnek: "users.name" -> "`users`.`name`"
func (p *MySQLPlatform) QuoteIdentifier(identifier string) (string, error) {
	return quoteQualified(identifier, p.QuoteSingleIdentifier)
}

// QuoteLiteral, değeri MySQL string kaçışlamasıyla literal'e çevirir.
// Backslash ve tek tırnak backslash ile kaçışlanır.
func (p *MySQLPlatform) QuoteLiteral(value any) string {
	return formatLiteral(value, p.DateFormat(), "1", "0", func(s string) string {
		r := strings.NewReplacer(
			`\`, `\\`,
			`'`, `\'`,
			"\x00", `\0`,
			"\n", `\n`,
			"\r", `\r`,
			"\x1a", `\Z`,
		)
		return "'" + r.Replace(s) + "'"
	})
}

// BeginTransactionSQL, MySQL'in tercih ettiği komutu döndürür.
func (p *MySQLPlatform) BeginTransactionSQL() string {
	return "START TRANSACTION"
}

// ModifyLimitSQL, MySQL LIMIT/OFFSET sözdizimini üretir. MySQL tek başına
// OFFSET kabul etmez; limitsiz offset istendiğinde LIMIT, dokümante edilmiş
// en büyük satır sayısı sabitine (2^64-1) sabitlenir.
func (p *MySQLPlatform) ModifyLimitSQL(sql string, limit, offset *int) (string, error) {
	if limit != nil && *limit < 0 {
		return "", ErrNegativeLimit
	}
	if offset != nil && *offset < 0 {
		return "", ErrNegativeOffset
	}

	hasOffset := offset != nil && *offset > 0

	if limit != nil {
		sql += " LIMIT " + strconv.Itoa(*limit)
	} else if hasOffset {
		sql += " LIMIT 18446744073709551615"
	}
	if hasOffset {
		sql += " OFFSET " + strconv.Itoa(*offset)
	}
	return sql, nil
}

// SetTransactionIsolationSQL, oturum izolasyonunu değiştiren komutu üretir.
func (p *MySQLPlatform) SetTransactionIsolationSQL(level IsolationLevel) (string, error) {
	if !level.IsValid() {
		return "", ErrUnknownIsolationLevel
	}
	return "SET SESSION TRANSACTION ISOLATION LEVEL " + level.String(), nil
}

// DefaultTransactionIsolation, MySQL'in varsayılanı olan REPEATABLE READ'i döndürür.
func (p *MySQLPlatform) DefaultTransactionIsolation() IsolationLevel {
	return IsolationRepeatableRead
}

// DatabasesSQL, erişilebilir veritabanlarını listeler.
func (p *MySQLPlatform) DatabasesSQL() (string, error) {
	return "SHOW DATABASES", nil
}

// TablesSQL, aktif veritabanındaki tabloları listeler.
func (p *MySQLPlatform) TablesSQL() (string, error) {
	return "SHOW FULL TABLES WHERE Table_type = 'BASE TABLE'", nil
}

// ColumnsSQL, tablo kolonlarını tip ve nullability bilgisiyle listeler.
func (p *MySQLPlatform) ColumnsSQL(table string) (string, error) {
	quoted, err := p.QuoteIdentifier(table)
	if err != nil {
		return "", err
	}
	return "SHOW FULL COLUMNS FROM " + quoted, nil
}

// IndexesSQL, tablo indekslerini listeler.
func (p *MySQLPlatform) IndexesSQL(table string) (string, error) {
	quoted, err := p.QuoteIdentifier(table)
	if err != nil {
		return "", err
	}
	return "SHOW INDEX FROM " + quoted, nil
}

// Derleme zamanı kontratı: MySQLPlatform, Platform arayüzünü eksiksiz uygular.
var _ Platform = (*MySQLPlatform)(nil)
