package platform

import (
	"strconv"
	"strings"
)

/*
 * ----------------------------------------------------------------------------
 * SQLITE PLATFORM IMPLEMENTATION
 * ----------------------------------------------------------------------------
 *
 * SQLite lehçesi: çift tırnak tırnaklama, tek tırnak ikileme ile string
 * kaçışlama, "BEGIN TRANSACTION" ile açılış ve limitsiz OFFSET için
 * "LIMIT -1" numarası. İzolasyon kontrolü yalnızca read_uncommitted
 * PRAGMA'sı üzerinden yapılabilir.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * @linkedin linkedin.com/in/biyonik
 * @email ahmet.altun60@gmail.com
 * ----------------------------------------------------------------------------
 */

// SQLitePlatform, Platform arayüzünü SQLite için implemente eder.
type SQLitePlatform struct {
	BasePlatform
}

// SQLite, yeni bir SQLite platform örneği oluşturur.
func SQLite() *SQLitePlatform {
	return &SQLitePlatform{
		BasePlatform: BasePlatform{
			name:       "sqlite",
			dateFormat: "2006-01-02 15:04:05",
		},
	}
}

// QuoteSingleIdentifier, ismi çift tırnakla sarar; içerideki tırnaklar ikilenir.
func (p *SQLitePlatform) QuoteSingleIdentifier(identifier string) string {
	return quoteWith(identifier, `"`)
}

// QuoteIdentifier, nitelenmiş identifier'ları parça parça çift tırnaklar.
func (p *SQLitePlatform) QuoteIdentifier(identifier string) (string, error) {
	return quoteQualified(identifier, p.QuoteSingleIdentifier)
}

// QuoteLiteral, değeri tek tırnak ikileme kuralıyla literal'e çevirir.
func (p *SQLitePlatform) QuoteLiteral(value any) string {
	return formatLiteral(value, p.DateFormat(), "1", "0", func(s string) string {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	})
}

// BeginTransactionSQL, SQLite'ın tercih ettiği komutu döndürür.
func (p *SQLitePlatform) BeginTransactionSQL() string {
	return "BEGIN TRANSACTION"
}

// ModifyLimitSQL, SQLite LIMIT/OFFSET sözdizimini üretir. SQLite tek başına
// OFFSET kabul etmez; limitsiz offset istendiğinde "LIMIT -1" kullanılır.
func (p *SQLitePlatform) ModifyLimitSQL(sql string, limit, offset *int) (string, error) {
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
		sql += " LIMIT -1"
	}
	if hasOffset {
		sql += " OFFSET " + strconv.Itoa(*offset)
	}
	return sql, nil
}

// SetTransactionIsolationSQL, izolasyonu read_uncommitted PRAGMA'sı ile ayarlar.
// SQLite yalnızca SERIALIZABLE ve READ UNCOMMITTED arasında seçim sunar.
func (p *SQLitePlatform) SetTransactionIsolationSQL(level IsolationLevel) (string, error) {
	switch level {
	case IsolationReadUncommitted:
		return "PRAGMA read_uncommitted = 1", nil
	case IsolationSerializable:
		return "PRAGMA read_uncommitted = 0", nil
	case IsolationReadCommitted, IsolationRepeatableRead:
		return "", ErrIsolationNotSupported
	default:
		return "", ErrUnknownIsolationLevel
	}
}

// DefaultTransactionIsolation, SQLite'ın varsayılanı olan SERIALIZABLE'ı döndürür.
func (p *SQLitePlatform) DefaultTransactionIsolation() IsolationLevel {
	return IsolationSerializable
}

// DatabasesSQL, bağlı veritabanı dosyalarını listeler.
func (p *SQLitePlatform) DatabasesSQL() (string, error) {
	return "PRAGMA database_list", nil
}

// TablesSQL, sqlite_master üzerinden kullanıcı tablolarını listeler.
func (p *SQLitePlatform) TablesSQL() (string, error) {
	return "SELECT name FROM sqlite_master " +
		"WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name", nil
}

// ColumnsSQL, tablo kolonlarını PRAGMA ile listeler.
func (p *SQLitePlatform) ColumnsSQL(table string) (string, error) {
	quoted, err := p.QuoteIdentifier(table)
	if err != nil {
		return "", err
	}
	return "PRAGMA table_info(" + quoted + ")", nil
}

// IndexesSQL, tablo indekslerini PRAGMA ile listeler.
func (p *SQLitePlatform) IndexesSQL(table string) (string, error) {
	quoted, err := p.QuoteIdentifier(table)
	if err != nil {
		return "", err
	}
	return "PRAGMA index_list(" + quoted + ")", nil
}

// Derleme zamanı kontratı: SQLitePlatform, Platform arayüzünü eksiksiz uygular.
var _ Platform = (*SQLitePlatform)(nil)
