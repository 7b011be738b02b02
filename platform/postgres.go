package platform

import (
	"strconv"

	"github.com/lib/pq"
)

/*
 * ----------------------------------------------------------------------------
 * POSTGRESQL PLATFORM IMPLEMENTATION
 * ----------------------------------------------------------------------------
 *
 * PostgreSQL lehçesi: çift tırnak tırnaklama, $1/$2 yer tutucuları ve tek
 * başına OFFSET desteği. Identifier ve literal kaçışlama, sürücünün kendi
 * kanıtlanmış fonksiyonlarına (pq.QuoteIdentifier / pq.QuoteLiteral)
 * devredilir; elle kaçışlama kopyası tutulmaz.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * @linkedin linkedin.com/in/biyonik
 * @email ahmet.altun60@gmail.com
 * ----------------------------------------------------------------------------
 */

// PostgresPlatform, Platform arayüzünü PostgreSQL için implemente eder.
type PostgresPlatform struct {
	BasePlatform
}

// Postgres, yeni bir PostgreSQL platform örneği oluşturur.
func Postgres() *PostgresPlatform {
	return &PostgresPlatform{
		BasePlatform: BasePlatform{
			name:       "postgres",
			dateFormat: "2006-01-02 15:04:05.999999",
		},
	}
}

// QuoteSingleIdentifier, tırnaklamayı lib/pq'ya devreder.
func (p *PostgresPlatform) QuoteSingleIdentifier(identifier string) string {
	return pq.QuoteIdentifier(identifier)
}

// QuoteIdentifier, nitelenmiş identifier'ları parça parça çift tırnaklar.
// Örnek: "users.name" -> `"users"."name"`
func (p *PostgresPlatform) QuoteIdentifier(identifier string) (string, error) {
	return quoteQualified(identifier, p.QuoteSingleIdentifier)
}

// QuoteLiteral, string kaçışlamayı lib/pq'ya devreder. pq.QuoteLiteral,
// backslash içeren girdiler için E'' gösterimini de doğru üretir.
func (p *PostgresPlatform) QuoteLiteral(value any) string {
	return formatLiteral(value, p.DateFormat(), "TRUE", "FALSE", pq.QuoteLiteral)
}

// Placeholder, PostgreSQL'in numaralı yer tutucusunu döndürür.
func (p *PostgresPlatform) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

// SetTransactionIsolationSQL, aktif transaction'ın izolasyonunu değiştiren komutu üretir.
func (p *PostgresPlatform) SetTransactionIsolationSQL(level IsolationLevel) (string, error) {
	if !level.IsValid() {
		return "", ErrUnknownIsolationLevel
	}
	return "SET TRANSACTION ISOLATION LEVEL " + level.String(), nil
}

// DatabasesSQL, template olmayan veritabanlarını listeler.
func (p *PostgresPlatform) DatabasesSQL() (string, error) {
	return "SELECT datname FROM pg_database WHERE datistemplate = false ORDER BY datname", nil
}

// TablesSQL, public şemadaki tabloları listeler.
func (p *PostgresPlatform) TablesSQL() (string, error) {
	return "SELECT table_name FROM information_schema.tables " +
		"WHERE table_schema = 'public' AND table_type = 'BASE TABLE' ORDER BY table_name", nil
}

// ColumnsSQL, tablo kolonlarını information_schema üzerinden listeler.
// Tablo adı literal olarak gömüldüğü için pq kaçışlamasından geçer.
func (p *PostgresPlatform) ColumnsSQL(table string) (string, error) {
	if _, err := p.QuoteIdentifier(table); err != nil {
		return "", err
	}
	return "SELECT column_name, data_type, is_nullable, column_default " +
		"FROM information_schema.columns WHERE table_name = " + pq.QuoteLiteral(table) +
		" ORDER BY ordinal_position", nil
}

// IndexesSQL, tablo indekslerini pg_indexes üzerinden listeler.
func (p *PostgresPlatform) IndexesSQL(table string) (string, error) {
	if _, err := p.QuoteIdentifier(table); err != nil {
		return "", err
	}
	return "SELECT indexname, indexdef FROM pg_indexes WHERE tablename = " +
		pq.QuoteLiteral(table) + " ORDER BY indexname", nil
}

// Derleme zamanı kontratı: PostgresPlatform, Platform arayüzünü eksiksiz uygular.
var _ Platform = (*PostgresPlatform)(nil)
