package dbal

import (
	"context"
	"fmt"
	"strings"
)

//
// =====================================================================================
// 📚 GO-DBAL – SCHEMA MANAGER BİRİMİ
// -------------------------------------------------------------------------------------
// Bu dosya, bağlı veritabanının yapısını salt-okunur biçimde keşfetmeyi sağlayan
// SchemaManager'ı içerir. Sorgular platform tarafından üretilir (SHOW, PRAGMA,
// information_schema); dönen satırlar motorlar arası farkları gizleyen ortak
// değer tiplerine (Column, Index) normalize edilir.
//
// Şema DEĞİŞTİRME (CREATE/ALTER/DROP üretimi) bu birimin kapsamı dışındadır.
//
// YAZAR BİLGİSİ
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// Column, bir tablo kolonunun normalize edilmiş tanımıdır.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Default  any
}

// Index, bir tablo indeksinin normalize edilmiş tanımıdır.
type Index struct {
	Name   string
	Unique bool
}

// SchemaManager, bağlantı üzerinden şema bilgisi okur.
type SchemaManager struct {
	conn *Connection
}

// NewSchemaManager, verilen bağlantı için bir SchemaManager oluşturur.
func NewSchemaManager(conn *Connection) *SchemaManager {
	return &SchemaManager{conn: conn}
}

// Databases, erişilebilir veritabanlarını listeler.
func (m *SchemaManager) Databases(ctx context.Context) ([]string, error) {
	query, err := m.conn.platform.DatabasesSQL()
	if err != nil {
		return nil, err
	}
	return m.firstColumnStrings(ctx, query)
}

// Tables, aktif şemadaki tabloları listeler.
func (m *SchemaManager) Tables(ctx context.Context) ([]string, error) {
	query, err := m.conn.platform.TablesSQL()
	if err != nil {
		return nil, err
	}
	return m.firstColumnStrings(ctx, query)
}

// Columns, verilen tablonun kolonlarını listeler.
func (m *SchemaManager) Columns(ctx context.Context, table string) ([]Column, error) {
	query, err := m.conn.platform.ColumnsSQL(table)
	if err != nil {
		return nil, err
	}

	rows, err := m.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	columns := make([]Column, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, Column{
			Name:     pickString(row, "Field", "column_name", "name"),
			Type:     pickString(row, "Type", "data_type", "type"),
			Nullable: pickNullable(row),
			Default:  pickValue(row, "Default", "column_default", "dflt_value"),
		})
	}
	return columns, nil
}

// Indexes, verilen tablonun indekslerini listeler.
func (m *SchemaManager) Indexes(ctx context.Context, table string) ([]Index, error) {
	query, err := m.conn.platform.IndexesSQL(table)
	if err != nil {
		return nil, err
	}

	rows, err := m.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	indexes := make([]Index, 0, len(rows))
	for _, row := range rows {
		name := pickString(row, "Key_name", "indexname", "name")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		indexes = append(indexes, Index{
			Name:   name,
			Unique: pickUnique(row),
		})
	}
	return indexes, nil
}

// HasTable, tablonun var olup olmadığını döndürür.
func (m *SchemaManager) HasTable(ctx context.Context, table string) (bool, error) {
	tables, err := m.Tables(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range tables {
		if strings.EqualFold(t, table) {
			return true, nil
		}
	}
	return false, nil
}

// fetch, introspection sorgusunu çalıştırıp assoc satırları döndürür.
func (m *SchemaManager) fetch(ctx context.Context, query string) ([]map[string]any, error) {
	stmt, err := m.conn.queryArgs(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	return stmt.FetchAll()
}

// firstColumnStrings, her satırın ilk kolonunu string olarak toplar.
func (m *SchemaManager) firstColumnStrings(ctx context.Context, query string) ([]string, error) {
	stmt, err := m.conn.queryArgs(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	columns, err := stmt.Columns()
	if err != nil {
		_ = stmt.Close()
		return nil, err
	}

	rows, err := stmt.FetchAll()
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, nil
	}

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, toString(row[columns[0]]))
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// Row Normalization
// ----------------------------------------------------------------------------

// pickValue, satırda ilk bulunan anahtarın değerini döndürür.
func pickValue(row map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := row[key]; ok {
			return v
		}
	}
	return nil
}

// pickString, pickValue'nun string halidir.
func pickString(row map[string]any, keys ...string) string {
	return toString(pickValue(row, keys...))
}

// pickNullable, motor bazlı nullability gösterimlerini bool'a indirger.
// MySQL/Postgres "YES"/"NO", SQLite PRAGMA notnull 0/1 kullanır.
func pickNullable(row map[string]any) bool {
	if v, ok := row["Null"]; ok {
		return strings.EqualFold(toString(v), "YES")
	}
	if v, ok := row["is_nullable"]; ok {
		return strings.EqualFold(toString(v), "YES")
	}
	if v, ok := row["notnull"]; ok {
		return toString(v) == "0"
	}
	return true
}

// pickUnique, motor bazlı uniqueness gösterimlerini bool'a indirger.
// MySQL Non_unique 0/1, SQLite PRAGMA unique 0/1, Postgres indexdef metni taşır.
func pickUnique(row map[string]any) bool {
	if v, ok := row["Non_unique"]; ok {
		return toString(v) == "0"
	}
	if v, ok := row["unique"]; ok {
		return toString(v) == "1"
	}
	if v, ok := row["indexdef"]; ok {
		return strings.Contains(strings.ToUpper(toString(v)), "UNIQUE")
	}
	return false
}

// toString, sürücülerden dönen heterojen değerleri string'e indirger.
func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}
