package dbal

import "database/sql"

//
// =====================================================================================
// 📚 GO-DBAL – STATEMENT BİRİMİ
// -------------------------------------------------------------------------------------
// Bu dosya, çalıştırılmış bir SELECT cümlesinin sonuç kümesi üzerinde gezinmeyi
// sağlayan Statement'ı içerir. Statement, ham *sql.Rows'u sarar ve üç erişim
// biçimi sunar:
//
//   ✔ Düşük seviye: Next() + Scan(dest...) ile satır satır okuma
//   ✔ Assoc: FetchOne()/FetchAll() ile kolon adı → değer map'leri
//   ✔ Struct: One()/All() ile scanner üzerinden tip güvenli doldurma
//
// Statement tek kullanımlıktır; sonuç kümesi tüketildiğinde veya Close()
// çağrıldığında kapanır. Kapalı bir Statement üzerinde yapılan çağrılar
// ErrStatementClosed döndürür.
//
// YAZAR BİLGİSİ
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// Statement, bir SELECT sonucunun gezinilebilir tutamacıdır.
// Goroutine-güvenli değildir.
type Statement struct {
	rows    *sql.Rows
	scanner *DefaultScanner
	closed  bool
}

// newStatement, sonuç kümesinden bir Statement oluşturur.
func newStatement(rows *sql.Rows, scanner *DefaultScanner) *Statement {
	if scanner == nil {
		scanner = NewDefaultScanner()
	}
	return &Statement{rows: rows, scanner: scanner}
}

// Rows, alttaki ham sonuç kümesini döndürür.
// Ham erişim Statement'ın kapanış takibini atlar; dikkatli kullanılmalıdır.
func (s *Statement) Rows() *sql.Rows {
	return s.rows
}

// Columns, sonuç kümesinin kolon adlarını döndürür.
func (s *Statement) Columns() ([]string, error) {
	if s.closed {
		return nil, ErrStatementClosed
	}
	columns, err := s.rows.Columns()
	if err != nil {
		return nil, WrapError("get columns", err)
	}
	return columns, nil
}

// Next, imleci bir sonraki satıra taşır. Satır kalmadığında false döner.
func (s *Statement) Next() bool {
	if s.closed {
		return false
	}
	return s.rows.Next()
}

// Scan, aktif satırın kolonlarını hedeflere okur.
func (s *Statement) Scan(dest ...any) error {
	if s.closed {
		return ErrStatementClosed
	}
	if err := s.rows.Scan(dest...); err != nil {
		return WrapError("scan row", err)
	}
	return nil
}

// Err, gezinme sırasında oluşan ilk hatayı döndürür.
func (s *Statement) Err() error {
	if s.rows == nil {
		return nil
	}
	if err := s.rows.Err(); err != nil {
		return WrapError("rows iteration", err)
	}
	return nil
}

// Close, sonuç kümesini kapatır. Tekrarlı çağrılar zararsızdır.
func (s *Statement) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.rows.Close(); err != nil {
		return WrapError("close rows", err)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Assoc Fetch
// ----------------------------------------------------------------------------

// FetchOne, bir sonraki satırı kolon adı → değer map'i olarak döndürür.
// Satır kalmadıysa ErrNoRows döner ve Statement kapatılır.
func (s *Statement) FetchOne() (map[string]any, error) {
	if s.closed {
		return nil, ErrStatementClosed
	}

	if !s.rows.Next() {
		if err := s.Err(); err != nil {
			return nil, err
		}
		_ = s.Close()
		return nil, ErrNoRows
	}

	return s.scanRowMap()
}

// FetchAll, kalan tüm satırları map dilimi olarak döndürür ve Statement'ı kapatır.
func (s *Statement) FetchAll() ([]map[string]any, error) {
	if s.closed {
		return nil, ErrStatementClosed
	}
	defer func() { _ = s.Close() }()

	var out []map[string]any
	for s.rows.Next() {
		row, err := s.scanRowMap()
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchColumn, bir sonraki satırın tek kolonunu döndürür. Sayım ve tekil
// değer sorguları içindir.
func (s *Statement) FetchColumn() (any, error) {
	row, err := s.FetchOne()
	if err != nil {
		return nil, err
	}
	columns, err := s.rows.Columns()
	if err != nil {
		return nil, WrapError("get columns", err)
	}
	if len(columns) == 0 {
		return nil, ErrNoRows
	}
	return row[columns[0]], nil
}

// scanRowMap, aktif satırı map'e okur. []byte değerler string'e çevrilir;
// sürücülerin metinsel kolonları byte dilimi döndürme alışkanlığı gizlenir.
func (s *Statement) scanRowMap() (map[string]any, error) {
	columns, err := s.rows.Columns()
	if err != nil {
		return nil, WrapError("get columns", err)
	}

	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}

	if err := s.rows.Scan(targets...); err != nil {
		return nil, WrapError("scan row", err)
	}

	row := make(map[string]any, len(columns))
	for i, column := range columns {
		if b, ok := values[i].([]byte); ok {
			row[column] = string(b)
			continue
		}
		row[column] = values[i]
	}
	return row, nil
}

// ----------------------------------------------------------------------------
// Struct Fetch
// ----------------------------------------------------------------------------

// All, kalan tüm satırları struct dilimine aktarır ve Statement'ı kapatır.
//
//	var users []User
//	err := stmt.All(&users)
func (s *Statement) All(dest any) error {
	if s.closed {
		return ErrStatementClosed
	}
	s.closed = true // scanner rows'u kapatır
	return s.scanner.ScanRows(s.rows, dest)
}

// Column, tek kolonlu sonuçları düz dilime aktarır ve Statement'ı kapatır.
//
//	var ids []int64
//	err := stmt.Column(&ids)
func (s *Statement) Column(dest any) error {
	if s.closed {
		return ErrStatementClosed
	}
	s.closed = true
	return s.scanner.ScanColumn(s.rows, dest)
}
