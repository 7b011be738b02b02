package dbal

import (
	"database/sql"
	"reflect"
	"strings"
	"sync"
)

//
// =====================================================================================
// 📚 GO-DBAL – SCANNER BİRİMİ
// -------------------------------------------------------------------------------------
// Bu dosya, sonuç kümelerinin Go struct'larına güvenli ve otomatik şekilde
// aktarılmasını sağlayan Scanner altyapısını içerir. Amaç; satırları manuel
// Scan ve atama yükünden kurtarmak, `reflection + struct tag + cache`
// mantığıyla otomatik doldurma yapmaktır.
//
// Çalışma biçimi:
//   1. Struct field'ları reflection ile taranır
//   2. `db:"column"` tag'lerine göre kolon–field eşlemesi oluşturulur
//   3. Çıkan metadata cache'e alınır → tekrar eden taramalar yüksek hızda çalışar
//   4. Rows nesnesi okunur, gelen veriler ilgili struct alanlarına yazılır
//
// Statement'ın All() ve Column() metotları bu birimin üzerine kuruludur.
//
// YAZAR BİLGİSİ
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// Scanner, sonuç kümelerini Go modellerine map eden davranış sözleşmesidir.
type Scanner interface {
	// ScanRows, birden fazla satırı slice içine işler.
	ScanRows(rows *sql.Rows, dest any) error

	// ScanColumn, tek kolonlu sonuçları düz slice'a işler.
	ScanColumn(rows *sql.Rows, dest any) error
}

// DefaultScanner, kütüphanenin standart tarama motorudur.
// Reflection kullanır, `db:"field"` tag'i ile eşleme yapar. Struct metadata
// bilgisi cache'de tutulduğu için yüksek performans sağlar.
type DefaultScanner struct {
	cache sync.Map // reflect.Type → *structInfo
}

// NewDefaultScanner, varsayılan scanner oluşturur.
func NewDefaultScanner() *DefaultScanner {
	return &DefaultScanner{}
}

// structInfo, bir struct'ın kolon eşlemeleri ve metadata bilgisidir.
type structInfo struct {
	fields  []fieldInfo
	columns map[string]int // Kolon adından index eşlemesi → O(1) lookup
}

// fieldInfo, struct içerisindeki her alanın tarama bilgisidir.
type fieldInfo struct {
	index []int
	name  string
	omit  bool
}

// ScanRows, rows sonuç kümesini slice'a aktarır. (users → []User şeklinde)
//
// Hedef; struct veya struct pointer'ı elemanlı bir slice'ın pointer'ı olmak
// zorundadır. Sonuç kümesi her durumda kapatılır.
func (s *DefaultScanner) ScanRows(rows *sql.Rows, dest any) error {
	if rows == nil {
		return ErrNoRows
	}
	defer rows.Close()

	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrNilDestination
	}

	sliceVal := v.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return ErrInvalidDestination
	}

	elemType := sliceVal.Type().Elem()
	isPtr := elemType.Kind() == reflect.Ptr
	if isPtr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return ErrInvalidDestination
	}

	columns, err := rows.Columns()
	if err != nil {
		return WrapError("get columns", err)
	}

	info := s.getStructInfo(elemType)
	columnToField := make([]int, len(columns))

	for i, col := range columns {
		col = strings.ToLower(col)
		if idx, ok := info.columns[col]; ok {
			columnToField[i] = idx
		} else {
			columnToField[i] = -1
		}
	}

	for rows.Next() {
		elemVal := reflect.New(elemType).Elem()
		scanDests := make([]any, len(columns))

		for i, fieldIdx := range columnToField {
			if fieldIdx == -1 {
				var ignore any
				scanDests[i] = &ignore
				continue
			}
			f := info.fields[fieldIdx]
			if f.omit {
				var ignore any
				scanDests[i] = &ignore
			} else {
				fieldVal := elemVal.FieldByIndex(f.index)
				scanDests[i] = fieldVal.Addr().Interface()
			}
		}

		if err := rows.Scan(scanDests...); err != nil {
			return WrapError("scan row", err)
		}

		if isPtr {
			sliceVal.Set(reflect.Append(sliceVal, elemVal.Addr()))
		} else {
			sliceVal.Set(reflect.Append(sliceVal, elemVal))
		}
	}

	if err := rows.Err(); err != nil {
		return WrapError("rows iteration", err)
	}

	return nil
}

// ScanColumn, sonuçların tek bir kolon olup slice'a yazıldığı senaryolar içindir.
//
//	var ids []int64
//	scanner.ScanColumn(rows, &ids)
func (s *DefaultScanner) ScanColumn(rows *sql.Rows, dest any) error {
	if rows == nil {
		return ErrNoRows
	}
	defer rows.Close()

	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrNilDestination
	}

	sliceVal := v.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return ErrInvalidDestination
	}

	elemType := sliceVal.Type().Elem()

	for rows.Next() {
		elemPtr := reflect.New(elemType)
		if err := rows.Scan(elemPtr.Interface()); err != nil {
			return WrapError("scan column", err)
		}
		sliceVal.Set(reflect.Append(sliceVal, elemPtr.Elem()))
	}

	if err := rows.Err(); err != nil {
		return WrapError("rows iteration", err)
	}

	return nil
}

// getStructInfo, struct metadata cache erişim fonksiyonudur.
// Daha önce taranmışsa cache'den çeker.
func (s *DefaultScanner) getStructInfo(t reflect.Type) *structInfo {
	if cached, ok := s.cache.Load(t); ok {
		return cached.(*structInfo)
	}

	info := &structInfo{
		fields:  make([]fieldInfo, 0),
		columns: make(map[string]int),
	}

	s.parseStruct(t, nil, info)
	s.cache.Store(t, info)

	return info
}

// parseStruct, struct içindeki tüm alanları tarar.
// Gömülü struct'lar dahil derin tarama yapılır.
func (s *DefaultScanner) parseStruct(t reflect.Type, index []int, info *structInfo) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}

		fieldIndex := append(append([]int{}, index...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			s.parseStruct(field.Type, fieldIndex, info)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "-" {
			continue
		}

		fi := fieldInfo{index: fieldIndex}
		if tag != "" {
			fi.name = strings.Split(tag, ",")[0]
		} else {
			fi.name = strings.ToLower(field.Name)
		}

		idx := len(info.fields)
		info.fields = append(info.fields, fi)
		info.columns[fi.name] = idx
	}
}

// Derleme zamanı kontratı.
var _ Scanner = (*DefaultScanner)(nil)
