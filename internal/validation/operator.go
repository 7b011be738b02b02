// Package validation içindeki bu dosya, karşılaştırma ifadelerinde kullanılan
// SQL operatörlerinin beyaz liste denetimini ve normalizasyonunu sağlar.
// Yalnızca listedeki operatörler WHERE/HAVING cümlelerine yazılabilir.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package validation

import "strings"

// allowedOperators, güvenli kabul edilen SQL operatörlerini tanımlar.
var allowedOperators = map[string]bool{
	// Karşılaştırma operatörleri
	"=":  true,
	"!=": true,
	"<>": true,
	"<":  true,
	">":  true,
	"<=": true,
	">=": true,

	// Desen eşleştirme
	"LIKE":     true,
	"NOT LIKE": true,

	// NULL kontrolü
	"IS":     true,
	"IS NOT": true,

	// Set operatörleri
	"IN":          true,
	"NOT IN":      true,
	"BETWEEN":     true,
	"NOT BETWEEN": true,

	// MySQL NULL güvenli eşitliği
	"<=>": true,
}

// ValidateOperator, verilen operatörün izin verilen listede olup olmadığını
// kontrol eder. Kontrol öncesinde büyük harfe çevrilir ve boşluklar kırpılır.
func ValidateOperator(op string) error {
	normalized := strings.ToUpper(strings.TrimSpace(op))

	if !allowedOperators[normalized] {
		return &OperatorError{
			Operator: op,
			Reason:   "operator not in allowed list",
		}
	}

	return nil
}

// NormalizeOperator, bir operatörü standart biçime çevirir.
// Geçersiz operatör girilirse hata döner.
func NormalizeOperator(op string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(op))

	if !allowedOperators[normalized] {
		return "", &OperatorError{
			Operator: op,
			Reason:   "operator not in allowed list",
		}
	}

	return normalized, nil
}

// IsComparisonOperator, operatörün temel karşılaştırma operatörü olup olmadığını döndürür.
func IsComparisonOperator(op string) bool {
	switch strings.ToUpper(strings.TrimSpace(op)) {
	case "=", "!=", "<>", "<", ">", "<=", ">=", "<=>":
		return true
	default:
		return false
	}
}

// IsNullOperator, operatörün NULL kontrolü (IS / IS NOT) olup olmadığını döndürür.
func IsNullOperator(op string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(op))
	return normalized == "IS" || normalized == "IS NOT"
}

// AllowedOperators, izin verilen tüm operatörleri döndürür.
// Hata mesajları ve dokümantasyon için faydalıdır.
func AllowedOperators() []string {
	ops := make([]string, 0, len(allowedOperators))
	for op := range allowedOperators {
		ops = append(ops, op)
	}
	return ops
}

// OperatorError, operatör doğrulama hatasını temsil eder.
type OperatorError struct {
	Operator string
	Reason   string
}

// Error, error arayüzünü uygular.
func (e *OperatorError) Error() string {
	return "dbal: invalid operator '" + e.Operator + "': " + e.Reason
}
