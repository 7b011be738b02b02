// Package validation, SQL cümlelerine gömülen tablo, kolon, alias ve savepoint
// isimlerinin güvenli biçimde doğrulanmasını sağlayan dahili yardımcıları içerir.
// Kullanıcıdan gelen her identifier, SQL metnine yazılmadan önce bu paketten
// geçer; böylece enjeksiyon riski taşıyan girişler daha en başta reddedilir.
//
// Doğrulamalar üç soruya cevap verir:
// 1. Bu isim geçerli bir SQL identifier mı? (harf, rakam, alt çizgi, nokta)
// 2. Alias veya savepoint adı olarak kullanılabilir mi?
// 3. SQL rezerv kelimesi mi? (tırnaklanması gerekir mi?)
//
// Başarısız doğrulamalar detaylı bir `IdentifierError` döndürür.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
package validation

import (
	"regexp"
	"strings"
)

// identifierRegex, tek parçalı veya noktayla nitelenmiş (alias.column,
// db.table.column) identifier'ları eşler. İlk karakter harf veya alt çizgi olmalıdır.
var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*){0,2}$`)

// simpleRegex, nokta içermeyen tek parçalı isimleri (alias, savepoint) eşler.
var simpleRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// reservedWords, yaygın SQL rezerv kelimelerini içerir. Rezerv kelimeler
// identifier olarak kullanıldığında platform tarafından tırnaklanmalıdır.
var reservedWords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true, "or": true,
	"insert": true, "update": true, "delete": true, "into": true, "values": true,
	"set": true, "order": true, "by": true, "asc": true, "desc": true,
	"limit": true, "offset": true, "join": true, "left": true, "right": true,
	"inner": true, "outer": true, "on": true, "as": true, "in": true,
	"between": true, "like": true, "is": true, "null": true, "not": true,
	"group": true, "having": true, "distinct": true, "union": true,
	"create": true, "drop": true, "alter": true, "table": true, "index": true,
	"primary": true, "key": true, "foreign": true, "references": true,
	"default": true, "constraint": true, "unique": true, "check": true,
	"savepoint": true, "release": true, "rollback": true, "commit": true,
	"begin": true, "transaction": true,
}

// ValidateIdentifier, verilen ismin geçerli bir SQL identifier olup olmadığını
// kontrol eder. Noktayla nitelenmiş referanslara (en fazla üç parça) izin verir.
func ValidateIdentifier(id string) error {
	if id == "" {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier cannot be empty",
		}
	}

	if len(id) > 128 {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier exceeds maximum length of 128 characters",
		}
	}

	if !identifierRegex.MatchString(id) {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier contains invalid characters; only letters, numbers, underscores, and dots are allowed",
		}
	}

	return nil
}

// ValidateAlias, tablo alias'larını doğrular. Alias'lar nokta içeremez.
func ValidateAlias(alias string) error {
	if alias == "" {
		return &IdentifierError{
			Identifier: alias,
			Reason:     "alias cannot be empty",
		}
	}

	if !simpleRegex.MatchString(alias) {
		return &IdentifierError{
			Identifier: alias,
			Reason:     "alias must be a single unqualified identifier",
		}
	}

	return nil
}

// ValidateSavepointName, savepoint isimlerini doğrular. Savepoint isimleri
// doğrudan SQL metnine yazıldığı için tek parçalı identifier olmak zorundadır.
func ValidateSavepointName(name string) error {
	if name == "" {
		return &IdentifierError{
			Identifier: name,
			Reason:     "savepoint name cannot be empty",
		}
	}

	if !simpleRegex.MatchString(name) {
		return &IdentifierError{
			Identifier: name,
			Reason:     "savepoint name must be a single unqualified identifier",
		}
	}

	return nil
}

// IsReservedWord, verilen ismin SQL rezerv kelimesi olup olmadığını döndürür.
func IsReservedWord(id string) bool {
	return reservedWords[strings.ToLower(id)]
}

// SplitQualified, noktayla nitelenmiş bir referansı parçalara ayırır ve her
// parçayı doğrular. "users.id" → ["users", "id"].
func SplitQualified(ref string) ([]string, error) {
	parts := strings.Split(ref, ".")
	if len(parts) > 3 {
		return nil, &IdentifierError{
			Identifier: ref,
			Reason:     "reference can have at most two dots (db.table.column)",
		}
	}
	for _, part := range parts {
		if !simpleRegex.MatchString(part) {
			return nil, &IdentifierError{
				Identifier: ref,
				Reason:     "reference contains an invalid segment '" + part + "'",
			}
		}
	}
	return parts, nil
}

// IdentifierError, identifier doğrulama hatalarını temsil eder.
type IdentifierError struct {
	Identifier string
	Reason     string
}

// Error, error arayüzünü uygular.
func (e *IdentifierError) Error() string {
	if e.Identifier == "" {
		return "dbal: invalid identifier: " + e.Reason
	}
	return "dbal: invalid identifier '" + e.Identifier + "': " + e.Reason
}
