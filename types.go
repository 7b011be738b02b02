package dbal

import (
	"database/sql"
	"time"
)

/*
 * ----------------------------------------------------------------------------
 * GO-DBAL TYPE DEFINITIONS
 * ----------------------------------------------------------------------------
 *
 * Bu dosya, go-dbal paketinin veri taşıma ve yapılandırma katmanını oluşturur.
 * Bir veritabanı soyutlama kütüphanesinin en kritik unsuru, ham SQL dünyası ile
 * Go'nun tip güvenli dünyası arasındaki köprüyü kurmaktır.
 *
 * Burada yapılanlar:
 * 1. Abstraction (Soyutlama): Ham `sql.Result` nesneleri sarmalanarak, geliştiricinin
 * nil pointer hatalarıyla veya sürücü uyumsuzluklarıyla uğraşması engellenir.
 * 2. Navigation (Navigasyon): Pagination yapısı ile büyük veri setleri, yönetilebilir
 * ve gezilebilir parçalara bölünür.
 * 3. Configuration (Yapılandırma): Bağlantının sadece "nereye" yapılacağı değil,
 * "nasıl" davranacağı (pooling, timeout, charset) da burada belirlenir.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * @linkedin linkedin.com/in/biyonik
 * @email ahmet.altun60@gmail.com
 * ----------------------------------------------------------------------------
 */

// ----------------------------------------------------------------------------
// Query Result Types
// ----------------------------------------------------------------------------

// QueryResult, bir INSERT, UPDATE veya DELETE işlemi sonucunda veritabanından dönen
// ham yanıtı sarmalayan (wrapper) yapıdır.
//
// Bu yapı, ham `sql.Result` arabirimini doğrudan dışarı sızdırmak yerine,
// üzerinde güvenli erişim metotları sunarak olası çalışma zamanı hatalarını
// minimize etmeyi hedefler.
type QueryResult struct {
	result sql.Result
}

// NewQueryResult, ham `sql.Result` nesnesinden güvenli bir sonuç nesnesi türetir.
func NewQueryResult(result sql.Result) *QueryResult {
	return &QueryResult{result: result}
}

// LastInsertID, veritabanına son eklenen kaydın benzersiz kimliğini (ID) döndürür.
//
// Genellikle AUTO_INCREMENT (MySQL) veya SERIAL (Postgres) alanlar için kullanılır.
// Sürücü desteklemiyorsa veya işlem başarısızsa 0 ve hata döner.
func (r *QueryResult) LastInsertID() (int64, error) {
	if r.result == nil {
		return 0, ErrNoRows
	}
	return r.result.LastInsertId()
}

// RowsAffected, çalıştırılan sorgudan kaç adet satırın etkilendiğini bildirir.
func (r *QueryResult) RowsAffected() (int64, error) {
	if r.result == nil {
		return 0, ErrNoRows
	}
	return r.result.RowsAffected()
}

// ----------------------------------------------------------------------------
// Pagination Types
// ----------------------------------------------------------------------------

// Pagination, veri listeleme işlemlerinde "sayfalama" mantığını yöneten veri yapısıdır.
//
// Hem istemciye sunulacak meta veriyi (toplam sayfa, mevcut sayfa vb.) hem de
// SQL sorgusu için gerekli olan LIMIT/OFFSET hesaplamalarını barındırır.
type Pagination struct {
	Page       int   // Mevcut sayfa numarası (1'den başlar)
	PerPage    int   // Sayfa başına gösterilecek kayıt sayısı
	Total      int64 // Veritabanındaki toplam kayıt sayısı
	TotalPages int   // Hesaplanan toplam sayfa sayısı
	HasMore    bool  // Sonraki sayfaların olup olmadığını belirten bayrak
}

// NewPagination, ham sayfalama parametrelerinden zengin bir Pagination nesnesi oluşturur.
//
// Geçersiz veya eksik parametreler (örn: negatif sayfa numarası) otomatik olarak
// akıllı varsayılanlara dönüştürülür.
func NewPagination(page, perPage int, total int64) *Pagination {
	if perPage <= 0 {
		perPage = 15 // Varsayılan olarak sayfa başına 15 kayıt
	}
	if page <= 0 {
		page = 1
	}

	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}

	return &Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// Offset, SQL sorgusu için gerekli olan başlangıç noktasını hesaplar.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// HasPrev, mevcut sayfadan geriye gidilip gidilemeyeceğini kontrol eder.
func (p *Pagination) HasPrev() bool {
	return p.Page > 1
}

// HasNext, mevcut sayfadan ileriye gidilip gidilemeyeceğini kontrol eder.
func (p *Pagination) HasNext() bool {
	return p.HasMore
}

// Apply, sayfalama penceresini builder'a LIMIT/OFFSET olarak uygular.
func (p *Pagination) Apply(b *Builder) *Builder {
	return b.SetFirstResult(p.Offset()).SetMaxResults(p.PerPage)
}

// ----------------------------------------------------------------------------
// Configuration Types
// ----------------------------------------------------------------------------

// Config, veritabanı bağlantısının DNA'sını oluşturan yapılandırma şemasıdır.
//
// Bir veritabanı bağlantısı sadece host ve porttan ibaret değildir.
// Performanslı bir uygulama için Connection Pooling, Timeout süreleri,
// karakter setleri ve SSL/TLS ayarları hayati önem taşır.
type Config struct {
	Driver       string        // Kullanılacak motor: "mysql", "postgres", "sqlite"
	Host         string        // Veritabanı sunucusunun adresi (IP veya domain)
	Port         int           // Bağlantı portu
	Database     string        // Bağlanılacak veritabanı adı (SQLite'ta dosya yolu)
	Username     string        // Yetkilendirme için kullanıcı adı
	Password     string        // Yetkilendirme için parola
	Charset      string        // Karakter seti (varsayılan: utf8mb4, yalnızca MySQL)
	Collation    string        // Sıralama kuralları (varsayılan: utf8mb4_unicode_ci, yalnızca MySQL)
	SSLMode      string        // PostgreSQL sslmode değeri (varsayılan: disable)
	MaxOpenConns int           // Havuzdaki maksimum açık bağlantı sayısı (0 = sınırsız)
	MaxIdleConns int           // Havuzda boşta bekletilecek maksimum bağlantı sayısı
	ConnMaxLife  time.Duration // Bir bağlantının yaşam döngüsü süresi
	ConnMaxIdle  time.Duration // Bir bağlantının boşta kalabileceği maksimum süre
	TLS          bool          // TLS/SSL şifreli bağlantı zorunluluğu (MySQL)
}

// DefaultConfig, üretim ortamına uygun varsayılan ayarlarla dolu bir
// konfigürasyon nesnesi döndürür.
func DefaultConfig() *Config {
	return &Config{
		Driver:       "mysql",
		Host:         "localhost",
		Port:         3306,
		Charset:      "utf8mb4",
		Collation:    "utf8mb4_unicode_ci",
		SSLMode:      "disable",
		MaxOpenConns: 25,              // Aşırı yüklenmeyi önlemek için makul bir sınır
		MaxIdleConns: 5,               // Ani trafik artışları için hazırda bekleyen bağlantılar
		ConnMaxLife:  5 * time.Minute, // Bayat bağlantıları temizle
		ConnMaxIdle:  5 * time.Minute,
	}
}

// DSN (Data Source Name), seçili motorun sürücüsünün anlayacağı formatta
// bağlantı dizesini oluşturur.
//
// Motor sürücü paketleri (driver/mysql gibi) kendi kütüphanelerinin DSN
// kurucularını kullanır; buradaki üretim, Config'i tek başına kullanan
// senaryolar içindir.
func (c *Config) DSN() string {
	switch c.Driver {
	case "postgres", "postgresql", "pgsql":
		return c.postgresDSN()
	case "sqlite", "sqlite3":
		return c.Database
	default:
		return c.mysqlDSN()
	}
}

// mysqlDSN, user:pass@tcp(host:port)/db?param=val formatını inşa eder.
func (c *Config) mysqlDSN() string {
	dsn := ""
	if c.Username != "" {
		dsn += c.Username
		if c.Password != "" {
			dsn += ":" + c.Password
		}
		dsn += "@"
	}

	dsn += "tcp(" + c.Host
	if c.Port > 0 {
		dsn += ":" + itoa(c.Port)
	}
	dsn += ")/" + c.Database

	params := "?"
	if c.Charset != "" {
		params += "charset=" + c.Charset + "&"
	}
	if c.Collation != "" {
		params += "collation=" + c.Collation + "&"
	}
	// Tarih/Saat alanlarının time.Time tipine otomatik dönüşümü için gerekli
	params += "parseTime=true&"
	if c.TLS {
		params += "tls=true&"
	}

	if len(params) > 1 {
		dsn += params[:len(params)-1]
	}
	return dsn
}

// postgresDSN, lib/pq'nun anahtar=değer formatını inşa eder.
func (c *Config) postgresDSN() string {
	dsn := "host=" + c.Host
	if c.Port > 0 {
		dsn += " port=" + itoa(c.Port)
	}
	if c.Username != "" {
		dsn += " user=" + c.Username
	}
	if c.Password != "" {
		dsn += " password=" + c.Password
	}
	if c.Database != "" {
		dsn += " dbname=" + c.Database
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return dsn + " sslmode=" + sslmode
}

// itoa, tamsayıyı stringe çeviren hafif siklet bir yardımcı fonksiyondur.
//
// Neden strconv.Itoa değil?
// Bu dosyanın import listesini minimumda tutmak adına dahili bir çözüm tercih
// edilmiştir. Recursive yapısıyla negatif sayıları da destekler.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// ----------------------------------------------------------------------------
// Logger Interface
// ----------------------------------------------------------------------------

// Logger, sistemin kara kutusudur.
//
// Çalışan SQL sorgularını, parametreleri, sorgunun ne kadar sürdüğünü ve
// olası hataları izlemek için kullanılan arayüzdür. Geliştirici kendi
// logger'ını enjekte ederek sorgu performansını analiz edebilir.
type Logger interface {
	Log(query string, args []any, duration time.Duration, err error)
}

// NopLogger, "sessiz mod" için kullanılan bir logger uygulamasıdır.
// Tüm logları yutar ve hiçbir işlem yapmaz.
type NopLogger struct{}

// Log, NopLogger'ın implementasyonudur. Gelen tüm veriyi yok sayar.
func (NopLogger) Log(string, []any, time.Duration, error) {}
