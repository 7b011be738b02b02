package dbal

import "time"

// -----------------------------------------------------------------------------
//  Bu dosya; go-dbal'ın çekirdek konfigürasyon katmanını oluşturan, esnek ve
//  genişletilebilir *Option* mimarisini içerir. Amaç, bağlantı davranışını
//  tek noktadan, okunabilir ve akıcı bir şekilde yönetebilmektir.
//
//  Her bir With* fonksiyonu; Connection üzerinde konfigürasyon yapmayı
//  sağlayan, dışarıdan enjekte edilen küçük fakat etkili dokunuşlardır:
//
//  ✔ Bir ayarı değiştirmek istediğinde ek yapılandırma dosyalarına girmezsin,
//    sadece ilgili WithX fonksiyonunu kurulum zincirine eklersin.
//  ✔ Kodun okunabilirliği yükselir, bağımlılıklar sadeleşir.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
//  -- @linkedin linkedin.com/in/biyonik
//  -- @email    ahmet.altun60@gmail.com
// -----------------------------------------------------------------------------

// Option tipi, bir *Connection* örneği üzerinde çalışan yapılandırma
// fonksiyonlarının temel imzasıdır. Option pattern, kurulum koduna dokunmadan
// yeni ayarlar eklemeye olanak tanır.
type Option func(*Connection)

// WithLogger, özel bir logger tanımlamaya yarar. Çalışan her sorgu, süresi ve
// hatasıyla birlikte bu logger'a iletilir.
//
// Örnek:
//
//	conn := dbal.NewConnection(driver, p, dbal.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Connection) {
		if logger == nil {
			logger = NopLogger{}
		}
		c.logger = logger
		c.tx.logger = logger
	}
}

// WithDebug, debug modunu aktif veya pasif hâle getirir.
// Debug açık olduğunda sorgu akışı logger üzerinden görünür hale gelir.
func WithDebug(enabled bool) Option {
	return func(c *Connection) {
		c.debug = enabled
	}
}

// WithScanner, sonuç kümelerini struct'lara map eden tarayıcıyı değiştirir.
// Varsayılan tarayıcı DefaultScanner'dır.
func WithScanner(s *DefaultScanner) Option {
	return func(c *Connection) {
		if s != nil {
			c.scanner = s
		}
	}
}

// WithResultCache, sorgu sonucu önbelleğini ve kayıtların yaşam süresini
// ayarlar. CachedQuery çağrıları bu önbellek üzerinden çalışır.
//
// Örnek:
//
//	conn := dbal.NewConnection(driver, p,
//	    dbal.WithResultCache(dbal.NewMemoryCache(256), 30*time.Second),
//	)
func WithResultCache(cache ResultCache, ttl time.Duration) Option {
	return func(c *Connection) {
		c.cache = cache
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithSavepointNesting, iç içe transaction'ların savepoint kullanmasını
// kurulum sırasında açar. Platform savepoint desteklemiyorsa ayar sessizce
// yoksayılır; çalışma anında açmak için Connection üzerindeki
// SetNestTransactionsWithSavepoints kullanılmalıdır.
func WithSavepointNesting() Option {
	return func(c *Connection) {
		_ = c.tx.SetNestTransactionsWithSavepoints(true)
	}
}

// applyOptions, Connection oluşturulurken verilen bütün Option'ları sırayla işler.
func applyOptions(c *Connection, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
}
