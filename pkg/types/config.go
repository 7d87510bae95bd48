package types

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Storage
	StoreDriver     string `envconfig:"STORE_DRIVER" default:"postgres"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	DatabaseMaxConn int32  `envconfig:"DATABASE_MAX_CONN"` // 0 keeps pool_max_conns or the pgx default
	RedisURL        string `envconfig:"REDIS_URL"`
	DraftTTLMin     uint   `envconfig:"DRAFT_TTL_MIN" default:"120"`
	SignatureBucket string `envconfig:"SIGNATURE_BUCKET"`

	// Form
	Institution string `envconfig:"INSTITUTION" default:"Municipalidad de Lo Prado"`
	PageSize    int    `envconfig:"PAGE_SIZE" default:"10"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey   string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey  string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
	DraftCookieName string `envconfig:"DRAFT_COOKIE_NAME" default:"receipt_draft"`
}
