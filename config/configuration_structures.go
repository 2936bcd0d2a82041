package config

type DatabaseConfig struct {
	DSN string `yaml:"dsn" envconfig:"DATABASE_DSN"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" envconfig:"REDIS_DB"`
	Channel  string `yaml:"channel"` // канал pub/sub для сигналов об изменениях
}

type S3Config struct {
	Bucket   string `yaml:"bucket" envconfig:"S3_BUCKET"`
	Region   string `yaml:"region" envconfig:"S3_REGION"`
	Endpoint string `yaml:"endpoint" envconfig:"S3_ENDPOINT"`
	Local    bool   `yaml:"local"`
}

type JWTConfig struct {
	SecretKey      string `yaml:"secret_key" envconfig:"JWT_SECRET_KEY"`
	AccessTokenTTL string `yaml:"access_token_ttl"`
}

type SMTPConfig struct {
	Host        string `yaml:"host" envconfig:"SMTP_HOST"`
	Port        int    `yaml:"port" envconfig:"SMTP_PORT"`
	Username    string `yaml:"username" envconfig:"SMTP_USER"`
	Password    string `yaml:"password" envconfig:"SMTP_PASSWORD"`
	From        string `yaml:"from" envconfig:"SMTP_FROM"`
	SendTimeout string `yaml:"send_timeout"`
}

// DispatchConfig : параметры фонового диспетчера отправок.
// Интервалы задаются строками в формате time.ParseDuration.
type DispatchConfig struct {
	Workers       int    `yaml:"workers"`
	RatePerSecond int    `yaml:"rate_per_second"`
	PollInterval  string `yaml:"poll_interval"`
	SettleDelay   string `yaml:"settle_delay"`
	RunTimeout    string `yaml:"run_timeout"`
}

type AdminConfig struct {
	AdminToken string `yaml:"admin_token" envconfig:"ADMIN_TOKEN"`
}

// TTL : сроки жизни в секундах
type TTL struct {
	AccessLink int `yaml:"access_link"` // срок действия ссылки на скачивание
	Redis      int `yaml:"redis"`       // срок жизни записей в кеше
}
