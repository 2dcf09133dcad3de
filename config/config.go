package config

import (
	"strings"
	"time"

	"github.com/gotify/configor"
)

var Conf *Configuration

const DevelopmentEnv = "development"

type Configuration struct {
	App struct {
		ListenAddr          string `default:"" env:"APP_HOST"`
		Port                int    `default:"3001" env:"APP_PORT"`
		Env                 string `default:"development" env:"APP_ENV"`
		LogLevel            string `default:"info" env:"APP_LOG_LEVEL"`
		SwaggerEnabled      *bool  `default:"true" env:"APP_SWAGGER_ENABLED"`
		CorsOrigins         string `default:"*" env:"APP_CORS_ORIGINS"`
		FrontendCallbackURL string `default:"" env:"APP_FRONTEND_CALLBACK_URL"` // destino tras el login con Google
		AdminEmail          string `default:"" env:"APP_ADMIN_EMAIL"`           // administrador inicial
		AdminPassword       string `default:"" env:"APP_ADMIN_PASSWORD"`
	}
	Database struct {
		Host           string        `default:"127.0.0.1" env:"DB_HOST"`
		Port           string        `default:"5432" env:"DB_PORT"`
		Name           string        `default:"lariogistic" env:"DB_NAME"`
		User           string        `default:"postgres" env:"DB_USER"`
		Password       string        `default:"postgres" env:"DB_PASSWORD"`
		PoolSize       int           `default:"5" env:"DB_POOL_SIZE"`
		ConnectTimeout time.Duration `default:"10s" env:"DB_CONNECT_TIMEOUT"`
		RetryAttempts  int           `default:"3" env:"DB_RETRY_ATTEMPTS"`
		RetryMinDelay  time.Duration `default:"1s" env:"DB_RETRY_MIN_DELAY"`
		RetryMaxDelay  time.Duration `default:"5s" env:"DB_RETRY_MAX_DELAY"`
		MigrateOnStart *bool         `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool         `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		AccessTokenTTL  time.Duration `default:"1h" env:"AUTH_ACCESS_TOKEN_TTL"`
		RefreshTokenTTL time.Duration `default:"168h" env:"AUTH_REFRESH_TOKEN_TTL"`
		PrivateKey      string        `default:"" env:"JWT_PRIVATE_KEY"` // PEM, admite \n escapados
		PublicKey       string        `default:"" env:"JWT_PUBLIC_KEY"`
		KeysDir         string        `default:"keys" env:"JWT_KEYS_DIR"` // private.pem/public.pem en desarrollo
		CleanupInterval time.Duration `default:"1h" env:"AUTH_REFRESH_CLEANUP_INTERVAL"`
		CleanupRetain   time.Duration `default:"24h" env:"AUTH_REFRESH_CLEANUP_RETAIN"`
	}
	Google struct {
		ClientID     string `default:"" env:"GOOGLE_CLIENT_ID"`
		ClientSecret string `default:"" env:"GOOGLE_CLIENT_SECRET"`
		RedirectURI  string `default:"" env:"GOOGLE_REDIRECT_URI"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"minioadmin" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"minioadmin" env:"S3_SECRET_ACCESS_KEY"`
		BucketName      string `default:"lariogistic" env:"S3_BUCKET_NAME"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		PublicURL       string `default:"" env:"S3_PUBLIC_URL"` // base de las URL públicas, por defecto el endpoint
	}
	Upload struct {
		MaxFileSize int64 `default:"5242880" env:"UPLOAD_MAX_FILE_SIZE"` // 5 MB
		MaxFiles    int   `default:"5" env:"UPLOAD_MAX_FILES"`
	}
	RateLimit struct {
		Window         time.Duration `default:"15m" env:"RATE_LIMIT_WINDOW"`
		Login          int           `default:"5" env:"RATE_LIMIT_LOGIN"`
		Refresh        int           `default:"5" env:"RATE_LIMIT_REFRESH"`
		Update         int           `default:"5" env:"RATE_LIMIT_UPDATE"`
		PasswordChange int           `default:"3" env:"RATE_LIMIT_PASSWORD_CHANGE"`
		Create         int           `default:"100" env:"RATE_LIMIT_CREATE"`
		Delete         int           `default:"100" env:"RATE_LIMIT_DELETE"`
		Api            int           `default:"100" env:"RATE_LIMIT_API"`
	}
}

func (c *Configuration) IsDevelopment() bool {
	return strings.EqualFold(c.App.Env, DevelopmentEnv)
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	conf.Auth.PrivateKey = UnescapePEM(conf.Auth.PrivateKey)
	conf.Auth.PublicKey = UnescapePEM(conf.Auth.PublicKey)
	Conf = conf
}

// UnescapePEM en variables de entorno los saltos de línea llegan como \n literales
func UnescapePEM(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), `\n`, "\n")
}
