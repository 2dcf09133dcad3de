package db

import (
	"fmt"
	"time"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

type Options struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	PoolSize       int
	ConnectTimeout time.Duration
	RetryAttempts  int
	RetryMinDelay  time.Duration
	RetryMaxDelay  time.Duration
	DebugMode      bool
	Migrate        bool
}

func (o Options) dsn() string {
	timeout := int(o.ConnectTimeout.Seconds())
	if timeout <= 0 {
		timeout = 10
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s connect_timeout=%d",
		o.Host, o.Port, o.User, o.Database, o.Password, timeout)
}

func Connect(opts Options) (err error) {
	if DB != nil {
		return nil
	}
	db, err := openWithRetry(opts)
	if err != nil {
		return errors.Wrap(err, "Error de conexión a la base de datos")
	}
	if opts.DebugMode {
		db.Logger = logger.Default.LogMode(logger.Info)
		DB = db.Debug()
	} else {
		DB = db
	}
	if opts.Migrate {
		if err = AutoMigrateDB(); err != nil {
			return err
		}
	}
	log.Info("Servicio conectado a la base de datos")
	return nil
}

func openWithRetry(opts Options) (db *gorm.DB, err error) {
	attempts := opts.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err = open(opts)
		if err == nil {
			return db, nil
		}
		if attempt == attempts {
			break
		}
		delay := RetryDelay(attempt, opts.RetryMinDelay, opts.RetryMaxDelay)
		log.WithError(err).
			WithField("attempt", attempt).
			WithField("delay", delay.String()).
			Warn("no se pudo conectar a la base de datos, reintentando")
		time.Sleep(delay)
	}
	return nil, err
}

func open(opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(opts.dsn()), &gorm.Config{
		Logger:         gorm_logrus.New(),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.PoolSize > 0 {
		sqlDB.SetMaxOpenConns(opts.PoolSize)
		sqlDB.SetMaxIdleConns(opts.PoolSize)
	}
	if err = sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// RetryDelay backoff exponencial x2 entre minDelay y maxDelay, attempt desde 1
func RetryDelay(attempt int, minDelay, maxDelay time.Duration) time.Duration {
	if minDelay <= 0 {
		minDelay = time.Second
	}
	delay := minDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if maxDelay > 0 && delay >= maxDelay {
			return maxDelay
		}
	}
	if maxDelay > 0 && delay > maxDelay {
		return maxDelay
	}
	return delay
}

func PingDB() error {
	db, err := DB.DB()
	if err != nil {
		return err
	}
	return db.Ping()
}
