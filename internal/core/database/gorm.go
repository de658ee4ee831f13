package database

import (
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"

	"contactbook/internal/domain"
)

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
	// Writer 非 nil 时 SQL 日志写到这里（通常是 zap 包装的 *log.Logger）
	Writer             logger.Writer
}

func NewGorm(o Opts) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch o.Driver {
	case "postgres":
		dial = postgres.Open(o.DSN)
	case "sqlite":
		// 外键级联依赖 _foreign_keys=on
		dial = sqlite.Open(o.DSN)
	case "mysql":
		dsn := normalizeMySQLDSN(o.DSN, o.Username, o.Password)
		printf(o.Writer, "[db] final mysql dsn = %s", maskDSN(dsn))

		dial = mysql.Open(dsn)
	default:
		return nil, ErrUnsupportedDriver
	}
	lvl := logger.Warn
	switch o.LogLevel {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	gl := logger.Default.LogMode(lvl)
	if o.Writer != nil {
		gl = logger.New(o.Writer, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  lvl,
			IgnoreRecordNotFoundError: true,
		})
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         gl,
		TranslateError: true, // 唯一键冲突 → gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	db = db.
		Session(&gorm.Session{
			PrepareStmt:            true, // 预编译缓存，提高 QPS
			CreateBatchSize:        200,  // 批量写
			SkipDefaultTransaction: true, // 只在需要时手动开 Tx
		})
	return db, nil
}
func printf(w logger.Writer, format string, args ...any) {
	if w != nil {
		w.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Navicat/JDBC 连接串里的参数名 → go-sql-driver 参数名
var jdbcRename = map[string]string{
	"characterEncoding": "charset",
	"serverTimezone":    "loc",
	"useSSL":            "tls",
}

// 驱动不认识的 JDBC 参数，直接丢弃
var jdbcDrop = map[string]bool{
	"useUnicode":           true,
	"zeroDateTimeBehavior": true,
	"user":                 true,
	"password":             true,
}

// normalizeMySQLDSN 把 mysql:// 或 jdbc:mysql:// 形式改写为驱动 DSN；
// 原生 DSN（user:pass@tcp(...)/db）原样返回
func normalizeMySQLDSN(input, userOverride, passOverride string) string {
	in := strings.TrimSpace(input)
	if strings.HasPrefix(in, "jdbc:mysql://") {
		in = in[len("jdbc:"):]
	}
	if !strings.HasPrefix(in, "mysql://") {
		return in
	}
	u, err := url.Parse(in)
	if err != nil {
		return in
	}
	q := u.Query()

	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	cfg.Params = map[string]string{}

	pw, _ := u.User.Password()
	cfg.User = firstSet(userOverride, q.Get("user"), u.User.Username())
	cfg.Passwd = firstSet(passOverride, q.Get("password"), pw)

	for key := range q {
		if jdbcDrop[key] {
			continue
		}
		val := q.Get(key)
		name := key
		if to, ok := jdbcRename[key]; ok {
			name = to
		}
		switch name {
		case "tls":
			cfg.TLSConfig = tlsMode(val)
		case "loc":
			if loc, err := time.LoadLocation(val); err == nil {
				cfg.Loc = loc
			}
		case "parseTime":
			cfg.ParseTime = val == "true" || val == "1"
		case "charset":
			// 显式 charset 优先于 characterEncoding
			if _, dup := cfg.Params[name]; dup && key != name {
				continue
			}
			cfg.Params[name] = val
		default:
			cfg.Params[name] = val
		}
	}
	if cfg.Params["charset"] == "" {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg.FormatDSN()
}

func tlsMode(useSSL string) string {
	switch v := strings.ToLower(useSSL); v {
	case "true", "1":
		return "true"
	case "skip-verify", "preferred":
		return v
	default:
		return "false"
	}
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func maskDSN(dsn string) string {
	at := strings.Index(dsn, "@")
	if at <= 0 {
		return dsn
	}
	if colon := strings.Index(dsn[:at], ":"); colon > 0 {
		return dsn[:colon+1] + "****" + dsn[at:]
	}
	return dsn
}

// Migrate 按依赖顺序建表；外键级联（users → contacts → addresses）由约束标签声明
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Contact{}, &domain.Address{})
}

var ErrUnsupportedDriver = errors.New("unsupported db driver")
