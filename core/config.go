package core

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	StorageConfig struct {
		Dir            string // empty: in-memory store
		QuotaBytes     int    // 0: unlimited
		BackupInterval time.Duration
	}

	RemoteConfig struct {
		DatabaseURL string // empty: remote mirror disabled
		Timeout     time.Duration
	}

	ArchiveConfig struct {
		Endpoint  string // empty: archive disabled
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}

	MailConfig struct {
		SendgridAPIKey   string
		DefaultFromEmail string
		ReportRecipients []string
	}

	StudentConfig struct {
		Name       string
		Grade      string
		SchoolYear string
	}

	Config struct {
		Env          string
		Build        string
		AppName      string
		Debug        bool
		TestMode     bool
		WorkDir      string
		RollbarToken string

		Server  ServerConfig
		Storage StorageConfig
		Remote  RemoteConfig
		Archive ArchiveConfig
		Mail    MailConfig
		Student StudentConfig
	}
)

func NewConfig() *Config {
	v := viper.New()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd: %v", err)
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "Homeschool Tracker")
	v.SetDefault("workDir", wd)
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("storage.dir", filepath.Join(wd, "data"))
	v.SetDefault("storage.quotaBytes", 5*1024*1024) // same order as a browser's local storage
	v.SetDefault("storage.backupInterval", 5*time.Minute)

	v.SetDefault("remote.databaseURL", "")
	v.SetDefault("remote.timeout", 10*time.Second)

	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.accessKey", "")
	v.SetDefault("archive.secretKey", "")
	v.SetDefault("archive.bucket", "homeschool-backups")
	v.SetDefault("archive.useSSL", true)

	v.SetDefault("mail.sendgridAPIKey", "")
	v.SetDefault("mail.defaultFromEmail", "noreply@localhost")
	v.SetDefault("mail.reportRecipients", []string{})

	year := time.Now().Year()
	v.SetDefault("student.name", "")
	v.SetDefault("student.grade", "")
	v.SetDefault("student.schoolYear", DefaultSchoolYear(year))

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		WorkDir:      v.GetString("workDir"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Storage: StorageConfig{
			Dir:            v.GetString("storage.dir"),
			QuotaBytes:     v.GetInt("storage.quotaBytes"),
			BackupInterval: v.GetDuration("storage.backupInterval"),
		},
		Remote: RemoteConfig{
			DatabaseURL: CleanString(v.GetString("remote.databaseURL")),
			Timeout:     v.GetDuration("remote.timeout"),
		},
		Archive: ArchiveConfig{
			Endpoint:  CleanString(v.GetString("archive.endpoint")),
			AccessKey: v.GetString("archive.accessKey"),
			SecretKey: v.GetString("archive.secretKey"),
			Bucket:    v.GetString("archive.bucket"),
			UseSSL:    v.GetBool("archive.useSSL"),
		},
		Mail: MailConfig{
			SendgridAPIKey:   v.GetString("mail.sendgridAPIKey"),
			DefaultFromEmail: v.GetString("mail.defaultFromEmail"),
			ReportRecipients: v.GetStringSlice("mail.reportRecipients"),
		},
		Student: StudentConfig{
			Name:       v.GetString("student.name"),
			Grade:      v.GetString("student.grade"),
			SchoolYear: v.GetString("student.schoolYear"),
		},
	}
}

// DefaultSchoolYear formats the school year starting in `year`, e.g. "2025-2026".
func DefaultSchoolYear(year int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(year+1)
}
