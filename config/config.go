package config

import (
	"errors"
	"flag"
	"net"
	"regexp"
	"strconv"
	"time"
)

type Config struct {
	Addr        string
	DBPath      string
	TokenSecret string
	TokenTTL    time.Duration
	AdminEmail  string
	SMTPAddr    string
	SMTPFrom    string
	SiteName    string
	Debug       bool
}

func ParseFlags() (cfg Config, err error) {
	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 80, "listen port number (default 80)")
	flag.StringVar(&cfg.DBPath, "db-path", "formbox.sqlite", "path to SQLite3 DB file (default formbox.sqlite)")
	flag.StringVar(&cfg.TokenSecret, "token-secret", "", "secret key for token encryption and decryption")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", 120, "token TTL in seconds (default 120)")
	flag.StringVar(&cfg.AdminEmail, "admin-email", "", "address notified of new submissions")
	flag.StringVar(&cfg.SMTPAddr, "smtp-addr", "localhost:25", "SMTP server host:port (default localhost:25)")
	flag.StringVar(&cfg.SMTPFrom, "smtp-from", "", "sender address for outgoing mail (defaults to -admin-email)")
	flag.StringVar(&cfg.SiteName, "site-name", "formbox", "site name used in notification mails")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.AdminEmail
	}

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
