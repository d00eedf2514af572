package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/signkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-w string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-p string   password hash algorithm (bcrypt | argon2id)
//	-k string   Kakao profile endpoint
//	-o int      social profile call timeout, seconds
//	-l string   log level
//
// Only the flags above are looked at; everything else in args is ignored.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-w", "-d", "-s", "-t", "-p", "-k", "-o", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.PasswordHashAlgorithm, "p", config.PasswordHashAlgorithm, "password hash algorithm")
	fs.StringVar(&config.KakaoProfileURL, "k", config.KakaoProfileURL, "Kakao profile URL")
	socialTimeout := fs.Int("o", int(config.SocialTimeout.Seconds()), "social profile timeout (in seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Durations are only touched when given, so sub-minute values from
	// earlier layers survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
		case "o":
			config.SocialTimeout = time.Duration(*socialTimeout) * time.Second
		}
	})
	return nil
}
