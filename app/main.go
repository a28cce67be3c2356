package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hnustlzh2/http-server/protocol"
	"github.com/hnustlzh2/http-server/route"
	"github.com/hnustlzh2/http-server/server"
)

// options 命令行参数
type options struct {
	directory      string
	at             string
	host           string
	port           int
	uploadDir      string
	readPerRequest bool
	lenientMethods bool
	maxBody        int
	readTimeout    time.Duration
	writeTimeout   time.Duration
	logLevel       string
	pretty         bool
}

func parseFlags(args []string) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("http-server", flag.ContinueOnError)
	fs.StringVar(&o.directory, "directory", "./public", "static files root")
	fs.StringVar(&o.at, "at", "", "mount static files under /<at>/")
	fs.StringVar(&o.host, "host", "127.0.0.1", "IPv4 address to listen on")
	fs.IntVar(&o.port, "port", 8080, "port number")
	fs.StringVar(&o.uploadDir, "upload-dir", "", "directory for /files, disabled when empty")
	fs.BoolVar(&o.readPerRequest, "read-per-request", false, "re-read static files on every request")
	fs.BoolVar(&o.lenientMethods, "lenient-methods", false, "treat unknown methods as GET")
	fs.IntVar(&o.maxBody, "max-body", protocol.DefaultLimits().MaxBodyBytes, "maximum request body in bytes")
	fs.DurationVar(&o.readTimeout, "read-timeout", 30*time.Second, "read deadline per connection, 0 disables")
	fs.DurationVar(&o.writeTimeout, "write-timeout", 30*time.Second, "write deadline per connection, 0 disables")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.BoolVar(&o.pretty, "pretty", false, "human readable console logs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.port < 0 || o.port > 65535 {
		return nil, fmt.Errorf("invalid port %d", o.port)
	}
	return o, nil
}

func newLogger(o *options, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(o.logLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", o.logLevel, err)
	}
	if o.pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

func (o *options) config(log zerolog.Logger) server.Config {
	cfg := server.DefaultConfig()
	cfg.Addr = net.JoinHostPort(o.host, strconv.Itoa(o.port))
	cfg.ReadTimeout = o.readTimeout
	cfg.WriteTimeout = o.writeTimeout
	cfg.Limits.MaxBodyBytes = o.maxBody
	if o.lenientMethods {
		cfg.MethodPolicy = protocol.MethodFallbackGET
	}
	cfg.Logger = log
	return cfg
}

func (o *options) cachePolicy() route.CachePolicy {
	if o.readPerRequest {
		return route.ReadPerRequest
	}
	return route.CacheAtRegistration
}

// setup 构建路由表和服务器，不开始监听
func setup(o *options, log zerolog.Logger) (*server.Server, []route.StaticRoute) {
	routes := route.NewTable()
	static, err := route.RegisterStaticDir(routes, o.directory, o.at, o.cachePolicy())
	if err != nil {
		// 没有静态目录时仍然可以只提供动态处理函数
		log.Warn().Err(err).Str("directory", o.directory).Msg("static files not registered")
	}

	srv := server.New(o.config(log), routes)
	registerHandlers(srv, o.uploadDir)
	return srv, static
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "参数错误: %v\n", err)
		return 2
	}
	log, err := newLogger(o, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "参数错误: %v\n", err)
		return 2
	}

	srv, static := setup(o, log)
	ln, err := srv.Listen()
	if err != nil {
		log.Error().Err(err).Msg("服务器启动失败")
		return 1
	}
	printBanner(stdout, ln.Addr().String(), o, srv, static)

	if err := srv.Serve(ln); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
