// Command ippserverd embeds the ippcore printer service behind an
// adaptive HTTP/HTTPS listener, reading its configuration from an
// optional YAML file with flag overrides on top.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkspool/ippcore/internal/config"
	"github.com/inkspool/ippcore/internal/daemon"
	"github.com/inkspool/ippcore/internal/ipp"
	"github.com/inkspool/ippcore/internal/ipphttp"
	"github.com/inkspool/ippcore/internal/ippserver"
)

var version = "dev"

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML configuration file")
		listenAddr = flag.String("listen", "", "override server.listen_addr")
		tlsCert    = flag.String("tls-cert", "", "override server.tls_cert")
		tlsKey     = flag.String("tls-key", "", "override server.tls_key")
		spoolDir   = flag.String("spool-dir", "", "override server.spool_dir")
		logLevel   = flag.String("log-level", "", "override log.level")
		logFormat  = flag.String("log-format", "", "override log.format")
		showVer    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Println("ippserverd", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ippserverd:", err)
		os.Exit(1)
	}
	applyFlagOverrides(&cfg, *listenAddr, *tlsCert, *tlsKey, *spoolDir, *logLevel, *logFormat)

	log := newLogger(cfg.Log)

	if cfg.Server.SpoolDir != "" {
		if err := os.MkdirAll(cfg.Server.SpoolDir, 0755); err != nil {
			log.Fatal().Err(err).Msg("failed to create spool directory")
		}
	}

	info := ippserver.NewPrinterInfo(
		ippserver.WithName(cfg.Printer.Name),
		ippserver.WithInfo(cfg.Printer.Info, cfg.Printer.MakeAndModel),
		ippserver.WithUUID(printerUUID(cfg.Printer.Name)),
		ippserver.WithDocumentFormats(cfg.Printer.DocumentFormats, cfg.Printer.DocumentFormatDefault, cfg.Printer.DocumentFormatDefault),
		ippserver.WithMedia(cfg.Printer.Media, cfg.Printer.MediaDefault),
	)
	if len(cfg.Printer.ResolutionsDPI) > 0 {
		dpis := ippserver.ParseResolutionKeywords(cfg.Printer.ResolutionsDPI)
		resolutions := ippserver.ResolutionsFromDPI(dpis)
		def := ippserver.DefaultResolutionDPI(dpis)
		var defRes *ipp.Resolution
		for i, r := range resolutions {
			if int(r.CrossFeed) == def {
				defRes = &resolutions[i]
				break
			}
		}
		info = applyResolutions(info, resolutions, defRes)
		ippserver.WithURFFromCapabilities(cfg.Printer.ColorSupported, cfg.Printer.DuplexSupported, dpis)(info)
	}

	sink := NewFileSink(cfg.Server.SpoolDir, log)

	daemonCfg := daemon.DefaultConfig()
	daemonCfg.ListenAddr = cfg.Server.ListenAddr
	daemonCfg.TLSCertPath = cfg.Server.TLSCert
	daemonCfg.TLSKeyPath = cfg.Server.TLSKey
	daemonCfg.SpoolDir = cfg.Server.SpoolDir

	// The daemon owns the job cache's lifetime; the printer service just
	// borrows it, so construction order is: daemon first (cache created),
	// printer service second (cache wired in), handler third.
	d := buildDaemon(daemonCfg, info, cfg.Server.Host, cfg.Server.Basepath, sink, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

// buildDaemon wires the printer service and HTTP handler around a
// daemon.Daemon, a two-phase construction because the job cache the
// printer service needs is created inside daemon.New.
func buildDaemon(cfg daemon.Config, info *ippserver.PrinterInfo, host, basepath string, sink ippserver.Sink, log zerolog.Logger) *daemon.Daemon {
	// A placeholder handler is installed first; daemon.New needs a
	// http.Handler up front but the real one needs the cache daemon.New
	// creates, so we close over a pointer and fill it in immediately after.
	var realHandler http.Handler
	proxy := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		realHandler.ServeHTTP(w, r)
	})

	d := daemon.New(cfg, proxy, log)

	svc := ippserver.New(info, host, basepath, sink, d.Cache(), ippserver.WithLogger(log.With().Str("component", "printer").Logger()))
	realHandler = ipphttp.NewHandler(func(r *http.Request, msg *ipp.Message) *ipp.Message {
		return svc.HandleRequest(r.Context(), msg)
	}, log.With().Str("component", "http").Logger())

	return d
}

func applyResolutions(info *ippserver.PrinterInfo, resolutions []ipp.Resolution, def *ipp.Resolution) *ippserver.PrinterInfo {
	ippserver.WithResolutions(resolutions, def)(info)
	return info
}

func applyFlagOverrides(cfg *config.File, listenAddr, tlsCert, tlsKey, spoolDir, logLevel, logFormat string) {
	if listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}
	if tlsCert != "" {
		cfg.Server.TLSCert = tlsCert
	}
	if tlsKey != "" {
		cfg.Server.TLSKey = tlsKey
	}
	if spoolDir != "" {
		cfg.Server.SpoolDir = spoolDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

func printerUUID(name string) string {
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceDNS, []byte(name)).String()
}
