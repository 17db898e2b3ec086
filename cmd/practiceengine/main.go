// Package main is the entry point for the practice engine daemon.
//
// Usage:
//
//	practiceengine start    — daemon mode (HTTP API + reminder dispatch + cache sweep)
//	practiceengine version  — print version
//	practiceengine status   — check daemon health
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dailyspark/practiceengine/internal/brain"
	"github.com/dailyspark/practiceengine/internal/budget"
	"github.com/dailyspark/practiceengine/internal/cache"
	"github.com/dailyspark/practiceengine/internal/config"
	"github.com/dailyspark/practiceengine/internal/curriculum"
	"github.com/dailyspark/practiceengine/internal/deploy"
	"github.com/dailyspark/practiceengine/internal/engine"
	"github.com/dailyspark/practiceengine/internal/httpapi"
	"github.com/dailyspark/practiceengine/internal/observability"
	"github.com/dailyspark/practiceengine/internal/reminder"
	"github.com/dailyspark/practiceengine/internal/resolver"
	"github.com/dailyspark/practiceengine/internal/scheduler"
	"github.com/dailyspark/practiceengine/internal/security"
	"github.com/dailyspark/practiceengine/internal/store"
)

const (
	version = "0.1.0"
	appName = "practiceengine"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "start":
		runDaemon()
	case "version":
		fmt.Printf("%s v%s\n", appName, version)
	case "status":
		runStatus()
	case "stop":
		runStop()
	case "configure":
		runConfigure()
	case "install-service":
		runInstallService()
	case "uninstall-service":
		runUninstallService()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `%s v%s — daily practice scheduling engine

Usage:
  %s <command>

Commands:
  start              Start daemon (HTTP API + reminder dispatch + cache sweep)
  stop               Send SIGTERM to a daemon started via its PID file
  configure          Interactive wizard: timezone, LLM provider, encryption passphrase
  install-service    Install an OS service (launchd on macOS, systemd on Linux)
  uninstall-service  Remove the installed OS service
  status             Check daemon health (requires running daemon)
  version            Print version

Environment variables (override config.toml):
  PRACTICEENGINE_CONFIG       Path to config.toml (default: ./config.toml)
  PRACTICEENGINE_DATA         Data directory for the PID file (default: .)
  PRACTICEENGINE_MASTER_KEY   Store encryption passphrase (unset: unencrypted in-memory store)
  PRACTICEENGINE_API_ADDR     HTTP listen address (default: 127.0.0.1:9191)
  LLM_PROVIDER                "openai" or "claude" (default: [llm].provider from config)
  LLM_API_KEY                 API key for the curriculum structurer's LLM calls

`, appName, version, appName)
}

func loadConfig() *config.Config {
	path := os.Getenv("PRACTICEENGINE_CONFIG")
	if path == "" {
		path = "./config.toml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Printf("[bootstrap] no config at %s (%v), using defaults", path, err)
		cfg = config.Default()
	}
	return cfg
}

func apiAddr() string {
	if v := os.Getenv("PRACTICEENGINE_API_ADDR"); v != "" {
		return v
	}
	return "127.0.0.1:9191"
}

func dataDir() string {
	if v := os.Getenv("PRACTICEENGINE_DATA"); v != "" {
		return v
	}
	return "."
}

// deps bundles every subsystem runDaemon wires together.
type deps struct {
	eng        *engine.Engine
	api        *httpapi.Server
	dispatcher *reminder.Dispatcher
	ttlCache   *cache.TTLCache
	log        *observability.Logger
}

// bootstrap initializes the store, cache, scheduler, reminder dispatcher,
// curriculum structurer, and engine from cfg — one function assembling
// every subsystem's Dependencies before the daemon's goroutines start.
func bootstrap(cfg *config.Config) (*deps, error) {
	logWriter := os.Stdout
	appLog := observability.NewLogger(appName, logWriter)
	mtx := observability.NewMetricsCollector(10000)

	passphrase := cfg.EncryptionKey()
	var backend store.Backend
	var km *security.KeyManager
	if passphrase == "" {
		appLog.Warn("no encryption passphrase set, using in-memory unencrypted backend", "envVar", cfg.Store.EncryptionKeyEnvVar)
		backend = store.NewMemBackend()
	} else {
		var err error
		km, err = security.NewKeyManager("practiceengine", 1, passphrase)
		if err != nil {
			return nil, fmt.Errorf("key manager: %w", err)
		}
		sqliteBackend, err := store.NewSQLiteBackend(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite backend: %w", err)
		}
		backend = sqliteBackend
	}

	auditLog := security.NewAuditLogger(security.NewMemoryAuditStore())
	st := store.New(backend, km, store.TTLConfig{
		CompletedGoal: cfg.Store.CompletedGoalTTL.Duration,
		Reminder:      cfg.Store.ReminderTTL.Duration,
	}, appLog, auditLog)
	appLog.Info("store ready", "backend", fmt.Sprintf("%T", backend))

	sched := scheduler.New(st, cfg.General.DefaultTimezone, 15, appLog)

	channels := reminder.NewChannelRegistry()
	dispatcher := reminder.NewDispatcher(st, channels, appLog, mtx)

	llm, providerName, err := createLLMProvider(cfg)
	if err != nil {
		appLog.Warn("no LLM provider configured, curriculum generation disabled", "error", err.Error())
	} else {
		appLog.Info("LLM provider ready", "provider", providerName)
	}
	router := brain.NewModelRouter()
	if providerName != "" {
		router.SetProvider(providerName)
	}
	tracker := budget.New(10.0, 200.0)
	sanitizer := security.NewSanitizer(security.SanitizerConfig{})
	structurer := curriculum.NewStructurer(llm, router, tracker, sanitizer, curriculum.DefaultConfig(), appLog)

	eng := engine.New(engine.Dependencies{
		Store:            st,
		Scheduler:        sched,
		MasteryThreshold: cfg.Mastery.Threshold,
		ReminderTZ:       cfg.General.DefaultTimezone,
		Logger:           appLog,
		Metrics:          mtx,
	})

	ttlCache := cache.New(cache.DefaultConfig(), appLog, mtx)
	api := httpapi.New(apiAddr(), eng, appLog).WithCurriculum(structurer).WithResolver(resolver.New())

	return &deps{eng: eng, api: api, dispatcher: dispatcher, ttlCache: ttlCache, log: appLog}, nil
}

// createLLMProvider picks a provider: explicit LLM_PROVIDER first, then
// falls back to the config's [llm].provider.
func createLLMProvider(cfg *config.Config) (brain.LLMProvider, string, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = cfg.LLM.Provider
	}
	apiKey := os.Getenv("LLM_API_KEY")

	switch provider {
	case "claude", "anthropic":
		key := apiKey
		if key == "" {
			key = os.Getenv("ANTHROPIC_API_KEY")
		}
		if key == "" {
			return nil, "", fmt.Errorf("claude: set ANTHROPIC_API_KEY or LLM_API_KEY")
		}
		return brain.NewClaudeProvider(key), "claude", nil
	case "openai", "":
		key := apiKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		if key == "" {
			return nil, "", fmt.Errorf("openai: set OPENAI_API_KEY or LLM_API_KEY")
		}
		return brain.NewOpenAIProvider(key), "openai", nil
	default:
		return nil, "", fmt.Errorf("unknown LLM_PROVIDER: %q", provider)
	}
}

// runDaemon starts the HTTP API, the reminder dispatcher's tick loop, and
// the cache's cleanup loop as independent goroutines, one ticker per
// subsystem instead of one shared heartbeat.
func runDaemon() {
	pf := deploy.NewPIDFile(dataDir())
	if err := pf.Guard(); err != nil {
		log.Fatalf("[daemon] %v", err)
	}
	defer pf.Remove()

	cfg := loadConfig()
	d, err := bootstrap(cfg)
	if err != nil {
		log.Fatalf("[daemon] bootstrap: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		d.log.Info("shutting down")
		cancel()
	}()

	tickInterval := cfg.Reminder.TickInterval.Duration
	if tickInterval <= 0 {
		tickInterval = time.Minute
	}
	go d.dispatcher.Run(ctx, tickInterval)
	go d.ttlCache.Run(ctx)

	addr := d.api.Addr()
	if addr == "" {
		addr = apiAddr()
	}
	d.log.Info("daemon starting", "addr", addr)
	if err := d.api.Start(ctx); err != nil {
		d.log.Error("api server stopped", "error", err.Error())
	}
}

func runStatus() {
	addr := apiAddr()
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/health", addr))
	if err != nil {
		fmt.Printf("daemon is NOT running at %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		fmt.Printf("daemon is running at %s\n", addr)
	} else {
		fmt.Printf("daemon returned status %d\n", resp.StatusCode)
		os.Exit(1)
	}
}

func runStop() {
	if err := deploy.StopDaemon(dataDir()); err != nil {
		fmt.Fprintf(os.Stderr, "stop: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("sent SIGTERM to daemon")
}

func runInstallService() {
	bin, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "install-service: %v\n", err)
		os.Exit(1)
	}
	result, err := deploy.Install(deploy.ServiceConfig{
		BinaryPath: bin,
		DataDir:    dataDir(),
		APIAddr:    apiAddr(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "install-service: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(result.Instructions)
}

func runUninstallService() {
	result, err := deploy.Uninstall()
	if err != nil {
		fmt.Fprintf(os.Stderr, "uninstall-service: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(result.Instructions)
}
