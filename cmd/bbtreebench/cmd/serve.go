package cmd

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/meiyunyang/chipmunk-physics/pkg/bbtree"
	"github.com/meiyunyang/chipmunk-physics/pkg/bench"
	"github.com/meiyunyang/chipmunk-physics/pkg/config"
)

// statsResponse is the JSON body /stats returns.
type statsResponse struct {
	Frame  int     `json:"frame"`
	Leaves int     `json:"leaves"`
	Pairs  int     `json:"pairs"`
	Millis float64 `json:"duration_ms"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a scenario continuously behind an HTTP /stats and /metrics endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		addr, _ := cmd.Flags().GetString("addr")

		cfg := config.DefaultConfig()
		if cfgPath != "" {
			loaded, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if addr != "" {
			cfg.MetricsAddr = addr
		}
		if cfg.MetricsAddr == "" {
			cfg.MetricsAddr = ":8080"
		}

		if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
			if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
				log.Printf("sentry init failed: %v", err)
			}
			defer sentry.Flush(2 * time.Second)
		}

		metrics := bbtree.NewMetrics()
		scenario := bench.NewScenario(cfg, metrics, rand.New(rand.NewSource(time.Now().UnixNano())))

		var mu sync.Mutex
		latest := bench.FrameStats{}

		go func() {
			for {
				mu.Lock()
				latest = scenario.Step()
				mu.Unlock()
				time.Sleep(16 * time.Millisecond)
			}
		}()

		startServer(cfg.MetricsAddr, &mu, &latest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides the config's metrics_addr)")
}

func startServer(addr string, mu *sync.Mutex, latest *bench.FrameStats) {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))

	if sentry.CurrentHub().Client() != nil {
		r.Use(sentryhttp.New(sentryhttp.Options{}).Handle)
	}

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		resp := statsResponse{
			Frame:  latest.Frame,
			Leaves: latest.Leaves,
			Pairs:  latest.Pairs,
			Millis: float64(latest.Duration) / float64(time.Millisecond),
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	r.Handle("/metrics", promhttp.Handler())

	log.Printf("bbtreebench serve listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
