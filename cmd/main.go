package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/api"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/config"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/diagnose"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/observability/logging"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/services"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to the configuration file (optional; defaults apply when empty)")
		apiPort     = flag.Int("api-port", 8080, "Port to listen on for the Classification API")
		metricsPort = flag.Int("metrics-port", 9190, "Port for Prometheus metrics")
	)
	flag.Parse()

	// Initialize logging (zap) from environment.
	if _, err := logging.InitLoggerFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logging.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
		cfg = loaded
	}

	// Start metrics server
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		metricsAddr := fmt.Sprintf(":%d", *metricsPort)
		logging.Infof("Starting metrics server on %s", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			logging.Errorf("Metrics server error: %v", err)
		}
	}()

	svc, err := services.NewClassificationService(cfg)
	if err != nil {
		logging.Fatalf("Failed to build classification service: %v", err)
	}

	diagnoseClient := diagnose.NewClient(cfg.Diagnose)
	if diagnoseClient != nil {
		logging.Infof("GPT-lane dispatch enabled: endpoint=%s model=%s", cfg.Diagnose.Endpoint, cfg.Diagnose.Model)
	}

	server := api.NewClassificationAPIServer(svc, diagnoseClient, cfg)
	logging.Infof("Starting lane router API with config: %s", *configPath)
	if err := server.Start(*apiPort); err != nil {
		logging.Fatalf("API server error: %v", err)
	}
}
