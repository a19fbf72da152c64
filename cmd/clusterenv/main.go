package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"golang.org/x/time/rate"
	"k8s.io/klog/v2"

	"kubernetes-cluster-env/pkg/constants"
	"kubernetes-cluster-env/pkg/environment"
	"kubernetes-cluster-env/pkg/rollout"
	"kubernetes-cluster-env/pkg/server"
	"kubernetes-cluster-env/pkg/signals"
	"kubernetes-cluster-env/pkg/util"
)

var (
	configFile       string
	kubeconfig       string
	kubeContext      string
	namespace        string
	simulation       bool
	maxSteps         int
	seed             int64
	useMetricsServer bool

	mode        string
	listenAddr  string
	demoSteps   int
	rateLimit   float64
	rateBurst   int
	maxSessions int
)

func main() {
	klog.InitFlags(nil)
	flag.StringVar(&configFile, "config", util.GetEnvOrDefault("CLUSTERENV_CONFIG", ""), "Path to a YAML environment config")
	flag.StringVar(&kubeconfig, "kubeconfig", "", "Path to kubeconfig")
	flag.StringVar(&kubeContext, "context", "", "Kubeconfig context to use")
	flag.StringVar(&namespace, "namespace", constants.DefaultNamespace, "Namespace passed to the cluster adapter")
	flag.BoolVar(&simulation, "simulation", true, "Run against the built-in fault simulator")
	flag.IntVar(&maxSteps, "max-steps", constants.DefaultMaxSteps, "Episode horizon")
	flag.Int64Var(&seed, "seed", 0, "Fault RNG seed (0 = time-based)")
	flag.BoolVar(&useMetricsServer, "use-metrics-server", false, "Read CPU/memory usage from metrics.k8s.io")
	flag.StringVar(&mode, "mode", util.GetEnvOrDefault("CLUSTERENV_MODE", "serve"), "serve | demo")
	flag.StringVar(&listenAddr, "listen", util.GetEnvOrDefault("CLUSTERENV_LISTEN", ":8080"), "HTTP listen address")
	flag.IntVar(&demoSteps, "demo-steps", 10, "Random steps to play in demo mode")
	flag.Float64Var(&rateLimit, "rate", util.GetEnvFloat("CLUSTERENV_RATE", 100), "API requests per second")
	flag.IntVar(&rateBurst, "burst", util.GetEnvInt("CLUSTERENV_BURST", 200), "API burst size")
	flag.IntVar(&maxSessions, "max-sessions", util.GetEnvInt("CLUSTERENV_MAX_SESSIONS", 64), "Maximum open sessions (0 = unlimited)")
	flag.Parse()

	cfg := loadConfig()

	ctx := signals.SetupSignalContext()

	switch mode {
	case "serve":
		limiter := rate.NewLimiter(rate.Limit(rateLimit), rateBurst)
		srv := server.NewServer(cfg, environment.New, limiter, maxSessions)
		if err := srv.Run(ctx, listenAddr); err != nil {
			klog.Fatalf("Error running API server: %s", err.Error())
		}
	case "demo":
		env, err := environment.New(cfg)
		if err != nil {
			klog.Fatalf("Error creating environment: %s", err.Error())
		}
		defer env.Close()

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		summary, err := rollout.Run(ctx, env, demoSteps, rng, os.Stdout)
		if err != nil {
			klog.Errorf("Rollout stopped: %v", err)
			return
		}
		klog.Infof("Episode %s: %d steps, total reward %.2f", summary.EpisodeID, summary.Steps, summary.TotalReward)
	default:
		klog.Fatalf("Unknown mode %q (want serve or demo)", mode)
	}
}

// loadConfig layers the environment config: defaults or the YAML file,
// then CLUSTERENV_* variables, then flags set explicitly on the command line.
func loadConfig() environment.Config {
	cfg := environment.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = environment.LoadConfigFile(configFile)
		if err != nil {
			klog.Fatalf("Error loading config: %s", err.Error())
		}
	}

	cfg.Kubeconfig = util.GetEnvOrDefault("KUBECONFIG", cfg.Kubeconfig)
	cfg.Context = util.GetEnvOrDefault("CLUSTERENV_CONTEXT", cfg.Context)
	cfg.Namespace = util.GetEnvOrDefault("CLUSTERENV_NAMESPACE", cfg.Namespace)
	cfg.SimulationMode = util.GetEnvBool("CLUSTERENV_SIMULATION", cfg.SimulationMode)
	cfg.MaxSteps = util.GetEnvInt("CLUSTERENV_MAX_STEPS", cfg.MaxSteps)
	cfg.Seed = util.GetEnvInt64("CLUSTERENV_SEED", cfg.Seed)
	cfg.UseMetricsServer = util.GetEnvBool("CLUSTERENV_USE_METRICS_SERVER", cfg.UseMetricsServer)

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "kubeconfig":
			cfg.Kubeconfig = kubeconfig
		case "context":
			cfg.Context = kubeContext
		case "namespace":
			cfg.Namespace = namespace
		case "simulation":
			cfg.SimulationMode = simulation
		case "max-steps":
			cfg.MaxSteps = maxSteps
		case "seed":
			cfg.Seed = seed
		case "use-metrics-server":
			cfg.UseMetricsServer = useMetricsServer
		}
	})

	if err := cfg.Validate(); err != nil {
		klog.Fatalf("Invalid config: %s", err.Error())
	}
	klog.Infof("Config: simulation=%v context=%q namespace=%q maxSteps=%d",
		cfg.SimulationMode, cfg.Context, cfg.Namespace, cfg.MaxSteps)
	return cfg
}
