// Command instapilot drives an Instagram account: profile analysis,
// feed interactions, and direct messages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"

	"github.com/drey-val/instapilot/internal/app"
	"github.com/drey-val/instapilot/internal/config"
	"github.com/drey-val/instapilot/internal/report"
	"github.com/drey-val/instapilot/internal/scheduler"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	a := app.New(cfg, log)
	defer a.Close()

	ctx := context.Background()

	switch os.Args[1] {
	case "analyze":
		if len(os.Args) < 3 {
			fmt.Println("Usage: instapilot analyze <handle>")
			os.Exit(1)
		}
		runAnalyze(ctx, a, log, os.Args[2])

	case "interact":
		runInteract(ctx, a, log)

	case "followers":
		if len(os.Args) < 3 {
			fmt.Println("Usage: instapilot followers <handle> [max]")
			os.Exit(1)
		}
		max := defaultMaxFollowers
		if len(os.Args) > 3 {
			n, err := strconv.Atoi(os.Args[3])
			if err != nil || n <= 0 {
				fmt.Printf("invalid max %q\n", os.Args[3])
				os.Exit(1)
			}
			max = n
		}
		runFollowers(ctx, a, log, os.Args[2], max)

	case "dm":
		if len(os.Args) < 4 {
			fmt.Println("Usage: instapilot dm <handle> <text>")
			os.Exit(1)
		}
		if err := a.SendMessage(ctx, os.Args[2], os.Args[3], ""); err != nil {
			log.Fatalf("failed to send message: %v", err)
		}

	case "dm-batch":
		if len(os.Args) < 4 {
			fmt.Println("Usage: instapilot dm-batch <list-file> <text>")
			os.Exit(1)
		}
		if err := a.SendBatch(ctx, os.Args[2], os.Args[3], ""); err != nil {
			log.Fatalf("failed to send batch: %v", err)
		}

	case "schedule":
		runSchedule(a, cfg, log)

	case "open-report":
		runOpenReport(cfg, log)

	case "check-env":
		runCheckEnv(cfg)

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: instapilot <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  analyze <handle>            Scrape a profile into an analysis report")
	fmt.Println("  interact                    Like and comment on feed posts")
	fmt.Println("  followers <handle> [max]    List follower handles of a profile")
	fmt.Println("  dm <handle> <text>          Send a direct message")
	fmt.Println("  dm-batch <file> <text>      Message every handle in a newline-delimited file")
	fmt.Println("  schedule                    Run recurring analyses of configured targets")
	fmt.Println("  open-report                 Open the most recent analysis report")
	fmt.Println("  check-env                   Verify credentials are configured")
}

func runAnalyze(ctx context.Context, a *app.App, log *logrus.Logger, handle string) {
	r, path, err := a.RunAnalysis(ctx, handle)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	fmt.Printf("Report for @%s written to %s\n", r.SubjectHandle, path)
	fmt.Printf("  posts: %d  likes: %d  comments: %d  avg engagement: %.2f\n",
		r.TotalPosts, r.Summary.TotalLikes, r.Summary.TotalComments, r.Summary.AverageEngagement)
}

const defaultMaxFollowers = 100

func runFollowers(ctx context.Context, a *app.App, log *logrus.Logger, handle string, max int) {
	followers, err := a.ScrapeFollowers(ctx, handle, max)
	if err != nil {
		log.Fatalf("failed to scrape followers: %v", err)
	}
	for _, f := range followers {
		fmt.Println(f)
	}
}

func runInteract(ctx context.Context, a *app.App, log *logrus.Logger) {
	// Ctrl-C raises the cooperative exit flag; the loop notices at its
	// next per-post poll.
	var stop atomic.Bool
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("interrupt received, finishing current post")
		stop.Store(true)
	}()

	if err := a.RunInteractions(ctx, stop.Load); err != nil {
		log.Fatalf("interactions failed: %v", err)
	}
}

func runSchedule(a *app.App, cfg *config.Config, log *logrus.Logger) {
	if len(cfg.Schedule.Targets) == 0 {
		log.Fatal("no schedule targets configured")
	}

	sched, err := scheduler.New(cfg.Schedule.Timezone, log)
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}

	for _, target := range cfg.Schedule.Targets {
		handle := target
		err := sched.AddJob("analyze-"+handle, cfg.Schedule.CronSpec, func(ctx context.Context) error {
			_, _, err := a.RunAnalysis(ctx, handle)
			return err
		})
		if err != nil {
			log.Fatalf("failed to schedule analysis of @%s: %v", handle, err)
		}
	}

	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs
}

func runOpenReport(cfg *config.Config, log *logrus.Logger) {
	path, err := report.Latest(cfg.Analysis.OutputDir)
	if err != nil {
		log.Fatalf("no report found: %v", err)
	}
	log.Infof("opening report: %s", path)
	if err := browser.OpenFile(path); err != nil {
		log.Fatalf("failed to open report: %v", err)
	}
}

func runCheckEnv(cfg *config.Config) {
	if err := cfg.ValidateCredentials(); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ credentials configured for user %s\n", cfg.Credentials.Username)
}
