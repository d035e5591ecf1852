// Command cvmesh runs the CV enhancement pipeline once and prints the
// session result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hupe1980/cvmesh"
	"github.com/hupe1980/cvmesh/config"
	"github.com/hupe1980/cvmesh/domain"
	"github.com/hupe1980/cvmesh/interaction"
	"github.com/hupe1980/cvmesh/pipeline"
)

func main() {
	var (
		configFile  = flag.String("config", "", "path to a YAML config file")
		cvPath      = flag.String("cv", "", "path to the CV (.json, .txt, .md)")
		job         = flag.String("job", "", "job posting text, or a URL with -job-type url")
		jobFile     = flag.String("job-file", "", "read the job posting from a file")
		jobType     = flag.String("job-type", domain.SourceText, "job posting source type (text or url)")
		userID      = flag.String("user", "", "user id (generated when empty)")
		interactive = flag.Bool("interactive", false, "ask gap questions on the terminal")
	)
	flag.Parse()

	if strings.TrimSpace(*cvPath) == "" {
		die("-cv is required")
	}
	posting := *job
	if *jobFile != "" {
		data, err := os.ReadFile(*jobFile)
		if err != nil {
			die("read job posting: %v", err)
		}
		posting = string(data)
	}
	if strings.TrimSpace(posting) == "" {
		die("-job or -job-file is required")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		die("load config: %v", err)
	}

	var opts []func(o *cvmesh.Options)
	if *interactive || cfg.Interaction.Interactive {
		opts = append(opts, func(o *cvmesh.Options) {
			o.Answers = interaction.NewPromptAnswers(os.Stdin, os.Stderr)
		})
	}
	mesh, err := cvmesh.FromConfig(cfg, opts...)
	if err != nil {
		die("build mesh: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := mesh.Run(ctx, pipeline.Request{
		SourceRef:      *cvPath,
		JobDescription: posting,
		JobSourceType:  *jobType,
		UserID:         *userID,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		die("encode result: %v", err)
	}
	if res.Status != pipeline.StatusCompleted {
		stop()
		os.Exit(1)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
