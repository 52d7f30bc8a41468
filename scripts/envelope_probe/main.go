// Command envelope_probe logs in as an operator, calls each list endpoint with and
// without a page window, and reports which response envelope came back.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/noah-isme/council-console/internal/client"
	"github.com/noah-isme/council-console/internal/session"
	"github.com/noah-isme/council-console/pkg/config"
	"github.com/noah-isme/council-console/pkg/logger"
)

type target struct {
	Path     string `json:"path"`
	Key      string `json:"key"`
	Critical bool   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type probe struct {
	Target   target
	Paged    bool
	Shape    client.Shape
	Items    int
	Total    int
	Duration time.Duration
	Error    error
}

// breaking reports whether a paged call came back without a usable total.
func (p probe) breaking() bool {
	if p.Error != nil {
		return p.Target.Critical
	}
	return p.Paged && p.Shape == client.ShapeArray
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		baseURL     string
		email       string
		password    string
		targetsPath string
		pageSize    int
		timeout     time.Duration
	)
	flag.StringVar(&baseURL, "base", cfg.API.BaseURL, "council API base URL")
	flag.StringVar(&email, "email", cfg.DevAPI.AdminEmail, "operator email")
	flag.StringVar(&password, "password", os.Getenv("COUNCIL_ADMIN_PASSWORD"), "operator password")
	flag.StringVar(&targetsPath, "targets", "", "optional JSON targets file; defaults to the course and subject lists")
	flag.IntVar(&pageSize, "page-size", cfg.API.PageSize, "limit sent with paged probes")
	flag.DurationVar(&timeout, "timeout", cfg.API.Timeout, "HTTP client timeout")
	flag.Parse()

	logr, err := logger.New(cfg, "envelope-probe")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	api := client.New(baseURL, timeout, client.WithLogger(logr))
	targets, err := loadTargets(targetsPath, api.Endpoints())
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	ctx := context.Background()
	sess, err := session.NewManager(api, session.NewMemoryStore(), logr).LoginAdmin(ctx, email, password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}

	var results []probe
	breaking := 0
	for _, t := range targets {
		for _, paged := range []bool{false, true} {
			res := runProbe(ctx, api, sess, t, paged, pageSize)
			if res.breaking() {
				breaking++
			}
			results = append(results, res)
		}
	}

	printReport(os.Stdout, results)
	fmt.Printf("Breaking results: %d\n", breaking)
	_ = logr.Sync()
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string, endpoints client.Endpoints) ([]target, error) {
	if path == "" {
		return []target{
			{Path: endpoints.ListCourses, Key: "courses", Critical: true},
			{Path: endpoints.ListSubjects, Key: "subjects", Critical: true},
		}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func runProbe(ctx context.Context, api *client.Client, sess *session.Session, t target, paged bool, pageSize int) probe {
	res := probe{Target: t, Paged: paged}
	body := map[string]int{}
	if paged {
		body["skip"] = 0
		body["limit"] = pageSize
	}

	start := time.Now()
	raw, err := api.ProbeList(ctx, sess, t.Path, body)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	res.Shape, res.Items, res.Total, res.Error = client.DetectShape(raw, t.Key)
	return res
}

func printReport(w io.Writer, results []probe) {
	fmt.Fprintln(w, "Envelope Probe Report")
	fmt.Fprintln(w, "=====================")
	for _, res := range results {
		mode := "unpaged"
		if res.Paged {
			mode = "paged"
		}
		status := "OK"
		switch {
		case res.Error != nil:
			status = "ERROR"
		case res.breaking():
			status = "NO TOTAL"
		}
		fmt.Fprintf(w, "[%s] POST %s (%s, %s)\n", status, res.Target.Path, mode, res.Duration)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
			continue
		}
		fmt.Fprintf(w, "  Shape: %s | Items: %d | Total: %d\n", res.Shape, res.Items, res.Total)
	}
}
