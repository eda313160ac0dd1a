// Command osulookup prints an osu! player's profile or best scores.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/pflag"

	"github.com/Adda-Baaj/osu-watch/internal/config"
	"github.com/Adda-Baaj/osu-watch/internal/domain"
	"github.com/Adda-Baaj/osu-watch/internal/logger"
	"github.com/Adda-Baaj/osu-watch/pkg/httpclient"
	"github.com/Adda-Baaj/osu-watch/pkg/osu"
)

// bestColumns are the score fields shown when listing best plays.
var bestColumns = []string{"beatmap_id", "pp", "rank", "score", "maxcombo", "count300", "count100", "count50", "countmiss", "date"}

type options struct {
	user    string
	mode    osu.Mode
	best    bool
	all     bool
	key     string
	timeout time.Duration
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "osulookup: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.key == "" {
		opts.key = cfg.OsuAPIKey
	}

	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	client, err := osu.New(opts.key, httpclient.NewRestyClient(opts.timeout))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.DebugObj("lookup starting", "lookup", map[string]any{
		"user": opts.user,
		"mode": opts.mode.String(),
		"best": opts.best,
		"all":  opts.all,
	})

	switch {
	case opts.all:
		records, err := client.GetUserBests(ctx, opts.user, opts.mode)
		if err != nil {
			return err
		}
		renderBests(out, records)
	case opts.best:
		rec, err := client.GetUserBest(ctx, opts.user, opts.mode)
		if err != nil {
			return err
		}
		renderRecord(out, rec)
	default:
		rec, err := client.GetUser(ctx, opts.user, opts.mode)
		if err != nil {
			return err
		}
		renderRecord(out, rec)
	}
	return nil
}

func parseArgs(args []string) (options, error) {
	fs := pflag.NewFlagSet("osulookup", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: osulookup [flags] <user>")
		fs.PrintDefaults()
	}

	mode := fs.StringP("mode", "m", string(osu.Standard), "game mode: standard, taiko, catch, mania (or 0-3)")
	best := fs.BoolP("best", "b", false, "show the top ranked score instead of the profile")
	all := fs.BoolP("all", "a", false, "show every best score returned by the API")
	key := fs.StringP("key", "k", "", "API key (defaults to OSU_API_KEY)")
	timeout := fs.Duration("timeout", osu.DefaultTimeout, "HTTP timeout")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, fmt.Errorf("expected exactly one user, got %d", fs.NArg())
	}

	m, err := osu.ParseMode(*mode)
	if err != nil {
		return options{}, err
	}

	return options{
		user:    strings.TrimSpace(fs.Arg(0)),
		mode:    m,
		best:    *best || *all,
		all:     *all,
		key:     strings.TrimSpace(*key),
		timeout: *timeout,
	}, nil
}

func renderRecord(out io.Writer, rec osu.Record) {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		if k == "events" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"field", "value"})
	for _, k := range keys {
		tw.AppendRow(table.Row{k, domain.RecordString(rec, k)})
	}
	tw.Render()
}

func renderBests(out io.Writer, records []osu.Record) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)

	header := table.Row{"#"}
	for _, c := range bestColumns {
		header = append(header, c)
	}
	tw.AppendHeader(header)

	for i, rec := range records {
		row := table.Row{i + 1}
		for _, c := range bestColumns {
			row = append(row, domain.RecordString(rec, c))
		}
		tw.AppendRow(row)
	}
	if len(records) == 0 {
		tw.AppendFooter(table.Row{"", "no scores"})
	}
	tw.Render()
}
