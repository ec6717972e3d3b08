package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/linksrus/rankengine/config"
	"github.com/linksrus/rankengine/linkgraph/graph"
	"github.com/linksrus/rankengine/linkgraph/importer"
	"github.com/linksrus/rankengine/linkgraph/store/cdb"
	memgraph "github.com/linksrus/rankengine/linkgraph/store/memory"
	"github.com/linksrus/rankengine/linkgraph/store/sqlite"
	"github.com/linksrus/rankengine/query"
	"github.com/linksrus/rankengine/ranker"
	"github.com/linksrus/rankengine/relevance"
	"github.com/linksrus/rankengine/service"
	"github.com/linksrus/rankengine/service/pagerank"
	"github.com/linksrus/rankengine/service/searchapi"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"golang.org/x/xerrors"
)

const snippetLength = 100

var (
	appName = "rankengine"
	appSha  = "populated-at-link-time"
	logger  *logrus.Entry
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	rootLogger.SetFormatter(new(logrus.JSONFormatter))
	logger = rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := makeApp(rootLogger).Run(os.Args); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		_ = os.Stderr.Sync()
		os.Exit(1)
	}
}

func makeApp(rootLogger *logrus.Logger) *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Version = appSha
	app.Usage = "rank documents by keyword relevance and PageRank"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "link-graph-uri",
			Value:  "in-memory://",
			EnvVar: "LINK_GRAPH_URI",
			Usage:  "The URI for connecting to the link graph (supported URIs: in-memory://, sqlite://path/to/file.db, postgresql://user@host:26257/linkgraph?sslmode=disable)",
		},
		cli.StringFlag{
			Name:   "ranking-config",
			EnvVar: "RANKING_CONFIG",
			Usage:  "A YAML file with ranking parameters; missing values keep their defaults",
		},
		cli.StringFlag{
			Name:   "seed-file",
			EnvVar: "SEED_FILE",
			Usage:  "A JSON corpus to import into the link graph before running the command",
		},
		cli.StringFlag{
			Name:   "log-level",
			Value:  "info",
			EnvVar: "LOG_LEVEL",
			Usage:  "The log level (debug, info, warn, error)",
		},
	}
	app.Before = func(appCtx *cli.Context) error {
		level, err := logrus.ParseLevel(appCtx.String("log-level"))
		if err != nil {
			return xerrors.Errorf("invalid log level: %w", err)
		}
		rootLogger.SetLevel(level)
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "Serve the search API and periodically recalculate PageRank scores",
			Action: runServe,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "listen-addr",
					Value:  ":8080",
					EnvVar: "LISTEN_ADDR",
					Usage:  "The address to listen for incoming search API requests",
				},
				cli.IntFlag{
					Name:   "results-per-page",
					Value:  10,
					EnvVar: "RESULTS_PER_PAGE",
					Usage:  "The number of entries for each search result page",
				},
				cli.DurationFlag{
					Name:   "update-interval",
					Value:  time.Hour,
					EnvVar: "UPDATE_INTERVAL",
					Usage:  "The time between subsequent PageRank score updates",
				},
				cli.IntFlag{
					Name:   "num-workers",
					EnvVar: "NUM_WORKERS",
					Usage:  "The number of workers to use for calculating PageRank scores (defaults to the ranking config value)",
				},
			},
		},
		{
			Name:   "pagerank",
			Usage:  "Recalculate and store the PageRank scores of all documents",
			Action: runPageRank,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:   "num-workers",
					Value:  runtime.NumCPU(),
					EnvVar: "NUM_WORKERS",
					Usage:  "The number of workers to use for calculating PageRank scores",
				},
			},
		},
		{
			Name:      "search",
			Usage:     "Run a search query and print the ranked results",
			ArgsUsage: "QUERY",
			Action:    runSearch,
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "with-pagerank",
					Usage: "Recalculate PageRank scores before running the query",
				},
			},
		},
		{
			Name:   "import",
			Usage:  "Import the corpus specified with --seed-file into the link graph",
			Action: runImport,
		},
	}
	return app
}

func runServe(appCtx *cli.Context) error {
	g, settings, err := setup(appCtx)
	if err != nil {
		return err
	}
	defer closeGraph(g)

	rnk, err := newRanker(g, settings)
	if err != nil {
		return err
	}

	if n := appCtx.Int("num-workers"); n > 0 {
		settings.PageRank.ComputeWorkers = n
	}
	prSvc, err := pagerank.NewService(pagerank.Config{
		GraphAPI:       g,
		PageRank:       settings.PageRank,
		UpdateInterval: appCtx.Duration("update-interval"),
		Logger:         logger.WithField("service", "pagerank-calculator"),
	})
	if err != nil {
		return err
	}

	apiSvc, err := searchapi.NewService(searchapi.Config{
		GraphAPI:       g,
		RankerAPI:      rnk,
		ListenAddr:     appCtx.String("listen-addr"),
		ResultsPerPage: appCtx.Int("results-per-page"),
		Logger:         logger.WithField("service", "search-api"),
	})
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			logger.WithField("signal", s.String()).Infof("shutting down due to signal")
			cancelFn()
		case <-ctx.Done():
		}
	}()

	// Compute the initial scores before the first update interval elapses.
	if err = prSvc.RunOnce(ctx); err != nil {
		logger.WithField("err", err).Warn("initial PageRank update pass failed")
	}

	if err = (service.Group{apiSvc, prSvc}).Run(ctx); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func runPageRank(appCtx *cli.Context) error {
	g, settings, err := setup(appCtx)
	if err != nil {
		return err
	}
	defer closeGraph(g)

	settings.PageRank.ComputeWorkers = appCtx.Int("num-workers")
	return runPageRankPass(context.Background(), g, settings)
}

func runSearch(appCtx *cli.Context) error {
	rawQuery := strings.Join(appCtx.Args(), " ")
	if strings.TrimSpace(rawQuery) == "" {
		return xerrors.Errorf("a search query must be specified")
	}

	g, settings, err := setup(appCtx)
	if err != nil {
		return err
	}
	defer closeGraph(g)

	if appCtx.Bool("with-pagerank") {
		if err = runPageRankPass(context.Background(), g, settings); err != nil {
			return err
		}
	}

	rnk, err := newRanker(g, settings)
	if err != nil {
		return err
	}

	res, err := rnk.RankQuery(context.Background(), rawQuery)
	if err != nil {
		return err
	}

	printResults(os.Stdout, res)
	return nil
}

func runImport(appCtx *cli.Context) error {
	if appCtx.GlobalString("seed-file") == "" {
		return xerrors.Errorf("a corpus file must be specified with --seed-file")
	}

	g, _, err := setup(appCtx)
	if err != nil {
		return err
	}
	closeGraph(g)
	return nil
}

// setup opens the link graph, imports the seed corpus if one was specified
// and loads the ranking settings.
func setup(appCtx *cli.Context) (graph.Graph, *config.Ranking, error) {
	settings, err := config.Load(appCtx.GlobalString("ranking-config"))
	if err != nil {
		return nil, nil, err
	}

	g, err := getLinkGraph(appCtx.GlobalString("link-graph-uri"))
	if err != nil {
		return nil, nil, err
	}

	if seedFile := appCtx.GlobalString("seed-file"); seedFile != "" {
		if err = importCorpus(g, seedFile); err != nil {
			closeGraph(g)
			return nil, nil, err
		}
	}

	return g, settings, nil
}

func getLinkGraph(linkGraphURI string) (graph.Graph, error) {
	if linkGraphURI == "" {
		return nil, xerrors.Errorf("link graph URI must be specified with --link-graph-uri")
	}

	uri, err := url.Parse(linkGraphURI)
	if err != nil {
		return nil, xerrors.Errorf("could not parse link graph URI: %w", err)
	}

	switch uri.Scheme {
	case "in-memory":
		logger.Info("using in-memory graph")
		return memgraph.NewInMemoryGraph(), nil
	case "sqlite":
		path := strings.TrimPrefix(linkGraphURI, "sqlite://")
		if path == "" {
			return nil, xerrors.Errorf("sqlite link graph URI must include a database path")
		}
		logger.WithField("path", path).Info("using SQLite graph")
		return sqlite.NewSQLiteGraph(path)
	case "postgresql":
		logger.Info("using CDB graph")
		return cdb.NewCockroachDBGraph(linkGraphURI)
	default:
		return nil, xerrors.Errorf("unsupported link graph URI scheme: %q", uri.Scheme)
	}
}

func closeGraph(g graph.Graph) {
	if c, ok := g.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.WithField("err", err).Warn("closing link graph failed")
		}
	}
}

func importCorpus(g graph.Graph, seedFile string) error {
	f, err := os.Open(seedFile)
	if err != nil {
		return xerrors.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	stats, err := importer.New(g, logger.WithField("component", "importer")).Load(f)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"file":          seedFile,
		"documents":     stats.Documents,
		"links":         stats.Links,
		"skipped_links": stats.SkippedLinks,
	}).Info("imported corpus")
	return nil
}

func runPageRankPass(ctx context.Context, g graph.Graph, settings *config.Ranking) error {
	svc, err := pagerank.NewService(pagerank.Config{
		GraphAPI: g,
		PageRank: settings.PageRank,
		// Only used by the periodic Run loop.
		UpdateInterval: time.Hour,
		Logger:         logger.WithField("service", "pagerank-calculator"),
	})
	if err != nil {
		return err
	}
	return svc.RunOnce(ctx)
}

func newRanker(g graph.Graph, settings *config.Ranking) (*ranker.Ranker, error) {
	proc, err := query.NewProcessor(settings.Query)
	if err != nil {
		return nil, err
	}
	scorer, err := relevance.NewScorer(settings.Boosts)
	if err != nil {
		return nil, err
	}
	return ranker.NewRanker(ranker.Config{
		GraphAPI:       g,
		Processor:      proc,
		Scorer:         scorer,
		PageRankWeight: settings.PageRankWeight,
		Logger:         logger.WithField("component", "ranker"),
	})
}

func printResults(w io.Writer, res *ranker.Result) {
	if res.CorrectedQuery != "" {
		fmt.Fprintf(w, "Showing results for %q (searched for %q)\n", res.CorrectedQuery, res.Query)
	}
	if res.NoResults() {
		fmt.Fprintf(w, "No documents match %q\n", res.Query)
		return
	}

	for i, sr := range res.Results {
		fmt.Fprintf(w, "%d. %s\n", i+1, sr.Document.URL)
		fmt.Fprintf(w, "   PageRank: %.6f  score: %.6f\n", sr.Document.PageRank, sr.CombinedScore)
		fmt.Fprintf(w, "   %s\n", snippet(sr.Document.Content, snippetLength))
	}
}

// snippet returns the first n characters of content on a single line.
func snippet(content string, n int) string {
	flat := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(flat) <= n {
		return flat
	}
	return string([]rune(flat)[:n]) + "..."
}
