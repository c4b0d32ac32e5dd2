// Command naivetext extracts structured biographical data from a corpus of
// six classical Chinese dynastic histories and answers time, person, and
// location queries over the emitted datasets.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Feiyang472/naive-text/internal/biography"
	"github.com/Feiyang472/naive-text/internal/config"
	"github.com/Feiyang472/naive-text/internal/logger"
	"github.com/Feiyang472/naive-text/internal/pipeline"
	"github.com/Feiyang472/naive-text/internal/query"
	"github.com/Feiyang472/naive-text/internal/regime"
	"github.com/Feiyang472/naive-text/internal/store"
)

var (
	configPath string
	outputDir  string
	debug      bool

	workers   int
	dbPath    string
	staleness int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "naivetext",
		Short: "Information extraction over six classical Chinese dynastic histories",
		Long: "naivetext walks a corpus of 晉書/宋書/南齊書/梁書/陳書/魏書 biography files,\n" +
			"extracts persons, events, and time references, and answers chronological queries.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(debug)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Dataset directory (default from config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	extractCmd := &cobra.Command{
		Use:   "extract [corpus_root]",
		Short: "Run the extraction pipeline and write the datasets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExtract,
	}
	extractCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent workers (0 = number of CPUs)")
	extractCmd.Flags().StringVar(&dbPath, "db", "", "Also export the dataset to a SQLite database at this path")

	queryCmd := &cobra.Command{
		Use:   "query <expr>",
		Short: "Print the scopes and events matching a time query",
		Long: "Query expressions: 元嘉 | 元嘉3 | 元嘉3-5 | @劉宋 | 450AD | 420AD-479AD.\n" +
			"Simplified Chinese input is accepted.",
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	timelineCmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the era-year inventory grouped by AD year",
		Args:  cobra.NoArgs,
		RunE:  runTimeline,
	}

	textCmd := &cobra.Command{
		Use:   "text <expr>",
		Short: "Print the raw text of each scope matching a time query",
		Args:  cobra.ExactArgs(1),
		RunE:  runText,
	}

	locateCmd := &cobra.Command{
		Use:   "locate <expr>",
		Short: "Print where each person was at the queried time",
		Args:  cobra.ExactArgs(1),
		RunE:  runLocate,
	}
	locateCmd.Flags().IntVar(&staleness, "staleness", 0,
		"Max AD years since last sighting (0 = config default)")

	personCmd := &cobra.Command{
		Use:   "person <name...>",
		Short: "Print the per-person event timeline",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPerson,
	}

	rootCmd.AddCommand(extractCmd, queryCmd, timelineCmd, textCmd, locateCmd, personCmd)

	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	return cfg, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	root := cfg.Corpus.Root
	if len(args) == 1 {
		root = args[0]
	}
	if workers == 0 {
		workers = cfg.Extract.Workers
	}
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}

	result, err := pipeline.New(workers, true).Run(root)
	if err != nil {
		return err
	}

	if err := result.Datasets.Write(cfg.Output.Dir); err != nil {
		return err
	}
	logger.Info("datasets written", zap.String("dir", cfg.Output.Dir))

	if dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		if err := db.Export(result.Datasets, true); err != nil {
			return err
		}
		logger.Info("sqlite export written", logger.File(dbPath))
	}

	printExtractSummary(result)
	return nil
}

func printExtractSummary(result *pipeline.Result) {
	byBook := make(map[string]int)
	byKind := make(map[string]int)
	for _, p := range result.Persons {
		byBook[string(p.Source.Book)]++
		byKind[string(p.Kind)]++
	}

	fmt.Println("\nPersons by book:")
	bookData := [][]string{}
	for _, book := range sortedKeys(byBook) {
		bookData = append(bookData, []string{book, fmt.Sprintf("%d", byBook[book])})
	}
	bookTable := tablewriter.NewWriter(os.Stdout)
	bookTable.Header([]string{"Book", "Persons"})
	_ = bookTable.Bulk(bookData)
	_ = bookTable.Render()

	fmt.Println("\nPersons by kind:")
	kindData := [][]string{}
	for _, kind := range []biography.Kind{
		biography.Emperor, biography.Official, biography.Ruler, biography.Deposed,
	} {
		kindData = append(kindData, []string{string(kind), fmt.Sprintf("%d", byKind[string(kind)])})
	}
	kindTable := tablewriter.NewWriter(os.Stdout)
	kindTable.Header([]string{"Kind", "Persons"})
	_ = kindTable.Bulk(kindData)
	_ = kindTable.Render()

	stats := result.Datasets.Timeline.Stats
	fmt.Println("\nEvents:")
	eventData := [][]string{
		{"Appointment", fmt.Sprintf("%d", stats.Appointments)},
		{"Promotion", fmt.Sprintf("%d", stats.Promotions)},
		{"Accession", fmt.Sprintf("%d", stats.Accessions)},
		{"Battle", fmt.Sprintf("%d", stats.Battles)},
		{"Death", fmt.Sprintf("%d", stats.Deaths)},
		{"Total", fmt.Sprintf("%d", stats.TotalEvents)},
	}
	eventTable := tablewriter.NewWriter(os.Stdout)
	eventTable.Header([]string{"Kind", "Count"})
	_ = eventTable.Bulk(eventData)
	_ = eventTable.Render()

	fmt.Printf("\nTime points: %d distinct (regime, era, year) triples\n",
		result.Datasets.Timeline.Timeline.TotalTimePoints)

	if n := len(result.FailedFiles); n > 0 {
		fmt.Printf("\n%d files could not be parsed (first %d):\n", n, min(n, 10))
		for _, f := range result.FailedFiles[:min(n, 10)] {
			fmt.Printf("  %s\n", f)
		}
	}
}

func loadService(cfg *config.Config) (*query.Service, error) {
	svc, err := query.Load(cfg.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w (output dir: %s)", err, cfg.Output.Dir)
	}
	return svc, nil
}

func printJSON(v any) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(buf))
	return nil
}

// printNoMatch lists the available eras; queries that match nothing still
// exit 0.
func printNoMatch(svc *query.Service) {
	fmt.Println("No matches. Available eras:")
	for _, era := range svc.AvailableEras() {
		fmt.Printf("  %s\n", era)
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := loadService(cfg)
	if err != nil {
		return err
	}
	expr, err := query.Parse(args[0])
	if err != nil {
		return err
	}

	scopes := svc.Scopes(expr)
	events := svc.Events(expr)
	if len(scopes) == 0 && len(events) == 0 {
		printNoMatch(svc)
		return nil
	}
	return printJSON(map[string]any{
		"scopes": scopes,
		"events": events,
	})
}

func runTimeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := loadService(cfg)
	if err != nil {
		return err
	}

	type row struct {
		ad          int
		regime, era string
		year        int
		count       int
	}
	var rows []row
	for _, rt := range svc.Timeline().Regimes {
		for _, et := range rt.Eras {
			for _, tp := range et.Years {
				r := row{regime: rt.Regime, era: et.Era, year: tp.Year, count: tp.OccurrenceCount}
				if ad, ok := regime.ExactADYear(regime.Regime(rt.Regime), et.Era, tp.Year); ok {
					r.ad = ad
				}
				rows = append(rows, r)
			}
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ad < rows[j].ad })

	data := [][]string{}
	for _, r := range rows {
		ad := "-"
		if r.ad > 0 {
			ad = fmt.Sprintf("%d", r.ad)
		}
		data = append(data, []string{
			ad, r.regime, r.era,
			fmt.Sprintf("%d", r.year), fmt.Sprintf("%d", r.count),
		})
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"AD", "Regime", "Era", "Year", "Files"})
	_ = table.Bulk(data)
	_ = table.Render()
	return nil
}

func runText(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := loadService(cfg)
	if err != nil {
		return err
	}
	expr, err := query.Parse(args[0])
	if err != nil {
		return err
	}

	scopes := svc.Scopes(expr)
	if len(scopes) == 0 {
		printNoMatch(svc)
		return nil
	}
	for _, scope := range scopes {
		text, err := svc.ScopeText(scope)
		if err != nil {
			logger.Warn("failed to read scope text",
				logger.File(scope.Span.File), zap.Error(err))
			continue
		}
		fmt.Printf("── %s [%s] ──\n%s\n\n", scope.Span.File, scope.Time.Raw, text)
	}
	return nil
}

func runLocate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := loadService(cfg)
	if err != nil {
		return err
	}
	expr, err := query.Parse(args[0])
	if err != nil {
		return err
	}

	if staleness == 0 {
		staleness = cfg.Query.StalenessYears
	}
	located := svc.Locate(expr, staleness)
	if len(located) == 0 {
		printNoMatch(svc)
		return nil
	}
	return printJSON(located)
}

func runPerson(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := loadService(cfg)
	if err != nil {
		return err
	}

	// Chinese names contain no spaces; multiple args are one name.
	name := strings.Join(args, "")
	return printJSON(svc.Person(name))
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
