package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/content-synth/internal/agent/generator"
	"github.com/content-synth/internal/app"
	"github.com/content-synth/internal/caption"
	"github.com/content-synth/internal/catalog"
	"github.com/content-synth/internal/config"
	"github.com/content-synth/internal/export"
	"github.com/content-synth/internal/hashtag"
	"github.com/content-synth/internal/models"
	"github.com/content-synth/internal/session"
	"github.com/content-synth/internal/storage"
	"github.com/content-synth/internal/tracker"
	"github.com/content-synth/pkg/logger"
	"github.com/content-synth/pkg/ratelimit"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	cat     *catalog.Catalog
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "content-synth",
		Short: "Persona-based social media caption generator",
		Long: `Generates platform-sized captions for education campaigns, steered by
student personas, with research-based hashtags and brand alignment checks.`,
		PersistentPreRunE: initializeApp,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ./configs/config.yaml)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(personasCmd())
	rootCmd.AddCommand(platformsCmd())
	rootCmd.AddCommand(hashtagsCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(trackerCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initializeApp loads what every command needs. Commands that call external
// services wire the rest through app.New.
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log = logger.New(cfg.LoggerConfig())

	cat, err = cfg.Catalog()
	if err != nil {
		return err
	}
	return nil
}

// ============ GENERATE ============

func generateCmd() *cobra.Command {
	var (
		in        models.CampaignInput
		seed      uint64
		withImage bool
		strict    bool
		exportTo  string
		count     int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a caption with hashtags for a campaign",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := generator.GenerateOptions{WithImage: withImage, Strict: strict}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}

			sess := session.New()
			for i := 0; i < count; i++ {
				result, err := a.Agent.Generate(ctx, sess, in, opts)
				if err != nil {
					return err
				}
				printResult(result)
			}

			if exportTo != "" {
				if err := writeExport(exportTo, sess.History()); err != nil {
					return err
				}
				fmt.Printf("\nExported %d result(s) to %s\n", sess.Len(), exportTo)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Platform, "platform", "Instagram", "Target platform")
	cmd.Flags().StringVar(&in.CampaignType, "campaign", "Course Enrollment", "Campaign type")
	cmd.Flags().StringVar(&in.CourseTitle, "course", "", "Course or event title (required)")
	cmd.Flags().StringVar(&in.BrandTone, "tone", "Friendly", "Brand tone: Professional, Casual or Friendly")
	cmd.Flags().StringVar(&in.Keywords, "keywords", "", "Optional audience or keyword description")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible hashtag draw")
	cmd.Flags().BoolVar(&withImage, "image", false, "Also look up an image")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject unknown platforms and campaign types")
	cmd.Flags().StringVar(&exportTo, "export", "", "Write results to a .csv or .txt file")
	cmd.Flags().IntVar(&count, "count", 1, "Number of variations to generate")
	cmd.MarkFlagRequired("course")

	return cmd
}

func printResult(r *models.GenerationResult) {
	fmt.Printf("\n=== %s / %s ===\n", r.Request.Platform, r.Request.Persona)
	fmt.Printf("Campaign:  %s\n", r.Request.CampaignType)
	fmt.Printf("Length:    %s (%s)\n", r.CharCountLabel(), r.LengthStatus)
	if over := r.Overflow(); over > 0 {
		fmt.Printf("           %d characters over the limit\n", over)
	}
	fmt.Printf("Alignment: %d/100\n", r.AlignmentScore)
	fmt.Printf("Seed:      %d\n", r.Seed)
	if r.Image != nil {
		fmt.Printf("Image:     %s (%s)\n", r.Image.URL, r.Image.Attribution)
	}
	fmt.Printf("\n--- Ready to post ---\n%s\n", r.PostText())
}

func writeExport(path string, results []*models.GenerationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return export.WriteCSV(f, results)
	}
	for _, r := range results {
		if _, err := fmt.Fprintln(f, export.TextReport(r, cat.Persona(r.Request.Persona))); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

// ============ PERSONAS ============

func personasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "personas",
		Short: "Inspect student personas",
	}
	cmd.AddCommand(personasListCmd())
	cmd.AddCommand(personasSelectCmd())
	return cmd
}

func personasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List personas and the campaigns mapped to them",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range cat.Personas() {
				marker := ""
				if p.Name == cat.DefaultPersona() {
					marker = " (default)"
				}
				fmt.Printf("\n%s%s\n", p.Name, marker)
				fmt.Printf("  %s\n", p.Description)
				fmt.Printf("  Demographics: %s\n", p.Demographics)
				fmt.Printf("  Interests:    %s\n", strings.Join(p.Interests, ", "))
				fmt.Printf("  Style:        %s\n", p.MessagingStyle)
				fmt.Printf("  CTA:          %s\n", p.CTAStyle)
			}

			fmt.Printf("\nCampaign mapping:\n")
			for _, r := range cat.Rules() {
				fmt.Printf("  %-28s -> %s\n", r.CampaignType, r.Persona)
			}
			return nil
		},
	}
}

func personasSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select [campaign type]",
		Short: "Show which persona a campaign type targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := cat.Persona(cat.SelectPersona(args[0]))
			fmt.Printf("%s -> %s\n", args[0], p.Name)
			fmt.Printf("  Key benefits: %s\n", p.KeyBenefits)
			return nil
		},
	}
}

// ============ PLATFORMS ============

func platformsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "platforms",
		Short: "Inspect platform limits",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List platforms with character limits and hashtag counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range cat.Platforms() {
				tags := fmt.Sprintf("%d", p.HashtagCount.Min)
				if p.HashtagCount.Max != p.HashtagCount.Min {
					tags = fmt.Sprintf("%d-%d", p.HashtagCount.Min, p.HashtagCount.Max)
				}
				fmt.Printf("%-16s limit %4d  hashtags %-4s tolerance %d  %s\n",
					p.Name, p.CharLimit, tags, p.Tolerance, p.Note)
			}
			return nil
		},
	})
	return cmd
}

// ============ OFFLINE TOOLS ============

func hashtagsCmd() *cobra.Command {
	var (
		platform string
		campaign string
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "hashtags",
		Short: "Assemble a hashtag set without generating a caption",
		RunE: func(cmd *cobra.Command, args []string) error {
			var s *uint64
			if cmd.Flags().Changed("seed") {
				s = &seed
			}
			p := cat.Platform(platform)
			persona := cat.SelectPersona(campaign)

			tags := hashtag.NewAssembler(cat).Assemble(hashtag.Request{
				Persona:      persona,
				Platform:     p,
				CampaignType: campaign,
			}, hashtag.NewRand(s))

			fmt.Printf("%s / %s (%d hashtags)\n%s\n", p.Name, persona, len(tags), strings.Join(tags, " "))
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "Instagram", "Target platform")
	cmd.Flags().StringVar(&campaign, "campaign", "", "Campaign type")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible draw")
	return cmd
}

func scoreCmd() *cobra.Command {
	var (
		platform string
		persona  string
		campaign string
		tone     string
	)

	cmd := &cobra.Command{
		Use:   "score [caption]",
		Short: "Check a caption's length and brand alignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if persona == "" {
				persona = cat.SelectPersona(campaign)
			}

			e := caption.NewEvaluator(cat)
			p := cat.Platform(platform)
			status, n := e.ClassifyForPlatform(text, p)
			score := e.ScoreAlignment(text, persona, tone)

			fmt.Printf("Platform:  %s\n", p.Name)
			fmt.Printf("Persona:   %s\n", persona)
			fmt.Printf("Length:    %d/%d (%s)\n", n, p.CharLimit, status)
			fmt.Printf("Alignment: %d/100\n", score)
			if utf8.RuneCountInString(text) != len(text) {
				fmt.Printf("           counted in characters, not bytes (%d bytes)\n", len(text))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "Instagram", "Target platform")
	cmd.Flags().StringVar(&persona, "persona", "", "Persona name (default: selected from --campaign)")
	cmd.Flags().StringVar(&campaign, "campaign", "", "Campaign type used to select the persona")
	cmd.Flags().StringVar(&tone, "tone", "Friendly", "Brand tone")
	return cmd
}

// ============ HISTORY ============

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and export saved generations",
	}
	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyExportCmd())
	return cmd
}

func openRepo() (storage.Repository, error) {
	repo, err := app.OpenRepository(cfg)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, fmt.Errorf("%w: database is disabled (set database.enabled=true)", models.ErrConfigurationMissing)
	}
	return repo, nil
}

func historyListCmd() *cobra.Command {
	filter := storage.DefaultGenerationFilter()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved generations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			records, err := repo.ListGenerations(context.Background(), filter)
			if err != nil {
				return fmt.Errorf("failed to list generations: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No generations found.")
				return nil
			}

			fmt.Printf("%-20s %-10s %-20s %-8s %-9s %s\n", "GENERATED", "PLATFORM", "PERSONA", "CHARS", "ALIGN", "CAPTION")
			for _, rec := range records {
				preview := rec.Caption
				if utf8.RuneCountInString(preview) > 50 {
					preview = string([]rune(preview)[:47]) + "..."
				}
				preview = strings.ReplaceAll(preview, "\n", " ")
				fmt.Printf("%-20s %-10s %-20s %-8s %-9d %s\n",
					rec.GeneratedAt.Format(export.TimestampLayout),
					rec.Platform,
					rec.Persona,
					fmt.Sprintf("%d/%d", rec.CharCount, rec.CharLimit),
					rec.AlignmentScore,
					preview,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.SessionID, "session", "", "Filter by session ID")
	cmd.Flags().StringVar(&filter.Platform, "platform", "", "Filter by platform")
	cmd.Flags().StringVar(&filter.Persona, "persona", "", "Filter by persona")
	cmd.Flags().IntVar(&filter.Limit, "limit", filter.Limit, "Maximum rows")
	return cmd
}

func historyExportCmd() *cobra.Command {
	var (
		sessionID string
		out       string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved generations to CSV or TXT",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			records, err := repo.ListGenerations(context.Background(), storage.GenerationFilter{SessionID: sessionID})
			if err != nil {
				return fmt.Errorf("failed to list generations: %w", err)
			}
			results := make([]*models.GenerationResult, len(records))
			for i, rec := range records {
				results[i] = rec.Result()
			}

			if err := writeExport(out, results); err != nil {
				return err
			}
			fmt.Printf("Exported %d result(s) to %s\n", len(results), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Only export one session")
	cmd.Flags().StringVar(&out, "out", "history.csv", "Output file (.csv or .txt)")
	return cmd
}

// ============ TRACKER ============

func trackerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracker",
		Short: "Google Sheets tracker management",
	}
	cmd.AddCommand(trackerInitCmd())
	cmd.AddCommand(trackerSyncCmd())
	return cmd
}

func newTracker(ctx context.Context) (*tracker.SheetsTracker, error) {
	if !cfg.Tracker.Enabled {
		return nil, fmt.Errorf("tracker is not enabled in config - set tracker.enabled=true and tracker.spreadsheet_id")
	}
	t, err := tracker.NewSheetsTracker(ctx, cfg.Tracker, ratelimit.New(cfg.Limits()), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracker: %w", err)
	}
	return t, nil
}

func trackerInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize Google Sheet with headers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			t, err := newTracker(ctx)
			if err != nil {
				return err
			}
			if err := t.InitializeSheet(ctx); err != nil {
				return fmt.Errorf("failed to initialize sheet: %w", err)
			}

			fmt.Println("Google Sheet initialized successfully!")
			fmt.Printf("Spreadsheet ID: %s\n", cfg.Tracker.SpreadsheetID)
			fmt.Printf("Sheet Name: %s\n", cfg.Tracker.SheetName)
			fmt.Println("\nColumns created:")
			for i, col := range tracker.SheetColumns {
				fmt.Printf("  %d. %s\n", i+1, col)
			}
			return nil
		},
	}
}

func trackerSyncCmd() *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Append saved generations that are not yet in the sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			t, err := newTracker(ctx)
			if err != nil {
				return err
			}
			repo, err := openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := t.InitializeSheet(ctx); err != nil {
				return fmt.Errorf("failed to initialize sheet: %w", err)
			}
			n, err := t.SyncPending(ctx, repo, batch)
			if err != nil {
				return err
			}
			fmt.Printf("Synced %d generation(s) to the tracker\n", n)
			return nil
		},
	}

	cmd.Flags().IntVar(&batch, "batch", 100, "Rows per append call")
	return cmd
}
