package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"img-recon/internal/config"
	"img-recon/internal/engine"
	"img-recon/internal/exporter"
	"img-recon/internal/logger"
	"img-recon/internal/sheet"
	"img-recon/internal/ui"
)

const (
	appName    = "Img Recon"
	appVersion = "1.0.0"
	appDesc    = "A Pure Go tool that extracts row-aligned images from Excel workbooks"
)

var (
	configPath  string
	inputPath   string
	sheetName   string
	verbose     bool
	showVersion bool
	outputDir   string
	formats     string
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.StringVar(&inputPath, "input", "", "Path to the input workbook (.xlsx/.xlsm)")
	flag.StringVar(&inputPath, "i", "", "Path to the input workbook (shorthand)")
	flag.StringVar(&sheetName, "sheet", "", "Worksheet name (required when the workbook has several sheets)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.StringVar(&outputDir, "output", "", "Override output directory from config")
	flag.StringVar(&formats, "format", "", "Comma-separated output formats (bundle,excel,word)")
}

func main() {
	// CRITICAL: Ensure "Press Enter to Exit" runs even on panic or error
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n❌ PANIC: %v\n", r)
		}
		waitForEnter()
	}()

	// Run the actual application logic
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	printBanner()

	// 1. Initialize
	logger.Info("Loading configuration...")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return 1
	}

	if outputDir != "" {
		cfg.Output.Dir = outputDir
		cfg.EnsureOutputDir()
	}
	if formats != "" {
		cfg.Output.Formats = strings.Split(formats, ",")
	}

	logPath := filepath.Join(cfg.Output.Dir, "img_recon.log")
	if err := logger.Init(os.Stdout, logPath, verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if inputPath == "" {
		logger.Error("No input workbook given. Use -input <file.xlsx>.")
		return 1
	}

	if err := runExtraction(cfg); err != nil {
		logger.Error("Extraction failed: %v", err)
		return 1
	}

	logger.Info("✅ Extraction Complete. Check [%s] directory.", cfg.Output.Dir)
	return 0
}

// waitForEnter pauses execution and waits for user to press Enter
// This prevents the console window from closing immediately when double-clicked
func waitForEnter() {
	fmt.Println("\n==========================================")
	fmt.Println("Execution Finished. Press 'Enter' to exit.")
	fmt.Println("==========================================")
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func runExtraction(cfg *config.Config) error {
	pipeline := ui.NewPipeline([]ui.Phase{
		ui.PhaseOpening,
		ui.PhaseExtracting, // Detection + extraction + reconciliation combined for the user
		ui.PhaseExporting,
	})

	// --- Phase 1: Opening & Validation ---
	logger.Info("Phase 1: Opening workbook...")
	openBar := pipeline.NextPhase(2)

	data, err := loadInput(cfg)
	if err != nil {
		return err
	}
	openBar.Increment()

	target, err := resolveSheet(data)
	if err != nil {
		return err
	}
	openBar.Increment()
	openBar.Finish()

	// --- Phase 2: Extraction & Reconciliation ---
	logger.Info("Phase 2: Extracting images from sheet %q...", target)
	extractBar := pipeline.NextPhase(1)

	eng := engine.New(engine.Options{
		Detect:         cfg.DetectOptions(),
		UpscaleMinEdge: cfg.Image.UpscaleMinEdge,
	})
	report, err := eng.Run(data, filepath.Base(inputPath), target)
	if err != nil {
		return err
	}
	extractBar.Increment()
	extractBar.Finish()

	rec := report.Reconciliation
	logger.Info("Strategy %s: %d matched, %d missing, %d extra, %d duplicate rows",
		report.StrategyVariant, len(rec.Matched), len(rec.MissingRows),
		len(rec.ExtraAnchorRows), len(rec.DuplicateRows))

	// --- Phase 3: Exporting ---
	logger.Info("Phase 3: Writing output artifacts...")
	exporters := exporter.GetExporters(cfg.Output.Formats)
	if len(exporters) == 0 {
		return fmt.Errorf("no valid output formats in %v", cfg.Output.Formats)
	}

	genBar := pipeline.NextPhase(len(exporters))

	var exportErrors []error
	for _, exp := range exporters {
		if err := exp.Export(report, cfg); err != nil {
			logger.Error("Export failed: %v", err)
			exportErrors = append(exportErrors, err)
		}
		genBar.Increment()
	}
	genBar.Finish()

	pipeline.Finish()

	// Return error if any exports failed
	if len(exportErrors) > 0 {
		return fmt.Errorf("one or more exports failed: %d errors", len(exportErrors))
	}

	return nil
}

// loadInput validates the input workbook against the configured limits and
// reads it fully into memory
func loadInput(cfg *config.Config) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(inputPath))
	if !cfg.AllowsExt(ext) {
		return nil, fmt.Errorf("unsupported input type %q (allowed: %v)", ext, cfg.Input.AllowedExts)
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access input workbook: %w", err)
	}
	if info.Size() > cfg.MaxSizeBytes() {
		return nil, fmt.Errorf("input workbook is %d bytes, limit is %d MB", info.Size(), cfg.Input.MaxSizeMB)
	}

	return os.ReadFile(inputPath)
}

// resolveSheet picks the worksheet to process. An explicit -sheet flag wins;
// otherwise a single-sheet workbook selects its only sheet, and anything else
// is an error listing the choices.
func resolveSheet(data []byte) (string, error) {
	if sheetName != "" {
		return sheetName, nil
	}

	wb, err := sheet.OpenWorkbook(data)
	if err != nil {
		return "", err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	switch len(sheets) {
	case 0:
		return "", fmt.Errorf("workbook contains no sheets")
	case 1:
		return sheets[0], nil
	default:
		return "", fmt.Errorf("workbook has %d sheets, pick one with -sheet: %s",
			len(sheets), strings.Join(sheets, ", "))
	}
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                      IMG RECON v1.0.0                     ║
║        Row-Aligned Image Extraction for Excel Files       ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
