package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"img-recon/internal/sheet"
)

// Config represents the application configuration
type Config struct {
	Input  InputConfig  `mapstructure:"input"`
	Detect DetectConfig `mapstructure:"detect"`
	Image  ImageConfig  `mapstructure:"image"`
	Output OutputConfig `mapstructure:"output"`
}

// InputConfig holds input validation settings
type InputConfig struct {
	MaxSizeMB   int      `mapstructure:"max_size_mb"`  // Maximum workbook size
	AllowedExts []string `mapstructure:"allowed_exts"` // Accepted file extensions
}

// DetectConfig bounds the layout detection scans
type DetectConfig struct {
	HeaderScanRows   int   `mapstructure:"header_scan_rows"`  // Header window height
	HeaderScanCols   int   `mapstructure:"header_scan_cols"`  // Header window width
	MaxDataRows      int   `mapstructure:"max_data_rows"`     // Data scan ceiling
	VendorCandidates []int `mapstructure:"vendor_candidates"` // Fallback vendor columns
}

// ImageConfig holds post-processing settings
type ImageConfig struct {
	UpscaleMinEdge int `mapstructure:"upscale_min_edge"` // 0 disables upscaling
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir        string   `mapstructure:"dir"`         // Output directory
	FolderName string   `mapstructure:"folder_name"` // Bundle root folder (default: workbook stem)
	Formats    []string `mapstructure:"formats"`     // Report formats (bundle, excel, word)
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// If the file doesn't exist, it uses sensible defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	// Read config file (ignore error if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - defaults apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.max_size_mb", 50)
	v.SetDefault("input.allowed_exts", []string{".xlsx", ".xlsm"})

	// Scan ceilings keep worst-case cost linear in container size
	v.SetDefault("detect.header_scan_rows", 60)
	v.SetDefault("detect.header_scan_cols", 40)
	v.SetDefault("detect.max_data_rows", 10000)
	v.SetDefault("detect.vendor_candidates", []int{4, 2, 3, 1})

	v.SetDefault("image.upscale_min_edge", 0)

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.folder_name", "")
	v.SetDefault("output.formats", []string{"bundle"})
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput
	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Input.MaxSizeMB <= 0 {
		return fmt.Errorf("input.max_size_mb must be positive")
	}
	if len(c.Input.AllowedExts) == 0 {
		return fmt.Errorf("input.allowed_exts must contain at least one extension")
	}
	if len(c.Output.Formats) == 0 {
		return fmt.Errorf("output.formats must contain at least one format")
	}
	return nil
}

// MaxSizeBytes returns the input size ceiling in bytes
func (c *Config) MaxSizeBytes() int64 {
	return int64(c.Input.MaxSizeMB) * 1024 * 1024
}

// AllowsExt checks whether a file extension is accepted as input
func (c *Config) AllowsExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.Input.AllowedExts {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}

// DetectOptions maps the detect section onto the layout detector's options
func (c *Config) DetectOptions() sheet.DetectOptions {
	return sheet.DetectOptions{
		HeaderScanRows:   c.Detect.HeaderScanRows,
		HeaderScanCols:   c.Detect.HeaderScanCols,
		MaxDataRows:      c.Detect.MaxDataRows,
		VendorCandidates: c.Detect.VendorCandidates,
	}
}

// BundleFolderName returns the root folder inside the output bundle for the
// given workbook file name
func (c *Config) BundleFolderName(workbookName string) string {
	if c.Output.FolderName != "" {
		return sheet.SafeFolderName(c.Output.FolderName)
	}
	stem := strings.TrimSuffix(filepath.Base(workbookName), filepath.Ext(workbookName))
	return sheet.SafeFolderName(stem)
}

// OutputPath returns the full path of an output artifact with the given
// extension (e.g. ".zip", ".xlsx")
func (c *Config) OutputPath(workbookName, ext string) string {
	return filepath.Join(c.Output.Dir, c.BundleFolderName(workbookName)+ext)
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== Img Recon Configuration ===")
	fmt.Printf("Max Input Size:   %d MB\n", c.Input.MaxSizeMB)
	fmt.Printf("Allowed Exts:     %v\n", c.Input.AllowedExts)
	fmt.Printf("Header Window:    %d rows x %d cols\n", c.Detect.HeaderScanRows, c.Detect.HeaderScanCols)
	fmt.Printf("Max Data Rows:    %d\n", c.Detect.MaxDataRows)
	fmt.Printf("Upscale Min Edge: %d\n", c.Image.UpscaleMinEdge)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Output Formats:   %v\n", c.Output.Formats)
	fmt.Println("===============================")
}
