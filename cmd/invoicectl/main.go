// Command invoicectl exercises the invoice extraction pipeline against local
// PDF files and validates the runtime configuration, without any inbound
// mail in the loop.
// Usage: invoicectl [parse|scan|info|checkconfig] [args]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"invomail/internal/compose"
	"invomail/internal/config"
	"invomail/internal/domain"
	"invomail/internal/email/noop"
	"invomail/internal/email/ses"
	"invomail/internal/extract"
	_ "invomail/internal/extract/anthropic"
	_ "invomail/internal/extract/bedrock"
	sqsqueue "invomail/internal/queue/sqs"
	s3storage "invomail/internal/storage/s3"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	switch os.Args[1] {
	case "parse":
		err = runParse(cfg, os.Args[2:])
	case "scan":
		err = runScan(cfg, os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "checkconfig":
		err = runCheckConfig(cfg)
	default:
		fmt.Printf("unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func printUsage() {
	fmt.Println("Usage: invoicectl <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  parse <pdf>...   parse PDFs through the configured model, print the JSON export")
	fmt.Println("  scan <dir>       parse every PDF in a directory, one model call per file")
	fmt.Println("  info <pdf>       show file details without calling the model")
	fmt.Println("  checkconfig      print resolved config and verify clients construct")
}

// runParse sends one or more local PDFs through the configured model in a
// single extraction run and prints the JSON export.
func runParse(cfg *config.Config, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("parse requires at least one PDF path")
	}

	docs := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		fmt.Printf("Loaded %s (%d bytes)\n", path, len(data))
		docs = append(docs, domain.Document{Data: data, Filename: filepath.Base(path)})
	}

	model, err := extract.NewFromConfig(&cfg.Extract)
	if err != nil {
		return fmt.Errorf("building document model: %w", err)
	}

	records, err := extract.NewExtractor(model).Extract(context.Background(), docs, "")
	if err != nil {
		return err
	}
	return printRecords(records)
}

// runScan parses every PDF in a directory, one file per model call so a bad
// file cannot fail its neighbors, and prints a per-file summary at the end.
func runScan(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("scan requires a directory path")
	}
	dir := args[0]

	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w in %s", domain.ErrNoDocuments, dir)
	}

	fmt.Printf("Found %d PDF file(s) in %s\n", len(paths), dir)

	model, err := extract.NewFromConfig(&cfg.Extract)
	if err != nil {
		return fmt.Errorf("building document model: %w", err)
	}
	extractor := extract.NewExtractor(model)

	failures := map[string]error{}
	for _, path := range paths {
		name := filepath.Base(path)
		fmt.Printf("\nParsing %s\n", name)

		data, err := os.ReadFile(path)
		if err != nil {
			failures[name] = err
			fmt.Printf("error: %v\n", err)
			continue
		}

		records, err := extractor.Extract(context.Background(),
			[]domain.Document{{Data: data, Filename: name}}, "")
		if err != nil {
			failures[name] = err
			fmt.Printf("error: %v\n", err)
			continue
		}
		if err := printRecords(records); err != nil {
			return err
		}
	}

	fmt.Println("\nSummary:")
	for _, path := range paths {
		name := filepath.Base(path)
		if ferr, ok := failures[name]; ok {
			fmt.Printf("  %s: FAILED (%v)\n", name, ferr)
		} else {
			fmt.Printf("  %s: OK\n", name)
		}
	}
	return nil
}

// runInfo prints basic information about a PDF without calling the model.
func runInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("info requires a PDF path")
	}
	path := args[0]

	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	fmt.Printf("File: %s\n", path)
	fmt.Printf("Size: %d bytes\n", fi.Size())
	fmt.Println("The file is sent to the configured document model unmodified.")
	return nil
}

// runCheckConfig prints the resolved configuration, masking secrets, and
// verifies that every configured client can be constructed.
func runCheckConfig(cfg *config.Config) error {
	primary := cfg.Extract.PrimaryConfig()

	fmt.Println("Resolved configuration:")
	fmt.Printf("  s3.region:          %s\n", cfg.S3.Region)
	fmt.Printf("  s3.bucket:          %s\n", valueOr(cfg.S3.Bucket, "NOT SET"))
	fmt.Printf("  s3.key_prefix:      %s\n", cfg.S3.KeyPrefix)
	fmt.Printf("  s3.access_key:      %s\n", setOrNot(cfg.S3.AccessKey))
	fmt.Printf("  s3.secret_key:      %s\n", setOrNot(cfg.S3.SecretKey))
	fmt.Printf("  email.provider:     %s\n", cfg.Email.Provider)
	fmt.Printf("  email.region:       %s\n", cfg.Email.Region)
	fmt.Printf("  email.from_address: %s\n", cfg.Email.FromAddress)
	fmt.Printf("  extract.primary:    %s (model %s, region %s)\n",
		primary.Provider, valueOr(primary.ModelID, "provider default"), valueOr(primary.Region, "NOT SET"))
	if secondary := cfg.Extract.SecondaryConfig(); secondary != nil {
		fmt.Printf("  extract.secondary:  %s (model %s)\n",
			secondary.Provider, valueOr(secondary.ModelID, "provider default"))
	} else {
		fmt.Println("  extract.secondary:  NOT SET")
	}
	fmt.Printf("  queue.enabled:      %v\n", cfg.Queue.Enabled)
	if cfg.Queue.Enabled {
		fmt.Printf("  queue.url:          %s\n", valueOr(cfg.Queue.URL, "NOT SET"))
	}
	fmt.Printf("  pipeline.fallback_address: %s\n", valueOr(cfg.Pipeline.FallbackAddress, "NOT SET"))
	fmt.Printf("  pipeline.archive_results:  %v\n", cfg.Pipeline.ArchiveResults)

	fmt.Println("\nClient construction:")
	ok := true
	ok = check("storage", func() error {
		_, err := s3storage.NewS3Client(&cfg.S3)
		return err
	}) && ok
	ok = check("email", func() error {
		var err error
		if cfg.Email.Provider == "ses" {
			_, err = ses.NewSESSender(&cfg.Email)
		} else {
			_ = noop.NewNoopSender()
		}
		return err
	}) && ok
	ok = check("model", func() error {
		_, err := extract.NewFromConfig(&cfg.Extract)
		return err
	}) && ok
	if cfg.Queue.Enabled {
		ok = check("queue", func() error {
			_, err := sqsqueue.NewSQSQueue(&cfg.Queue)
			return err
		}) && ok
	}

	if !ok {
		return fmt.Errorf("configuration check failed")
	}
	fmt.Println("\nConfiguration OK")
	return nil
}

func check(name string, build func() error) bool {
	if err := build(); err != nil {
		fmt.Printf("  %-8s error: %v\n", name, err)
		return false
	}
	fmt.Printf("  %-8s ok\n", name)
	return true
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func setOrNot(secret string) string {
	if secret == "" {
		return "NOT SET"
	}
	return "SET"
}

func printRecords(records []domain.InvoiceRecord) error {
	results := make([]domain.ProcessingResult, 0, len(records))
	for _, rec := range records {
		results = append(results, domain.ProcessingResult{InvoiceRecord: rec})
	}
	data, err := compose.EncodeResults(results)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
