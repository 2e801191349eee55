package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sqlkit-go/sqlkit/internal/config"
	"github.com/sqlkit-go/sqlkit/pkg/printer"
	"github.com/sqlkit-go/sqlkit/pkg/sqlkit"
)

const banner = `
 ███████╗ ██████╗ ██╗     ██╗  ██╗██╗████████╗
 ██╔════╝██╔═══██╗██║     ██║ ██╔╝██║╚══██╔══╝
 ███████╗██║   ██║██║     █████╔╝ ██║   ██║
 ╚════██║██║▄▄ ██║██║     ██╔═██╗ ██║   ██║
 ███████║╚██████╔╝███████╗██║  ██╗██║   ██║
 ╚══════╝ ╚══▀▀═╝ ╚══════╝╚═╝  ╚═╝╚═╝   ╚═╝

 sqlfmt — reformat a single SQL statement through sqlkit's parser/printer.
`

func main() {
	var (
		sqlText    = flag.String("sql", "", "SQL statement text")
		file       = flag.String("file", "", "File containing the SQL statement")
		dialectFl  = flag.String("dialect", "", "Dialect preset: postgres, mysql, sqlserver, sqlite")
		configFile = flag.String("config", "", "Configuration file path")
		showHelp   = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *showHelp {
		fmt.Print(banner)
		showUsage()
		return
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Printf("Warning: could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if *dialectFl != "" {
		cfg.Parser.Dialect = *dialectFl
	}

	sql, err := readSQL(*sqlText, *file)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := format(sql, cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func readSQL(sqlText, file string) (string, error) {
	if sqlText != "" {
		return sqlText, nil
	}
	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(content), nil
	}
	return "", fmt.Errorf("one of -sql or -file is required")
}

func format(sql string, cfg *config.Config) error {
	pcfg, err := printerConfig(cfg)
	if err != nil {
		return fmt.Errorf("building printer config: %w", err)
	}

	result, err := sqlkit.FormatSQL(sql, pcfg)
	if err != nil {
		return fmt.Errorf("failed to format query: %w", err)
	}

	fmt.Println(result.SQL)
	if len(result.Named) > 0 {
		fmt.Println("\nParameters:")
		for name, value := range result.Named {
			fmt.Printf("  %s = %v\n", name, value)
		}
	}
	if len(result.Ordered) > 0 {
		fmt.Println("\nParameters (ordered):")
		for i, value := range result.Ordered {
			fmt.Printf("  [%d] = %v\n", i, value)
		}
	}
	return nil
}

func printerConfig(cfg *config.Config) (printer.Config, error) {
	pcfg, err := printer.Default().WithPreset(cfg.Parser.Dialect)
	if err != nil {
		return printer.Config{}, err
	}
	if cfg.Printer.IndentSize > 0 {
		pcfg.IndentSize = cfg.Printer.IndentSize
	}
	pcfg.KeywordCase = keywordCase(cfg.Printer.KeywordCase)
	pcfg.CommaBreak = breakStyle(cfg.Printer.CommaBreak)
	pcfg.AndBreak = breakStyle(cfg.Printer.AndBreak)
	pcfg.WithClauseStyle = withClauseStyle(cfg.Printer.WithClauseStyle)
	pcfg.ExportComment = cfg.Printer.ExportComment
	return pcfg, nil
}

func keywordCase(s string) printer.KeywordCase {
	switch s {
	case "lower":
		return printer.KeywordLower
	case "none":
		return printer.KeywordAsIs
	default:
		return printer.KeywordUpper
	}
}

func breakStyle(s string) printer.BreakStyle {
	switch s {
	case "before":
		return printer.BreakBefore
	case "none":
		return printer.BreakNone
	default:
		return printer.BreakAfter
	}
}

func withClauseStyle(s string) printer.WithClauseStyle {
	switch s {
	case "cte-oneline":
		return printer.WithCTEOneline
	case "full-oneline":
		return printer.WithFullOneline
	default:
		return printer.WithStandard
	}
}

func showUsage() {
	fmt.Println("sqlfmt - reformat a single SQL statement")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sqlfmt -sql \"SELECT * FROM users\"     Format SQL from a string")
	fmt.Println("  sqlfmt -file query.sql                Format SQL from a file")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -dialect DIALECT  postgres, mysql, sqlserver, sqlite (default: postgres)")
	fmt.Println("  -config FILE      Configuration file path")
	fmt.Println("  -help             Show this help")
}
