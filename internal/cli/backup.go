package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazypower/keepsharp/internal/backup"
	"github.com/lazypower/keepsharp/internal/model"
)

var (
	exportFormat string
	exportOutput string

	importMode   string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup of all skills and practice logs",
	Long:  "Write a backup bundle as json, yaml or xlsx. Without -o the bundle goes to stdout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := backup.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("format") && exportOutput != "" {
			format = backup.FormatFromPath(exportOutput)
		}

		eng, closeEngine, err := openEngine(cmd.Context(), cliLogger())
		if err != nil {
			return err
		}
		defer closeEngine()

		b, err := eng.Export(cmd.Context())
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := backup.Write(&buf, b, format); err != nil {
			return err
		}
		if exportOutput == "" || exportOutput == "-" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(exportOutput, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d skills and %d logs to %s\n", len(b.Skills), len(b.PracticeLogs), exportOutput)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a backup bundle",
	Long:  "Import a json, yaml or xlsx backup. --mode merge (default) keeps existing data; --mode replace wipes it first.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := model.ParseImportMode(importMode)
		if err != nil {
			return err
		}
		format := backup.FormatFromPath(args[0])
		if importFormat != "" {
			if format, err = backup.ParseFormat(importFormat); err != nil {
				return err
			}
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open backup: %w", err)
		}
		defer f.Close()

		decoded, err := backup.Read(f, format)
		if err != nil {
			return err
		}

		eng, closeEngine, err := openEngine(cmd.Context(), cliLogger())
		if err != nil {
			return err
		}
		defer closeEngine()

		res, err := eng.Import(cmd.Context(), decoded, mode)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d skills and %d logs (%d skills, %d logs skipped)\n",
			res.SkillsImported, res.LogsImported, res.SkillsSkipped, res.LogsSkipped)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json, yaml or xlsx")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")

	importCmd.Flags().StringVar(&importMode, "mode", string(model.ImportMerge), "merge or replace")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "json, yaml or xlsx (default from file extension)")
}
